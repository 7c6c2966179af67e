package config

import (
	"fmt"
	"math"
	"strings"
)

// MatchingConfig carries every tunable constant of the matching and
// recommendation engine: donor eligibility bounds, tier caps, search radii
// and all scoring weights.
type MatchingConfig struct {
	// Donor eligibility.
	MinDonorAge      int
	MaxDonorAge      int
	MinDonorWeightKg int

	// Tier caps.
	LocalDonorCap       int
	MaxDonorResults     int
	EmergencyContactCap int
	MaxDoctorResults    int

	// Search radii.
	DonorRadiusKm    float64
	FacilityRadiusKm float64

	// Over-radius diversification of the regional donor tier: a donor
	// beyond the radius but within radius*Multiplier is still included
	// with the given probability.
	OverRadiusMultiplier  float64
	OverRadiusProbability float64

	Hospital HospitalWeights
	Doctor   DoctorWeights
}

// HospitalWeights holds the composite-score weights for hospital
// recommendations. The four top-level weights sum to 1; EmergencyBonus is a
// flat addition on top, so composite scores are heuristic magnitudes, not
// probabilities.
type HospitalWeights struct {
	Specialty      float64
	BaseQuality    float64
	Urgency        float64
	Distance       float64
	EmergencyBonus float64

	// NoSpecialtyMatch is the flat specialty sub-score applied when the
	// facility does not offer the classified specialty.
	NoSpecialtyMatch float64

	// Specialty-fit sub-weights.
	DeptRating       float64
	DeptDoctors      float64
	DeptSuccess      float64
	DeptAvailability float64

	// Base-quality sub-weights.
	OverallRating  float64
	Equipment      float64
	Expertise      float64
	Infrastructure float64
	Satisfaction   float64
}

// DoctorWeights holds the doctor quality-score weights.
type DoctorWeights struct {
	Rating      float64
	Experience  float64
	SuccessRate float64
	Procedures  float64
}

// LoadMatching builds a MatchingConfig from environment variables, falling
// back to the documented defaults.
func LoadMatching() MatchingConfig {
	return MatchingConfig{
		MinDonorAge:      getEnvAsInt("MATCH_MIN_DONOR_AGE", 18),
		MaxDonorAge:      getEnvAsInt("MATCH_MAX_DONOR_AGE", 65),
		MinDonorWeightKg: getEnvAsInt("MATCH_MIN_DONOR_WEIGHT_KG", 50),

		LocalDonorCap:       getEnvAsInt("MATCH_LOCAL_DONOR_CAP", 3),
		MaxDonorResults:     getEnvAsInt("MATCH_MAX_DONOR_RESULTS", 30),
		EmergencyContactCap: getEnvAsInt("MATCH_EMERGENCY_CONTACT_CAP", 5),
		MaxDoctorResults:    getEnvAsInt("MATCH_MAX_DOCTOR_RESULTS", 10),

		DonorRadiusKm:    getEnvAsFloat("MATCH_DONOR_RADIUS_KM", 200),
		FacilityRadiusKm: getEnvAsFloat("MATCH_FACILITY_RADIUS_KM", 50),

		OverRadiusMultiplier:  getEnvAsFloat("MATCH_OVER_RADIUS_MULTIPLIER", 2.0),
		OverRadiusProbability: getEnvAsFloat("MATCH_OVER_RADIUS_PROBABILITY", 0.4),

		Hospital: HospitalWeights{
			Specialty:      getEnvAsFloat("MATCH_HOSPITAL_SPECIALTY_WEIGHT", 0.50),
			BaseQuality:    getEnvAsFloat("MATCH_HOSPITAL_QUALITY_WEIGHT", 0.25),
			Urgency:        getEnvAsFloat("MATCH_HOSPITAL_URGENCY_WEIGHT", 0.15),
			Distance:       getEnvAsFloat("MATCH_HOSPITAL_DISTANCE_WEIGHT", 0.10),
			EmergencyBonus: getEnvAsFloat("MATCH_HOSPITAL_EMERGENCY_BONUS", 0.05),

			NoSpecialtyMatch: getEnvAsFloat("MATCH_HOSPITAL_NO_SPECIALTY_SCORE", 0.05),

			DeptRating:       0.5,
			DeptDoctors:      0.3,
			DeptSuccess:      0.4,
			DeptAvailability: 0.1,

			OverallRating:  0.3,
			Equipment:      0.25,
			Expertise:      0.3,
			Infrastructure: 0.1,
			Satisfaction:   0.05,
		},
		Doctor: DoctorWeights{
			Rating:      getEnvAsFloat("MATCH_DOCTOR_RATING_WEIGHT", 0.4),
			Experience:  getEnvAsFloat("MATCH_DOCTOR_EXPERIENCE_WEIGHT", 0.3),
			SuccessRate: getEnvAsFloat("MATCH_DOCTOR_SUCCESS_WEIGHT", 0.2),
			Procedures:  getEnvAsFloat("MATCH_DOCTOR_PROCEDURES_WEIGHT", 0.1),
		},
	}
}

// Validate checks that a MatchingConfig is internally consistent.
func (c MatchingConfig) Validate() error {
	var errs []string

	if c.MinDonorAge < 0 || c.MaxDonorAge < c.MinDonorAge {
		errs = append(errs, "donor age bounds must satisfy 0 <= min <= max")
	}
	if c.MinDonorWeightKg < 0 {
		errs = append(errs, "min_donor_weight_kg must be >= 0")
	}
	if c.LocalDonorCap < 0 || c.MaxDonorResults <= 0 || c.EmergencyContactCap <= 0 || c.MaxDoctorResults <= 0 {
		errs = append(errs, "tier caps must be positive")
	}
	if c.DonorRadiusKm <= 0 || c.FacilityRadiusKm <= 0 {
		errs = append(errs, "search radii must be > 0")
	}
	if c.OverRadiusMultiplier < 1 {
		errs = append(errs, "over_radius_multiplier must be >= 1")
	}
	if c.OverRadiusProbability < 0 || c.OverRadiusProbability > 1 {
		errs = append(errs, "over_radius_probability must be in [0, 1]")
	}

	weights := map[string]float64{
		"hospital_specialty_weight": c.Hospital.Specialty,
		"hospital_quality_weight":   c.Hospital.BaseQuality,
		"hospital_urgency_weight":   c.Hospital.Urgency,
		"hospital_distance_weight":  c.Hospital.Distance,
		"hospital_emergency_bonus":  c.Hospital.EmergencyBonus,
		"doctor_rating_weight":      c.Doctor.Rating,
		"doctor_experience_weight":  c.Doctor.Experience,
		"doctor_success_weight":     c.Doctor.SuccessRate,
		"doctor_procedures_weight":  c.Doctor.Procedures,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	// The top-level hospital weights should sum to 1 (allow tolerance for
	// floating point); the emergency bonus sits on top.
	hospitalSum := c.Hospital.Specialty + c.Hospital.BaseQuality + c.Hospital.Urgency + c.Hospital.Distance
	if math.Abs(hospitalSum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("hospital weights should sum to 1, got %.2f", hospitalSum))
	}

	doctorSum := c.Doctor.Rating + c.Doctor.Experience + c.Doctor.SuccessRate + c.Doctor.Procedures
	if math.Abs(doctorSum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("doctor weights should sum to 1, got %.2f", doctorSum))
	}

	if len(errs) > 0 {
		return fmt.Errorf("matching config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
