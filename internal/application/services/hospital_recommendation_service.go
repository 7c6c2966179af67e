package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/providers"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	"github.com/swasthyalink/backend/pkg/config"
	apperrors "github.com/swasthyalink/backend/pkg/errors"
	"github.com/swasthyalink/backend/pkg/geo"
)

// Distance tiers for the proximity sub-score.
const (
	sameCityKm   = 50.0
	nearbyCityKm = 100.0
	farDecayKm   = 500.0
)

const defaultMaxHospitalResults = 10

var (
	unknownLocalityCounterOnce sync.Once
	unknownLocalityCounter     metric.Int64Counter
)

// HospitalRecommendationService ranks facilities in the requester's
// administrative region for a classified medical issue.
type HospitalRecommendationService struct {
	facilities repositories.FacilityDirectory
	classifier providers.SpecialtyClassifier
	locations  providers.LocationRegistry
	cfg        config.MatchingConfig
}

// NewHospitalRecommendationService creates a hospital recommendation
// service. The classifier is expected to degrade gracefully; wrap raw
// classifiers with classifier.NewGracefulClassifier.
func NewHospitalRecommendationService(facilities repositories.FacilityDirectory, specialtyClassifier providers.SpecialtyClassifier, locations providers.LocationRegistry, cfg config.MatchingConfig) *HospitalRecommendationService {
	return &HospitalRecommendationService{
		facilities: facilities,
		classifier: specialtyClassifier,
		locations:  locations,
		cfg:        cfg,
	}
}

// Recommend classifies the issue, restricts candidates to the requester's
// region (closer facilities in other regions are excluded), scores each
// candidate with the weighted composite, and returns the top results with
// rank and rationale. An empty region yields an empty result list; the
// caller decides whether to broaden the search.
func (s *HospitalRecommendationService) Recommend(ctx context.Context, query entities.HospitalQuery) (*entities.RecommendationReport, error) {
	ctx, span := observability.StartSpan(ctx, "matching.recommend_hospitals")
	defer span.End()

	urgency := query.Urgency
	if urgency == "" {
		urgency = entities.UrgencyMedium
	}
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxHospitalResults
	}

	classification, err := s.classifier.Classify(ctx, query.IssueText)
	if err != nil {
		// A well-behaved classifier never errors; treat a leak as the
		// generic label rather than failing the request.
		classification = providers.Classification{
			Specialty:  providers.SpecialtyGeneral,
			Confidence: 0.05,
		}
	}

	loc := s.locations.Resolve(query.City)
	if loc.Fallback {
		recordUnknownLocality(ctx)
	}

	candidates, err := s.facilities.List(ctx, repositories.FacilityFilter{State: loc.State})
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewInternalError("facility directory query failed", err)
	}

	report := &entities.RecommendationReport{
		Specialty:           classification.Specialty,
		SpecialtyConfidence: classification.Confidence,
		ClassifierFallback:  classification.Specialty == providers.SpecialtyGeneral,
		City:                query.City,
		State:               loc.State,
		CityFallback:        loc.Fallback,
		Results:             []entities.HospitalRecommendation{},
	}

	if len(candidates) == 0 {
		return report, nil
	}

	scored := make([]entities.HospitalRecommendation, 0, len(candidates))
	for _, f := range candidates {
		distance := geo.DistanceKm(loc.Latitude, loc.Longitude, f.Location.Latitude, f.Location.Longitude)
		score := s.score(f, classification.Specialty, urgency, distance)
		if score <= 0 {
			continue
		}

		rec := entities.HospitalRecommendation{
			Facility:     f,
			Score:        math.Round(score*100) / 100,
			DistanceKm:   math.Round(distance*100) / 100,
			UrgencyMatch: urgencyMatch(f, urgency),
		}
		if dept, ok := f.Specialties[classification.Specialty]; ok {
			rec.SpecialtyMatch = true
			rec.SpecialtyMetrics = &entities.SpecialtyMetrics{
				Rating:             dept.Rating,
				DoctorCount:        dept.DoctorCount,
				SuccessRatePercent: dept.SuccessRatePercent,
				WaitDays:           dept.WaitDays,
			}
		}
		scored = append(scored, rec)
	}

	// Best score first; exact ties resolve by stable id order.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Facility.ID < scored[j].Facility.ID
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	for i := range scored {
		scored[i].Rank = i + 1
		scored[i].Reason = s.reason(&scored[i], classification.Specialty, urgency)
	}

	report.Results = scored
	return report, nil
}

// score computes the weighted composite of specialty fit, base quality,
// urgency fit and distance tier, plus the flat emergency bonus. Weights
// come from configuration; the result is a heuristic magnitude, not a
// probability.
func (s *HospitalRecommendationService) score(f *entities.Facility, specialty string, urgency entities.UrgencyLevel, distanceKm float64) float64 {
	w := s.cfg.Hospital
	score := 0.0

	if dept, ok := f.Specialties[specialty]; ok {
		fit := dept.Rating*w.DeptRating +
			(float64(dept.DoctorCount)/10)*w.DeptDoctors +
			(dept.SuccessRatePercent/100)*w.DeptSuccess +
			(1-float64(dept.WaitDays)/30)*w.DeptAvailability
		score += fit * w.Specialty
	} else {
		score += w.NoSpecialtyMatch
	}

	base := f.OverallRating*w.OverallRating +
		f.EquipmentQuality*w.Equipment +
		f.DoctorExpertise*w.Expertise +
		f.InfrastructureRating*w.Infrastructure +
		f.PatientSatisfaction*w.Satisfaction
	score += base * w.BaseQuality

	score += urgencyScore(f, urgency) * w.Urgency
	score += distanceScore(distanceKm) * w.Distance

	if urgency.Urgent() && f.HasEmergencyServices {
		score += w.EmergencyBonus
	}

	return score
}

func urgencyScore(f *entities.Facility, urgency entities.UrgencyLevel) float64 {
	switch urgency {
	case entities.UrgencyCritical:
		if f.HasEmergencyServices && f.ICUBeds > 10 {
			return 1.0
		}
		return 0.5
	case entities.UrgencyHigh:
		if f.HasEmergencyServices {
			return 0.8
		}
		return 0.6
	case entities.UrgencyMedium:
		if f.WaitTimeMinutes < 60 {
			return 0.7
		}
		return 0.5
	default:
		return 0.6
	}
}

func distanceScore(distanceKm float64) float64 {
	switch {
	case distanceKm < sameCityKm:
		return 1.0
	case distanceKm < nearbyCityKm:
		return 0.8
	default:
		return math.Max(0, 1-distanceKm/farDecayKm)
	}
}

// urgencyMatch reports whether the facility satisfies the urgency level's
// readiness requirements.
func urgencyMatch(f *entities.Facility, urgency entities.UrgencyLevel) bool {
	switch urgency {
	case entities.UrgencyCritical:
		return f.HasEmergencyServices && f.ICUBeds > 5
	case entities.UrgencyHigh:
		return f.HasEmergencyServices || f.WaitTimeMinutes < 90
	default:
		return true
	}
}

// reason synthesizes a human-readable rationale from up to three fragments
// evaluated in fixed priority order.
func (s *HospitalRecommendationService) reason(rec *entities.HospitalRecommendation, specialty string, urgency entities.UrgencyLevel) string {
	var reasons []string

	if rec.SpecialtyMatch && rec.SpecialtyMetrics != nil {
		reasons = append(reasons,
			fmt.Sprintf("Specialized in %s with %d expert doctors", specialty, rec.SpecialtyMetrics.DoctorCount),
			fmt.Sprintf("%s success rate: %.1f%%", specialty, rec.SpecialtyMetrics.SuccessRatePercent),
		)
	}
	if rec.Facility.OverallRating >= 4.5 {
		reasons = append(reasons, "Highly rated hospital")
	}
	if rec.Facility.HasEmergencyServices && urgency.Urgent() {
		reasons = append(reasons, "24/7 emergency services available")
	}
	if rec.DistanceKm < 10 {
		reasons = append(reasons, "Close to your location")
	} else if rec.DistanceKm < sameCityKm {
		reasons = append(reasons, "Within reasonable distance")
	}
	if rec.Facility.ICUBeds > 20 {
		reasons = append(reasons, "Well-equipped ICU facilities")
	}
	if rec.Facility.InsuranceAccepted {
		reasons = append(reasons, "Accepts insurance")
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return strings.Join(reasons, "; ")
}

func initUnknownLocalityCounter() {
	meter := otel.Meter("github.com/swasthyalink/backend/matching")
	counter, err := meter.Int64Counter(
		"match.unknown_locality.count",
		metric.WithDescription("Count of requests resolved to the default locality"),
	)
	if err == nil {
		unknownLocalityCounter = counter
	}
}

func recordUnknownLocality(ctx context.Context) {
	unknownLocalityCounterOnce.Do(initUnknownLocalityCounter)
	if unknownLocalityCounter == nil {
		return
	}
	unknownLocalityCounter.Add(ctx, 1)
}
