package services

import (
	"context"
	"math"
	"sort"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	"github.com/swasthyalink/backend/pkg/config"
	apperrors "github.com/swasthyalink/backend/pkg/errors"
)

// Normalization divisors for the doctor quality score. Experience and
// procedure volume are scaled against these reference values.
const (
	experienceYearsScale = 40.0
	procedureCountScale  = 1000.0
)

// DoctorRankingService ranks individual providers by a weighted quality
// score within one specialty, optionally per facility.
type DoctorRankingService struct {
	doctors repositories.ProviderDirectory
	cfg     config.MatchingConfig
}

func NewDoctorRankingService(doctors repositories.ProviderDirectory, cfg config.MatchingConfig) *DoctorRankingService {
	return &DoctorRankingService{doctors: doctors, cfg: cfg}
}

// RankDoctors returns the top providers for a specialty sorted by quality
// score. facilityID is optional; when set, only that facility's providers
// are considered.
func (s *DoctorRankingService) RankDoctors(ctx context.Context, specialty, facilityID string) ([]entities.DoctorRecommendation, error) {
	ctx, span := observability.StartSpan(ctx, "matching.rank_doctors")
	defer span.End()

	if specialty == "" {
		return nil, apperrors.NewValidationError("specialty is required")
	}

	candidates, err := s.doctors.List(ctx, repositories.ProviderFilter{
		Specialty:  specialty,
		FacilityID: facilityID,
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewInternalError("provider directory query failed", err)
	}

	ranked := make([]entities.DoctorRecommendation, 0, len(candidates))
	for _, p := range candidates {
		ranked = append(ranked, entities.DoctorRecommendation{
			Provider:     p,
			QualityScore: math.Round(s.qualityScore(p)*1000) / 1000,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.QualityScore != b.QualityScore {
			return a.QualityScore > b.QualityScore
		}
		if a.Provider.Rating != b.Provider.Rating {
			return a.Provider.Rating > b.Provider.Rating
		}
		if a.Provider.ExperienceYears != b.Provider.ExperienceYears {
			return a.Provider.ExperienceYears > b.Provider.ExperienceYears
		}
		return a.Provider.ID < b.Provider.ID
	})

	if len(ranked) > s.cfg.MaxDoctorResults {
		ranked = ranked[:s.cfg.MaxDoctorResults]
	}
	return ranked, nil
}

// qualityScore blends rating, experience, success rate and procedure volume
// into a single heuristic magnitude using the configured weights. Rating
// dominates; the other terms are scaled against fixed reference values.
func (s *DoctorRankingService) qualityScore(p *entities.Provider) float64 {
	w := s.cfg.Doctor
	return p.Rating*w.Rating +
		(float64(p.ExperienceYears)/experienceYearsScale)*w.Experience +
		(p.SuccessRatePercent/100)*w.SuccessRate +
		(float64(p.ProceduresPerformed)/procedureCountScale)*w.Procedures
}
