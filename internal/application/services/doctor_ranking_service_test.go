package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyalink/backend/internal/adapters/memory"
	"github.com/swasthyalink/backend/internal/domain/entities"
)

func testDoctor(id, specialty, facilityID string) *entities.Provider {
	return &entities.Provider{
		ID:                  id,
		Name:                "Dr. " + id,
		Specialty:           specialty,
		FacilityID:          facilityID,
		Rating:              4.0,
		ExperienceYears:     10,
		SuccessRatePercent:  90,
		ProceduresPerformed: 300,
	}
}

func newDoctorRankingFixture(doctors []*entities.Provider) *DoctorRankingService {
	return NewDoctorRankingService(memory.NewProviderDirectory(doctors), testMatchingConfig())
}

func TestRankDoctors_EmptySpecialty(t *testing.T) {
	svc := newDoctorRankingFixture(nil)

	_, err := svc.RankDoctors(context.Background(), "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "specialty is required")
}

func TestRankDoctors_QualityScoreFormula(t *testing.T) {
	best := testDoctor("best", "cardiology", "f1")
	best.Rating = 5
	best.ExperienceYears = 40
	best.SuccessRatePercent = 100
	best.ProceduresPerformed = 1000

	svc := newDoctorRankingFixture([]*entities.Provider{best})

	ranked, err := svc.RankDoctors(context.Background(), "cardiology", "")

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	// 5*0.4 + (40/40)*0.3 + (100/100)*0.2 + (1000/1000)*0.1
	assert.InDelta(t, 2.6, ranked[0].QualityScore, 1e-9)
}

func TestRankDoctors_SortsByQualityDescending(t *testing.T) {
	junior := testDoctor("junior", "cardiology", "f1")
	junior.Rating = 3.5
	junior.ExperienceYears = 2
	senior := testDoctor("senior", "cardiology", "f1")
	senior.Rating = 4.8
	senior.ExperienceYears = 25
	other := testDoctor("neuro", "neurology", "f1")
	other.Rating = 5

	svc := newDoctorRankingFixture([]*entities.Provider{junior, other, senior})

	ranked, err := svc.RankDoctors(context.Background(), "cardiology", "")

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "senior", ranked[0].Provider.ID)
	assert.Equal(t, "junior", ranked[1].Provider.ID)
	assert.Greater(t, ranked[0].QualityScore, ranked[1].QualityScore)
}

func TestRankDoctors_FacilityFilter(t *testing.T) {
	doctors := []*entities.Provider{
		testDoctor("a", "orthopedics", "f1"),
		testDoctor("b", "orthopedics", "f2"),
		testDoctor("c", "orthopedics", "f1"),
	}
	svc := newDoctorRankingFixture(doctors)

	ranked, err := svc.RankDoctors(context.Background(), "orthopedics", "f1")

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.Equal(t, "f1", r.Provider.FacilityID)
	}
}

func TestRankDoctors_ResultCap(t *testing.T) {
	var doctors []*entities.Provider
	for i := 0; i < 15; i++ {
		doctors = append(doctors, testDoctor(fmt.Sprintf("d%02d", i), "pediatrics", "f1"))
	}
	svc := newDoctorRankingFixture(doctors)

	ranked, err := svc.RankDoctors(context.Background(), "pediatrics", "")

	require.NoError(t, err)
	assert.Len(t, ranked, 10)
	// Identical profiles fall back to stable id order.
	assert.Equal(t, "d00", ranked[0].Provider.ID)
}
