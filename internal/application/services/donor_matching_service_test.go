package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyalink/backend/internal/adapters/memory"
	"github.com/swasthyalink/backend/internal/adapters/providers/geolocation"
	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/pkg/config"
)

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		MinDonorAge:      18,
		MaxDonorAge:      65,
		MinDonorWeightKg: 50,

		LocalDonorCap:       3,
		MaxDonorResults:     30,
		EmergencyContactCap: 5,
		MaxDoctorResults:    10,

		DonorRadiusKm:    200,
		FacilityRadiusKm: 50,

		OverRadiusMultiplier:  2.0,
		OverRadiusProbability: 0.4,

		Hospital: config.HospitalWeights{
			Specialty:      0.50,
			BaseQuality:    0.25,
			Urgency:        0.15,
			Distance:       0.10,
			EmergencyBonus: 0.05,

			NoSpecialtyMatch: 0.05,

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
		Doctor: config.DoctorWeights{
			Rating:      0.4,
			Experience:  0.3,
			SuccessRate: 0.2,
			Procedures:  0.1,
		},
	}
}

func testDonor(id, city string, bt entities.BloodType) *entities.Donor {
	return &entities.Donor{
		ID:          id,
		Name:        "Donor " + id,
		Age:         30,
		BloodType:   bt,
		City:        city,
		IsAvailable: true,
		WeightKg:    70,
	}
}

func newDonorMatchingFixture(donors []*entities.Donor) *DonorMatchingService {
	svc := NewDonorMatchingService(
		memory.NewDonorDirectory(donors),
		geolocation.NewGazetteerRegistry(),
		testMatchingConfig(),
	)
	svc.SetSeed(42)
	return svc
}

func TestFindCompatibleDonors_UnknownBloodType(t *testing.T) {
	svc := newDonorMatchingFixture(nil)

	_, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: "X+",
		City:      "Delhi",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown blood type")
}

func TestFindCompatibleDonors_LocalTierCapAndOrder(t *testing.T) {
	donors := []*entities.Donor{
		testDonor("d1", "Delhi", entities.BloodOPositive),
		testDonor("d2", "Delhi", entities.BloodONegative),
		testDonor("d3", "delhi", entities.BloodOPositive),
		testDonor("d4", "Delhi", entities.BloodOPositive),
	}
	svc := newDonorMatchingFixture(donors)

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
	})

	require.NoError(t, err)
	require.Len(t, report.Donors, 3)
	for _, m := range report.Donors {
		assert.Equal(t, 0.0, m.DistanceKm)
	}
	// Encounter order, city matched case-insensitively.
	assert.Equal(t, "d1", report.Donors[0].Donor.ID)
	assert.Equal(t, "d2", report.Donors[1].Donor.ID)
	assert.Equal(t, "d3", report.Donors[2].Donor.ID)
	assert.False(t, report.CityFallback)
	assert.ElementsMatch(t, []entities.BloodType{entities.BloodOPositive, entities.BloodONegative}, report.AcceptableTypes)
}

func TestFindCompatibleDonors_RegionalTierSortedByDistance(t *testing.T) {
	donors := []*entities.Donor{
		testDonor("lucknow-1", "Lucknow", entities.BloodOPositive),
		testDonor("jaipur-1", "Jaipur", entities.BloodOPositive),
		testDonor("delhi-1", "Delhi", entities.BloodOPositive),
	}
	svc := newDonorMatchingFixture(donors)

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
		RadiusKm:  500,
	})

	require.NoError(t, err)
	require.Len(t, report.Donors, 3)
	assert.Equal(t, "delhi-1", report.Donors[0].Donor.ID)
	assert.Equal(t, "jaipur-1", report.Donors[1].Donor.ID)
	assert.Equal(t, "lucknow-1", report.Donors[2].Donor.ID)
	assert.Greater(t, report.Donors[2].DistanceKm, report.Donors[1].DistanceKm)
	assert.LessOrEqual(t, report.Donors[2].DistanceKm, 500.0)
}

func TestFindCompatibleDonors_EligibilityBounds(t *testing.T) {
	tooYoung := testDonor("young", "Delhi", entities.BloodOPositive)
	tooYoung.Age = 17
	tooOld := testDonor("old", "Delhi", entities.BloodOPositive)
	tooOld.Age = 70
	underweight := testDonor("light", "Delhi", entities.BloodOPositive)
	underweight.WeightKg = 45
	ok := testDonor("ok", "Delhi", entities.BloodOPositive)

	svc := newDonorMatchingFixture([]*entities.Donor{tooYoung, tooOld, underweight, ok})

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
	})

	require.NoError(t, err)
	require.Len(t, report.Donors, 1)
	assert.Equal(t, "ok", report.Donors[0].Donor.ID)
}

func TestFindCompatibleDonors_CompatibilityFilter(t *testing.T) {
	donors := []*entities.Donor{
		testDonor("apos", "Delhi", entities.BloodAPositive),
		testDonor("oneg", "Delhi", entities.BloodONegative),
		testDonor("bpos", "Delhi", entities.BloodBPositive),
	}
	svc := newDonorMatchingFixture(donors)

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodAPositive,
		City:      "Delhi",
	})

	require.NoError(t, err)
	require.Len(t, report.Donors, 2)
	ids := []string{report.Donors[0].Donor.ID, report.Donors[1].Donor.ID}
	assert.ElementsMatch(t, []string{"apos", "oneg"}, ids)
}

func TestFindCompatibleDonors_DaysSinceDonationDefault(t *testing.T) {
	recent := testDonor("recent", "Delhi", entities.BloodOPositive)
	lastWeek := time.Now().AddDate(0, 0, -7)
	recent.LastDonation = &lastWeek
	unknown := testDonor("unknown", "Delhi", entities.BloodOPositive)

	svc := newDonorMatchingFixture([]*entities.Donor{recent, unknown})

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
	})

	require.NoError(t, err)
	require.Len(t, report.Donors, 2)
	byID := map[string]entities.DonorMatch{}
	for _, m := range report.Donors {
		byID[m.Donor.ID] = m
	}
	assert.Equal(t, 7, byID["recent"].DaysSinceDonation)
	assert.Equal(t, entities.DefaultDaysSinceDonation, byID["unknown"].DaysSinceDonation)
}

func TestFindCompatibleDonors_TieBreakPrefersRestedDonor(t *testing.T) {
	rested := testDonor("rested", "Jaipur", entities.BloodOPositive)
	longAgo := time.Now().AddDate(0, -6, 0)
	rested.LastDonation = &longAgo
	fresh := testDonor("fresh", "Jaipur", entities.BloodOPositive)
	yesterday := time.Now().AddDate(0, 0, -1)
	fresh.LastDonation = &yesterday

	svc := newDonorMatchingFixture([]*entities.Donor{fresh, rested})

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
		RadiusKm:  500,
	})

	require.NoError(t, err)
	require.Len(t, report.Donors, 2)
	assert.Equal(t, report.Donors[0].DistanceKm, report.Donors[1].DistanceKm)
	assert.Equal(t, "rested", report.Donors[0].Donor.ID)
}

func TestFindCompatibleDonors_UnknownLocalityDeterministicWithSeed(t *testing.T) {
	donors := []*entities.Donor{
		testDonor("nagpur-1", "Nagpur", entities.BloodOPositive),
		testDonor("nagpur-2", "Nagpur", entities.BloodOPositive),
	}

	run := func() *entities.DonorMatchReport {
		svc := newDonorMatchingFixture(donors)
		report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
			BloodType: entities.BloodOPositive,
			City:      "Mumbai",
		})
		require.NoError(t, err)
		return report
	}

	first := run()
	second := run()

	require.Len(t, first.Donors, 2)
	for i, m := range first.Donors {
		assert.True(t, m.LocalityUnknown)
		assert.GreaterOrEqual(t, m.DistanceKm, 5.0)
		assert.LessOrEqual(t, m.DistanceKm, 200.0)
		assert.Equal(t, m.DistanceKm, second.Donors[i].DistanceKm)
		assert.Equal(t, m.Donor.ID, second.Donors[i].Donor.ID)
	}
}

func TestFindCompatibleDonors_OverRadiusInclusion(t *testing.T) {
	// Delhi to Mumbai is roughly 1150 km: beyond a 700 km radius but
	// within twice that.
	donors := []*entities.Donor{testDonor("mumbai-1", "Mumbai", entities.BloodOPositive)}

	always := testMatchingConfig()
	always.OverRadiusProbability = 1.0
	svc := NewDonorMatchingService(memory.NewDonorDirectory(donors), geolocation.NewGazetteerRegistry(), always)
	svc.SetSeed(1)
	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
		RadiusKm:  700,
	})
	require.NoError(t, err)
	require.Len(t, report.Donors, 1)
	assert.Greater(t, report.Donors[0].DistanceKm, 700.0)

	never := testMatchingConfig()
	never.OverRadiusProbability = 0.0
	svc = NewDonorMatchingService(memory.NewDonorDirectory(donors), geolocation.NewGazetteerRegistry(), never)
	svc.SetSeed(1)
	report, err = svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
		RadiusKm:  700,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Donors)
}

func TestFindCompatibleDonors_ResultCap(t *testing.T) {
	var donors []*entities.Donor
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		donors = append(donors, testDonor("jaipur-"+id, "Jaipur", entities.BloodOPositive))
	}

	cfg := testMatchingConfig()
	cfg.MaxDonorResults = 2
	svc := NewDonorMatchingService(memory.NewDonorDirectory(donors), geolocation.NewGazetteerRegistry(), cfg)
	svc.SetSeed(42)

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
		RadiusKm:  500,
	})

	require.NoError(t, err)
	assert.Len(t, report.Donors, 2)
}

func TestFindCompatibleDonors_UnknownCityFallsBackToDefault(t *testing.T) {
	donors := []*entities.Donor{testDonor("delhi-1", "Delhi", entities.BloodOPositive)}
	svc := newDonorMatchingFixture(donors)

	report, err := svc.FindCompatibleDonors(context.Background(), entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Atlantis",
	})

	require.NoError(t, err)
	assert.True(t, report.CityFallback)
	// The Delhi donor is regional relative to the literal request city but
	// sits at the fallback coordinates, so it matches at distance 0.
	require.Len(t, report.Donors, 1)
	assert.Equal(t, 0.0, report.Donors[0].DistanceKm)
}
