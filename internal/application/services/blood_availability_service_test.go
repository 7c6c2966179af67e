package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyalink/backend/internal/adapters/memory"
	"github.com/swasthyalink/backend/internal/adapters/providers/geolocation"
	"github.com/swasthyalink/backend/internal/domain/entities"
)

func testFacility(id string, lat, lon float64, inventory map[entities.BloodType]int) *entities.Facility {
	return &entities.Facility{
		ID:               id,
		Name:             "Hospital " + id,
		City:             "Delhi",
		State:            "Delhi",
		Location:         entities.Location{Latitude: lat, Longitude: lon},
		Contact:          "contact-" + id,
		EmergencyContact: "emergency-" + id,
		HasBloodBank:     true,
		BloodInventory:   inventory,
	}
}

func newAvailabilityFixture(facilities []*entities.Facility) *BloodAvailabilityService {
	return NewBloodAvailabilityService(
		memory.NewFacilityDirectory(facilities),
		geolocation.NewGazetteerRegistry(),
		testMatchingConfig(),
	)
}

func TestCheckAvailability_UnknownBloodType(t *testing.T) {
	svc := newAvailabilityFixture(nil)

	_, err := svc.CheckAvailability(context.Background(), "Z-", "Delhi", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown blood type")
}

func TestCheckAvailability_AggregatesStockByDistance(t *testing.T) {
	facilities := []*entities.Facility{
		// Slightly offset from the Delhi reference point.
		testFacility("far", 28.60, 77.20, map[entities.BloodType]int{entities.BloodOPositive: 4}),
		testFacility("near", 28.7041, 77.1025, map[entities.BloodType]int{entities.BloodOPositive: 6}),
		testFacility("dry", 28.68, 77.12, nil),
	}
	svc := newAvailabilityFixture(facilities)

	report, err := svc.CheckAvailability(context.Background(), entities.BloodOPositive, "Delhi", 0)

	require.NoError(t, err)
	assert.Equal(t, 50.0, report.SearchRadiusKm)
	require.Len(t, report.FacilitiesWithBlood, 2)
	assert.Equal(t, "near", report.FacilitiesWithBlood[0].FacilityID)
	assert.Equal(t, "far", report.FacilitiesWithBlood[1].FacilityID)
	assert.Equal(t, 10, report.TotalUnits)
	require.NotNil(t, report.NearestFacility)
	assert.Equal(t, "near", report.NearestFacility.FacilityID)
	assert.Equal(t, 6, report.NearestFacility.UnitsAvailable)
}

func TestCheckAvailability_ZeroStockStillListsEmergencyContacts(t *testing.T) {
	facilities := []*entities.Facility{
		testFacility("m1", 19.0760, 72.8777, nil),
		testFacility("m2", 19.10, 72.90, map[entities.BloodType]int{entities.BloodAPositive: 3}),
	}
	svc := newAvailabilityFixture(facilities)

	report, err := svc.CheckAvailability(context.Background(), entities.BloodONegative, "Mumbai", 0)

	require.NoError(t, err)
	assert.Empty(t, report.FacilitiesWithBlood)
	assert.Equal(t, 0, report.TotalUnits)
	assert.Nil(t, report.NearestFacility)
	require.Len(t, report.EmergencyContacts, 2)
	assert.Equal(t, "Hospital m1", report.EmergencyContacts[0].FacilityName)
	assert.Equal(t, "emergency-m1", report.EmergencyContacts[0].EmergencyContact)
}

func TestCheckAvailability_EmergencyContactCap(t *testing.T) {
	var facilities []*entities.Facility
	for i := 0; i < 8; i++ {
		facilities = append(facilities, testFacility(
			fmt.Sprintf("f%d", i),
			28.70+float64(i)*0.01, 77.10,
			nil,
		))
	}
	svc := newAvailabilityFixture(facilities)

	report, err := svc.CheckAvailability(context.Background(), entities.BloodOPositive, "Delhi", 0)

	require.NoError(t, err)
	assert.Len(t, report.EmergencyContacts, 5)
}

func TestCheckAvailability_ExcludesFacilitiesOutsideRadius(t *testing.T) {
	facilities := []*entities.Facility{
		testFacility("delhi", 28.7041, 77.1025, map[entities.BloodType]int{entities.BloodOPositive: 2}),
		// Jaipur is well outside a 50 km radius around Delhi.
		testFacility("jaipur", 26.9124, 75.7873, map[entities.BloodType]int{entities.BloodOPositive: 20}),
	}
	svc := newAvailabilityFixture(facilities)

	report, err := svc.CheckAvailability(context.Background(), entities.BloodOPositive, "Delhi", 0)

	require.NoError(t, err)
	require.Len(t, report.FacilitiesWithBlood, 1)
	assert.Equal(t, "delhi", report.FacilitiesWithBlood[0].FacilityID)
	assert.Equal(t, 2, report.TotalUnits)
	require.Len(t, report.EmergencyContacts, 1)
}

func TestCheckAvailability_NearestSkipsDryFacilities(t *testing.T) {
	facilities := []*entities.Facility{
		testFacility("closest-dry", 28.7041, 77.1025, nil),
		testFacility("stocked", 28.66, 77.15, map[entities.BloodType]int{entities.BloodOPositive: 5}),
	}
	svc := newAvailabilityFixture(facilities)

	report, err := svc.CheckAvailability(context.Background(), entities.BloodOPositive, "Delhi", 0)

	require.NoError(t, err)
	require.NotNil(t, report.NearestFacility)
	assert.Equal(t, "stocked", report.NearestFacility.FacilityID)
	// The dry facility still ranks first as an emergency contact.
	require.NotEmpty(t, report.EmergencyContacts)
	assert.Equal(t, "Hospital closest-dry", report.EmergencyContacts[0].FacilityName)
}

func TestCheckAvailability_UnknownCityFlagsFallback(t *testing.T) {
	svc := newAvailabilityFixture(nil)

	report, err := svc.CheckAvailability(context.Background(), entities.BloodOPositive, "Shangri-La", 0)

	require.NoError(t, err)
	assert.True(t, report.CityFallback)
	assert.Empty(t, report.FacilitiesWithBlood)
}
