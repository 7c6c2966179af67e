package services

import (
	"context"
	"math"
	"sort"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/providers"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	"github.com/swasthyalink/backend/pkg/config"
	apperrors "github.com/swasthyalink/backend/pkg/errors"
	"github.com/swasthyalink/backend/pkg/geo"
)

// BloodAvailabilityService aggregates per-facility blood stock over a
// radius around the requester.
type BloodAvailabilityService struct {
	facilities repositories.FacilityDirectory
	locations  providers.LocationRegistry
	cfg        config.MatchingConfig
}

// NewBloodAvailabilityService creates a blood availability service.
func NewBloodAvailabilityService(facilities repositories.FacilityDirectory, locations providers.LocationRegistry, cfg config.MatchingConfig) *BloodAvailabilityService {
	return &BloodAvailabilityService{
		facilities: facilities,
		locations:  locations,
		cfg:        cfg,
	}
}

// CheckAvailability reports blood stock for the requested type at
// facilities within radiusKm of the locality, plus the nearest facilities
// as emergency contacts regardless of stock. Zero stock everywhere is a
// valid report, not an error.
func (s *BloodAvailabilityService) CheckAvailability(ctx context.Context, bloodType entities.BloodType, city string, radiusKm float64) (*entities.AvailabilityReport, error) {
	ctx, span := observability.StartSpan(ctx, "matching.check_availability")
	defer span.End()

	if entities.CompatibleDonorTypes(bloodType) == nil {
		return nil, apperrors.NewValidationError("unknown blood type " + string(bloodType))
	}

	if radiusKm <= 0 {
		radiusKm = s.cfg.FacilityRadiusKm
	}

	loc := s.locations.Resolve(city)

	nearby, err := s.facilities.List(ctx, repositories.FacilityFilter{
		Near: &repositories.NearFilter{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			RadiusKm:  radiusKm,
		},
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewInternalError("facility directory query failed", err)
	}

	type facilityDistance struct {
		facility *entities.Facility
		distance float64
	}
	ranked := make([]facilityDistance, 0, len(nearby))
	for _, f := range nearby {
		d := geo.DistanceKm(loc.Latitude, loc.Longitude, f.Location.Latitude, f.Location.Longitude)
		if d > radiusKm {
			// Adapters may over-approximate the Near filter.
			continue
		}
		ranked = append(ranked, facilityDistance{facility: f, distance: math.Round(d*100) / 100})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].facility.ID < ranked[j].facility.ID
	})

	report := &entities.AvailabilityReport{
		RequestedType:       bloodType,
		City:                city,
		SearchRadiusKm:      radiusKm,
		CityFallback:        loc.Fallback,
		FacilitiesWithBlood: []entities.FacilityStock{},
		EmergencyContacts:   []entities.EmergencyContact{},
	}

	for _, fd := range ranked {
		units := fd.facility.UnitsInStock(bloodType)
		if units <= 0 {
			continue
		}
		stock := entities.FacilityStock{
			FacilityID:       fd.facility.ID,
			FacilityName:     fd.facility.Name,
			City:             fd.facility.City,
			State:            fd.facility.State,
			DistanceKm:       fd.distance,
			UnitsAvailable:   units,
			Contact:          fd.facility.Contact,
			EmergencyContact: fd.facility.EmergencyContact,
		}
		report.FacilitiesWithBlood = append(report.FacilitiesWithBlood, stock)
		report.TotalUnits += units
		if report.NearestFacility == nil {
			nearest := stock
			report.NearestFacility = &nearest
		}
	}

	// Fallback contacts: nearest facilities even with zero stock.
	for i, fd := range ranked {
		if i >= s.cfg.EmergencyContactCap {
			break
		}
		report.EmergencyContacts = append(report.EmergencyContacts, entities.EmergencyContact{
			FacilityName:     fd.facility.Name,
			EmergencyContact: fd.facility.EmergencyContact,
			DistanceKm:       fd.distance,
		})
	}

	return report, nil
}
