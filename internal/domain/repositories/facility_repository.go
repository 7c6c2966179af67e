package repositories

import (
	"context"

	"github.com/swasthyalink/backend/internal/domain/entities"
)

// FacilityDirectory defines the interface for facility data access.
type FacilityDirectory interface {
	// List retrieves facilities matching the filter.
	List(ctx context.Context, filter FacilityFilter) ([]*entities.Facility, error)
}

// NearFilter restricts facilities to a radius around a point. Adapters may
// over-approximate (e.g. bounding box); callers re-check exact distances.
type NearFilter struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// FacilityFilter defines filters for listing facilities.
type FacilityFilter struct {
	// State restricts results to one administrative region
	// (case-insensitive). Empty means all regions.
	State string

	// HasBloodBank, when non-nil, filters on blood bank presence.
	HasBloodBank *bool

	// Near, when non-nil, restricts results to a radius around a point.
	Near *NearFilter
}
