package memory

import (
	"context"
	"strings"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/pkg/geo"
)

// FacilityDirectory is a snapshot-backed facility directory.
type FacilityDirectory struct {
	facilities []*entities.Facility
}

// NewFacilityDirectory creates a directory over the given snapshot. The
// slice must not be mutated after construction.
func NewFacilityDirectory(facilities []*entities.Facility) repositories.FacilityDirectory {
	return &FacilityDirectory{facilities: facilities}
}

// List returns facilities matching the filter in snapshot order. The Near
// filter is exact here (haversine), not a bounding-box approximation.
func (d *FacilityDirectory) List(_ context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	state := strings.ToLower(filter.State)

	var out []*entities.Facility
	for _, f := range d.facilities {
		if state != "" && strings.ToLower(f.State) != state {
			continue
		}
		if filter.HasBloodBank != nil && f.HasBloodBank != *filter.HasBloodBank {
			continue
		}
		if filter.Near != nil {
			dist := geo.DistanceKm(filter.Near.Latitude, filter.Near.Longitude,
				f.Location.Latitude, f.Location.Longitude)
			if dist > filter.Near.RadiusKm {
				continue
			}
		}
		out = append(out, f)
	}
	return out, nil
}
