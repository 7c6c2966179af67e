// Package memory provides immutable in-memory snapshot directories. The
// external provisioning layer publishes a new directory (copy-on-write)
// instead of mutating one in place, so concurrent matching calls always
// observe a consistent view.
package memory

import (
	"context"
	"strings"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/repositories"
)

// DonorDirectory is a snapshot-backed donor directory.
type DonorDirectory struct {
	donors []*entities.Donor
}

// NewDonorDirectory creates a directory over the given snapshot. The slice
// must not be mutated after construction.
func NewDonorDirectory(donors []*entities.Donor) repositories.DonorDirectory {
	return &DonorDirectory{donors: donors}
}

// List returns donors matching the filter in snapshot order.
func (d *DonorDirectory) List(_ context.Context, filter repositories.DonorFilter) ([]*entities.Donor, error) {
	types := make(map[entities.BloodType]struct{}, len(filter.BloodTypes))
	for _, bt := range filter.BloodTypes {
		types[bt] = struct{}{}
	}
	city := strings.ToLower(filter.City)

	var out []*entities.Donor
	for _, donor := range d.donors {
		if len(types) > 0 {
			if _, ok := types[donor.BloodType]; !ok {
				continue
			}
		}
		if filter.AvailableOnly && !donor.IsAvailable {
			continue
		}
		if city != "" && strings.ToLower(donor.City) != city {
			continue
		}
		out = append(out, donor)
	}
	return out, nil
}
