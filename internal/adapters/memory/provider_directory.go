package memory

import (
	"context"
	"strings"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/repositories"
)

// ProviderDirectory is a snapshot-backed provider directory.
type ProviderDirectory struct {
	providers []*entities.Provider
}

// NewProviderDirectory creates a directory over the given snapshot. The
// slice must not be mutated after construction.
func NewProviderDirectory(providers []*entities.Provider) repositories.ProviderDirectory {
	return &ProviderDirectory{providers: providers}
}

// List returns providers matching the filter in snapshot order.
func (d *ProviderDirectory) List(_ context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	specialty := strings.ToLower(filter.Specialty)

	var out []*entities.Provider
	for _, p := range d.providers {
		if specialty != "" && strings.ToLower(p.Specialty) != specialty {
			continue
		}
		if filter.FacilityID != "" && p.FacilityID != filter.FacilityID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
