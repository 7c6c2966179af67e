package repositories

import (
	"context"

	"github.com/swasthyalink/backend/internal/domain/entities"
)

// DonorDirectory defines the interface for donor data access. The engine
// only reads; records are created and mutated by the external provisioning
// layer, which publishes immutable snapshots.
type DonorDirectory interface {
	// List retrieves donors matching the filter, in stable encounter order.
	List(ctx context.Context, filter DonorFilter) ([]*entities.Donor, error)
}

// DonorFilter defines filters for listing donors.
type DonorFilter struct {
	// BloodTypes restricts results to donors of any of the given types.
	// Empty means all types.
	BloodTypes []entities.BloodType

	// AvailableOnly excludes donors flagged unavailable.
	AvailableOnly bool

	// City restricts results to a locality (case-insensitive).
	City string
}
