package repositories

import (
	"context"

	"github.com/swasthyalink/backend/internal/domain/entities"
)

// ProviderDirectory defines the interface for doctor data access.
type ProviderDirectory interface {
	// List retrieves providers matching the filter.
	List(ctx context.Context, filter ProviderFilter) ([]*entities.Provider, error)
}

// ProviderFilter defines filters for listing providers.
type ProviderFilter struct {
	// Specialty restricts results to one specialty (case-insensitive).
	Specialty string

	// FacilityID, when set, restricts results to one facility.
	FacilityID string
}
