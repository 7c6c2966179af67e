package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/internal/infrastructure/clients/postgres"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	apperrors "github.com/swasthyalink/backend/pkg/errors"
)

var providerColumns = []interface{}{
	"id", "name", "specialty", "sub_specialty", "experience_years",
	"qualification", "facility_id", "rating", "consultation_fee",
	"availability_status", "procedures_performed", "success_rate_percent",
	"review_count",
}

// ProviderAdapter implements ProviderDirectory over PostgreSQL
type ProviderAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) *ProviderAdapter {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// SetMetrics attaches query-duration metrics.
func (a *ProviderAdapter) SetMetrics(metrics *observability.Metrics) {
	a.metrics = metrics
}

// Create registers a new provider
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	record := goqu.Record{
		"id":                   provider.ID,
		"name":                 provider.Name,
		"specialty":            provider.Specialty,
		"sub_specialty":        provider.SubSpecialty,
		"experience_years":     provider.ExperienceYears,
		"qualification":        provider.Qualification,
		"facility_id":          provider.FacilityID,
		"rating":               provider.Rating,
		"consultation_fee":     provider.ConsultationFee,
		"availability_status":  provider.AvailabilityStatus,
		"procedures_performed": provider.ProceduresPerformed,
		"success_rate_percent": provider.SuccessRatePercent,
		"review_count":         provider.ReviewCount,
	}

	query, args, err := a.db.Insert("providers").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}
	return nil
}

// List retrieves providers matching the filter
func (a *ProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	if a.metrics != nil {
		start := time.Now()
		defer func() {
			observability.RecordDBMetric(ctx, a.metrics, "providers.list", time.Since(start))
		}()
	}

	ds := a.db.Select(providerColumns...).From("providers")

	if filter.Specialty != "" {
		ds = ds.Where(goqu.L("LOWER(specialty)").Eq(goqu.L("LOWER(?)", filter.Specialty)))
	}
	if filter.FacilityID != "" {
		ds = ds.Where(goqu.Ex{"facility_id": filter.FacilityID})
	}
	ds = ds.Order(goqu.I("id").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	var providers []*entities.Provider
	for rows.Next() {
		provider := &entities.Provider{}
		err := rows.Scan(
			&provider.ID,
			&provider.Name,
			&provider.Specialty,
			&provider.SubSpecialty,
			&provider.ExperienceYears,
			&provider.Qualification,
			&provider.FacilityID,
			&provider.Rating,
			&provider.ConsultationFee,
			&provider.AvailabilityStatus,
			&provider.ProceduresPerformed,
			&provider.SuccessRatePercent,
			&provider.ReviewCount,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate providers", err)
	}
	return providers, nil
}
