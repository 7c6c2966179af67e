package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/internal/infrastructure/clients/postgres"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	apperrors "github.com/swasthyalink/backend/pkg/errors"
)

var donorColumns = []interface{}{
	"id", "name", "age", "gender", "blood_type", "city", "state",
	"phone", "email", "last_donation", "donation_count", "is_available",
	"weight_kg", "medical_conditions",
}

// DonorAdapter implements DonorDirectory over PostgreSQL
type DonorAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewDonorAdapter creates a new donor adapter
func NewDonorAdapter(client *postgres.Client) *DonorAdapter {
	return &DonorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// SetMetrics attaches query-duration metrics.
func (a *DonorAdapter) SetMetrics(metrics *observability.Metrics) {
	a.metrics = metrics
}

// Create registers a new donor
func (a *DonorAdapter) Create(ctx context.Context, donor *entities.Donor) error {
	record := goqu.Record{
		"id":                 donor.ID,
		"name":               donor.Name,
		"age":                donor.Age,
		"gender":             donor.Gender,
		"blood_type":         string(donor.BloodType),
		"city":               donor.City,
		"state":              donor.State,
		"phone":              donor.Phone,
		"email":              donor.Email,
		"last_donation":      donor.LastDonation,
		"donation_count":     donor.DonationCount,
		"is_available":       donor.IsAvailable,
		"weight_kg":          donor.WeightKg,
		"medical_conditions": pq.Array(donor.MedicalConditions),
	}

	query, args, err := a.db.Insert("donors").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create donor", err)
	}
	return nil
}

// List retrieves donors matching the filter
func (a *DonorAdapter) List(ctx context.Context, filter repositories.DonorFilter) ([]*entities.Donor, error) {
	if a.metrics != nil {
		start := time.Now()
		defer func() {
			observability.RecordDBMetric(ctx, a.metrics, "donors.list", time.Since(start))
		}()
	}

	ds := a.db.Select(donorColumns...).From("donors")

	if len(filter.BloodTypes) > 0 {
		types := make([]string, len(filter.BloodTypes))
		for i, bt := range filter.BloodTypes {
			types[i] = string(bt)
		}
		ds = ds.Where(goqu.Ex{"blood_type": types})
	}
	if filter.AvailableOnly {
		ds = ds.Where(goqu.Ex{"is_available": true})
	}
	if filter.City != "" {
		ds = ds.Where(goqu.L("LOWER(city)").Eq(goqu.L("LOWER(?)", filter.City)))
	}
	ds = ds.Order(goqu.I("id").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list donors", err)
	}
	defer rows.Close()

	var donors []*entities.Donor
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		donors = append(donors, donor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate donors", err)
	}
	return donors, nil
}

func scanDonor(rows *sql.Rows) (*entities.Donor, error) {
	donor := &entities.Donor{}
	var bloodType string
	var lastDonation sql.NullTime

	err := rows.Scan(
		&donor.ID,
		&donor.Name,
		&donor.Age,
		&donor.Gender,
		&bloodType,
		&donor.City,
		&donor.State,
		&donor.Phone,
		&donor.Email,
		&lastDonation,
		&donor.DonationCount,
		&donor.IsAvailable,
		&donor.WeightKg,
		pq.Array(&donor.MedicalConditions),
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan donor", err)
	}

	donor.BloodType = entities.BloodType(bloodType)
	if lastDonation.Valid {
		t := lastDonation.Time.UTC()
		donor.LastDonation = &t
	}
	return donor, nil
}
