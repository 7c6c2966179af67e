package database

import (
	"context"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/internal/infrastructure/clients/postgres"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	apperrors "github.com/swasthyalink/backend/pkg/errors"
)

// kmPerLatDegree approximates one degree of latitude. Used for the
// bounding-box pre-filter; callers re-check with the exact distance.
const kmPerLatDegree = 111.0

var facilityColumns = []interface{}{
	"id", "name", "city", "state", "latitude", "longitude",
	"contact", "emergency_contact", "bed_capacity", "icu_beds",
	"operation_theaters", "is_government", "has_blood_bank",
	"overall_rating", "equipment_quality", "doctor_expertise",
	"infrastructure_rating", "patient_satisfaction", "wait_time_minutes",
	"cost_level", "insurance_accepted", "has_emergency_services",
	"has_ambulance",
}

// FacilityAdapter implements FacilityDirectory over PostgreSQL
type FacilityAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) *FacilityAdapter {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// SetMetrics attaches query-duration metrics.
func (a *FacilityAdapter) SetMetrics(metrics *observability.Metrics) {
	a.metrics = metrics
}

// Create registers a new facility along with its blood inventory and
// specialty departments
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	record := goqu.Record{
		"id":                     facility.ID,
		"name":                   facility.Name,
		"city":                   facility.City,
		"state":                  facility.State,
		"latitude":               facility.Location.Latitude,
		"longitude":              facility.Location.Longitude,
		"contact":                facility.Contact,
		"emergency_contact":      facility.EmergencyContact,
		"bed_capacity":           facility.BedCapacity,
		"icu_beds":               facility.ICUBeds,
		"operation_theaters":     facility.OperationTheaters,
		"is_government":          facility.IsGovernment,
		"has_blood_bank":         facility.HasBloodBank,
		"overall_rating":         facility.OverallRating,
		"equipment_quality":      facility.EquipmentQuality,
		"doctor_expertise":       facility.DoctorExpertise,
		"infrastructure_rating":  facility.InfrastructureRating,
		"patient_satisfaction":   facility.PatientSatisfaction,
		"wait_time_minutes":      facility.WaitTimeMinutes,
		"cost_level":             facility.CostLevel,
		"insurance_accepted":     facility.InsuranceAccepted,
		"has_emergency_services": facility.HasEmergencyServices,
		"has_ambulance":          facility.HasAmbulance,
	}

	query, args, err := a.db.Insert("facilities").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create facility", err)
	}

	for bt, units := range facility.BloodInventory {
		query, args, err := a.db.Insert("facility_blood_inventory").Rows(goqu.Record{
			"facility_id": facility.ID,
			"blood_type":  string(bt),
			"units":       units,
		}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build inventory insert", err)
		}
		if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to create blood inventory", err)
		}
	}

	for specialty, dept := range facility.Specialties {
		query, args, err := a.db.Insert("facility_specialties").Rows(goqu.Record{
			"facility_id":          facility.ID,
			"specialty":            specialty,
			"rating":               dept.Rating,
			"doctor_count":         dept.DoctorCount,
			"success_rate_percent": dept.SuccessRatePercent,
			"wait_days":            dept.WaitDays,
			"procedures":           pq.Array(dept.Procedures),
		}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build specialty insert", err)
		}
		if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to create facility specialty", err)
		}
	}

	return nil
}

// List retrieves facilities matching the filter. The Near filter is a
// bounding-box over-approximation; callers re-check with the exact
// haversine distance.
func (a *FacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	if a.metrics != nil {
		start := time.Now()
		defer func() {
			observability.RecordDBMetric(ctx, a.metrics, "facilities.list", time.Since(start))
		}()
	}

	ds := a.db.Select(facilityColumns...).From("facilities")

	if filter.State != "" {
		ds = ds.Where(goqu.L("LOWER(state)").Eq(goqu.L("LOWER(?)", filter.State)))
	}
	if filter.HasBloodBank != nil {
		ds = ds.Where(goqu.Ex{"has_blood_bank": *filter.HasBloodBank})
	}
	if filter.Near != nil {
		latDelta := filter.Near.RadiusKm / kmPerLatDegree
		lonScale := math.Cos(filter.Near.Latitude * math.Pi / 180)
		if lonScale < 0.01 {
			lonScale = 0.01
		}
		lonDelta := filter.Near.RadiusKm / (kmPerLatDegree * lonScale)
		ds = ds.Where(
			goqu.I("latitude").Between(goqu.Range(filter.Near.Latitude-latDelta, filter.Near.Latitude+latDelta)),
			goqu.I("longitude").Between(goqu.Range(filter.Near.Longitude-lonDelta, filter.Near.Longitude+lonDelta)),
		)
	}
	ds = ds.Order(goqu.I("id").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	var facilities []*entities.Facility
	byID := map[string]*entities.Facility{}
	for rows.Next() {
		facility := &entities.Facility{}
		err := rows.Scan(
			&facility.ID,
			&facility.Name,
			&facility.City,
			&facility.State,
			&facility.Location.Latitude,
			&facility.Location.Longitude,
			&facility.Contact,
			&facility.EmergencyContact,
			&facility.BedCapacity,
			&facility.ICUBeds,
			&facility.OperationTheaters,
			&facility.IsGovernment,
			&facility.HasBloodBank,
			&facility.OverallRating,
			&facility.EquipmentQuality,
			&facility.DoctorExpertise,
			&facility.InfrastructureRating,
			&facility.PatientSatisfaction,
			&facility.WaitTimeMinutes,
			&facility.CostLevel,
			&facility.InsuranceAccepted,
			&facility.HasEmergencyServices,
			&facility.HasAmbulance,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
		byID[facility.ID] = facility
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}

	if len(facilities) == 0 {
		return facilities, nil
	}
	if err := a.loadBloodInventory(ctx, byID); err != nil {
		return nil, err
	}
	if err := a.loadSpecialties(ctx, byID); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (a *FacilityAdapter) loadBloodInventory(ctx context.Context, byID map[string]*entities.Facility) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := a.db.Select("facility_id", "blood_type", "units").
		From("facility_blood_inventory").
		Where(goqu.Ex{"facility_id": ids}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build inventory query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load blood inventory", err)
	}
	defer rows.Close()

	for rows.Next() {
		var facilityID, bloodType string
		var units int
		if err := rows.Scan(&facilityID, &bloodType, &units); err != nil {
			return apperrors.NewInternalError("failed to scan blood inventory", err)
		}
		facility, ok := byID[facilityID]
		if !ok {
			continue
		}
		if facility.BloodInventory == nil {
			facility.BloodInventory = map[entities.BloodType]int{}
		}
		facility.BloodInventory[entities.BloodType(bloodType)] = units
	}
	return rows.Err()
}

func (a *FacilityAdapter) loadSpecialties(ctx context.Context, byID map[string]*entities.Facility) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := a.db.Select(
		"facility_id", "specialty", "rating", "doctor_count",
		"success_rate_percent", "wait_days", "procedures",
	).From("facility_specialties").
		Where(goqu.Ex{"facility_id": ids}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build specialty query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load facility specialties", err)
	}
	defer rows.Close()

	for rows.Next() {
		var facilityID, specialty string
		var dept entities.SpecialtyDepartment
		err := rows.Scan(
			&facilityID,
			&specialty,
			&dept.Rating,
			&dept.DoctorCount,
			&dept.SuccessRatePercent,
			&dept.WaitDays,
			pq.Array(&dept.Procedures),
		)
		if err != nil {
			return apperrors.NewInternalError("failed to scan facility specialty", err)
		}
		facility, ok := byID[facilityID]
		if !ok {
			continue
		}
		if facility.Specialties == nil {
			facility.Specialties = map[string]entities.SpecialtyDepartment{}
		}
		facility.Specialties[specialty] = dept
	}
	return rows.Err()
}
