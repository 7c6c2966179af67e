package entities

// Facility represents a hospital or clinic in the system
type Facility struct {
	ID                   string                         `json:"id" db:"id"`
	Name                 string                         `json:"name" db:"name"`
	City                 string                         `json:"city" db:"city"`
	State                string                         `json:"state" db:"state"`
	Location             Location                       `json:"location" db:"-"`
	Contact              string                         `json:"contact" db:"contact"`
	EmergencyContact     string                         `json:"emergency_contact" db:"emergency_contact"`
	BedCapacity          int                            `json:"bed_capacity" db:"bed_capacity"`
	ICUBeds              int                            `json:"icu_beds" db:"icu_beds"`
	OperationTheaters    int                            `json:"operation_theaters" db:"operation_theaters"`
	IsGovernment         bool                           `json:"is_government" db:"is_government"`
	HasBloodBank         bool                           `json:"has_blood_bank" db:"has_blood_bank"`
	BloodInventory       map[BloodType]int              `json:"blood_inventory,omitempty" db:"-"`
	Specialties          map[string]SpecialtyDepartment `json:"specialties,omitempty" db:"-"`
	OverallRating        float64                        `json:"overall_rating" db:"overall_rating"`
	EquipmentQuality     float64                        `json:"equipment_quality" db:"equipment_quality"`
	DoctorExpertise      float64                        `json:"doctor_expertise" db:"doctor_expertise"`
	InfrastructureRating float64                        `json:"infrastructure_rating" db:"infrastructure_rating"`
	PatientSatisfaction  float64                        `json:"patient_satisfaction" db:"patient_satisfaction"`
	WaitTimeMinutes      int                            `json:"wait_time_minutes" db:"wait_time_minutes"`
	CostLevel            string                         `json:"cost_level" db:"cost_level"`
	InsuranceAccepted    bool                           `json:"insurance_accepted" db:"insurance_accepted"`
	HasEmergencyServices bool                           `json:"has_emergency_services" db:"has_emergency_services"`
	HasAmbulance         bool                           `json:"has_ambulance" db:"has_ambulance"`
}

// SpecialtyDepartment holds per-department metrics for one facility specialty
type SpecialtyDepartment struct {
	Rating             float64  `json:"rating"`
	DoctorCount        int      `json:"doctor_count"`
	SuccessRatePercent float64  `json:"success_rate_percent"`
	WaitDays           int      `json:"wait_days"`
	Procedures         []string `json:"procedures,omitempty"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// UnitsInStock returns the inventory units for a blood type, 0 when the
// inventory map is nil or the type is absent.
func (f *Facility) UnitsInStock(bt BloodType) int {
	if f.BloodInventory == nil {
		return 0
	}
	return f.BloodInventory[bt]
}
