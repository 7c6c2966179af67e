package entities

// FacilityStock is one facility holding units of the requested blood type.
type FacilityStock struct {
	FacilityID       string  `json:"facility_id"`
	FacilityName     string  `json:"facility_name"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	DistanceKm       float64 `json:"distance_km"`
	UnitsAvailable   int     `json:"units_available"`
	Contact          string  `json:"contact"`
	EmergencyContact string  `json:"emergency_contact"`
}

// EmergencyContact is a fallback contact for a nearby facility, listed even
// when the facility holds no stock.
type EmergencyContact struct {
	FacilityName     string  `json:"facility_name"`
	EmergencyContact string  `json:"emergency_contact"`
	DistanceKm       float64 `json:"distance_km"`
}

// AvailabilityReport aggregates blood stock across facilities in a radius.
// TotalUnits of 0 with an empty FacilitiesWithBlood list is a valid result.
type AvailabilityReport struct {
	RequestedType       BloodType          `json:"requested_blood_type"`
	City                string             `json:"city"`
	SearchRadiusKm      float64            `json:"search_radius_km"`
	CityFallback        bool               `json:"city_fallback,omitempty"`
	FacilitiesWithBlood []FacilityStock    `json:"facilities_with_blood"`
	TotalUnits          int                `json:"total_units_available"`
	NearestFacility     *FacilityStock     `json:"nearest_facility,omitempty"`
	EmergencyContacts   []EmergencyContact `json:"emergency_contacts"`
}
