package entities

// DonorMatch is one donor in a match result, annotated with distance from
// the requester.
type DonorMatch struct {
	Donor              *Donor  `json:"donor"`
	DistanceKm         float64 `json:"distance_km"`
	DaysSinceDonation  int     `json:"days_since_donation"`
	LocalityUnknown    bool    `json:"locality_unknown,omitempty"`
}

// DonorMatchReport is the full result of a compatible-donor search.
// An empty Donors slice is a valid outcome, not an error.
type DonorMatchReport struct {
	RequestedType   BloodType    `json:"requested_blood_type"`
	City            string       `json:"city"`
	SearchRadiusKm  float64      `json:"search_radius_km"`
	AcceptableTypes []BloodType  `json:"acceptable_donor_types"`
	CityFallback    bool         `json:"city_fallback,omitempty"`
	Donors          []DonorMatch `json:"donors"`
}
