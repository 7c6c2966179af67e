package entities

// Provider represents an individual doctor attached to a facility
type Provider struct {
	ID                  string  `json:"id" db:"id"`
	Name                string  `json:"name" db:"name"`
	Specialty           string  `json:"specialty" db:"specialty"`
	SubSpecialty        string  `json:"sub_specialty" db:"sub_specialty"`
	ExperienceYears     int     `json:"experience_years" db:"experience_years"`
	Qualification       string  `json:"qualification" db:"qualification"`
	FacilityID          string  `json:"facility_id" db:"facility_id"`
	Rating              float64 `json:"rating" db:"rating"`
	ConsultationFee     int     `json:"consultation_fee" db:"consultation_fee"`
	AvailabilityStatus  string  `json:"availability_status" db:"availability_status"`
	ProceduresPerformed int     `json:"procedures_performed" db:"procedures_performed"`
	SuccessRatePercent  float64 `json:"success_rate_percent" db:"success_rate_percent"`
	ReviewCount         int     `json:"review_count" db:"review_count"`
}
