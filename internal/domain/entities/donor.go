package entities

import "time"

// Donor represents a registered blood donor
type Donor struct {
	ID                string     `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Age               int        `json:"age" db:"age"`
	Gender            string     `json:"gender" db:"gender"`
	BloodType         BloodType  `json:"blood_type" db:"blood_type"`
	City              string     `json:"city" db:"city"`
	State             string     `json:"state" db:"state"`
	Phone             string     `json:"phone" db:"phone"`
	Email             string     `json:"email" db:"email"`
	LastDonation      *time.Time `json:"last_donation,omitempty" db:"last_donation"`
	DonationCount     int        `json:"donation_count" db:"donation_count"`
	IsAvailable       bool       `json:"is_available" db:"is_available"`
	WeightKg          int        `json:"weight_kg" db:"weight_kg"`
	MedicalConditions []string   `json:"medical_conditions,omitempty" db:"-"`
}

// DefaultDaysSinceDonation is assumed when a donor's last donation date is
// missing or unparseable.
const DefaultDaysSinceDonation = 30

// DaysSinceDonation returns whole days since the donor last donated, seen
// from now. A missing date defaults to DefaultDaysSinceDonation.
func (d *Donor) DaysSinceDonation(now time.Time) int {
	if d.LastDonation == nil {
		return DefaultDaysSinceDonation
	}
	days := int(now.Sub(*d.LastDonation).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
