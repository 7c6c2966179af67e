package entities

import (
	"fmt"
	"strings"
)

// UrgencyLevel is the requester-declared severity of a request
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// ParseUrgencyLevel validates a raw urgency string, failing fast on
// malformed input.
func ParseUrgencyLevel(raw string) (UrgencyLevel, error) {
	u := UrgencyLevel(strings.ToLower(strings.TrimSpace(raw)))
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return u, nil
	}
	return "", fmt.Errorf("unknown urgency level %q", raw)
}

// Urgent reports whether the level calls for emergency readiness.
func (u UrgencyLevel) Urgent() bool {
	return u == UrgencyHigh || u == UrgencyCritical
}

// BloodRequest is an ephemeral request for emergency blood. It is created
// per call and never persisted by the engine.
type BloodRequest struct {
	BloodType BloodType    `json:"blood_type"`
	City      string       `json:"city"`
	RadiusKm  float64      `json:"radius_km,omitempty"`
	Urgency   UrgencyLevel `json:"urgency,omitempty"`
}

// HospitalQuery is an ephemeral request for a hospital recommendation.
type HospitalQuery struct {
	IssueText  string       `json:"issue_text"`
	City       string       `json:"city"`
	Urgency    UrgencyLevel `json:"urgency"`
	MaxResults int          `json:"max_results,omitempty"`
}
