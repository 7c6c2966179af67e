package entities

// SpecialtyMetrics carries the matched department's sub-metrics on a
// recommendation. Present only when the facility offers the classified
// specialty.
type SpecialtyMetrics struct {
	Rating             float64 `json:"rating"`
	DoctorCount        int     `json:"doctor_count"`
	SuccessRatePercent float64 `json:"success_rate_percent"`
	WaitDays           int     `json:"wait_days"`
}

// HospitalRecommendation is one ranked facility in a recommendation result.
type HospitalRecommendation struct {
	Facility         *Facility         `json:"facility"`
	Rank             int               `json:"rank"`
	Score            float64           `json:"score"`
	DistanceKm       float64           `json:"distance_km"`
	SpecialtyMatch   bool              `json:"specialty_match"`
	UrgencyMatch     bool              `json:"urgency_match"`
	SpecialtyMetrics *SpecialtyMetrics `json:"specialty_metrics,omitempty"`
	Reason           string            `json:"reason"`
}

// RecommendationReport is the full result of a hospital recommendation. An
// empty Results slice means no facility exists in the resolved region; the
// caller decides whether to broaden the search.
type RecommendationReport struct {
	Specialty            string                   `json:"specialty"`
	SpecialtyConfidence  float64                  `json:"specialty_confidence"`
	ClassifierFallback   bool                     `json:"classifier_fallback,omitempty"`
	City                 string                   `json:"city"`
	State                string                   `json:"state"`
	CityFallback         bool                     `json:"city_fallback,omitempty"`
	Results              []HospitalRecommendation `json:"results"`
}

// DoctorRecommendation is one ranked provider with its composite quality
// score.
type DoctorRecommendation struct {
	Provider     *Provider `json:"provider"`
	QualityScore float64   `json:"quality_score"`
}
