package providers

// ResolvedLocation is the outcome of resolving a locality name.
type ResolvedLocation struct {
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Fallback is set when the locality was not in the gazetteer and the
	// documented default was substituted. Distances computed from a
	// fallback location are approximate; callers should warn the user.
	Fallback bool `json:"fallback,omitempty"`
}

// LocationRegistry resolves a named locality to coordinates and an
// administrative region. Lookup is case-insensitive and never fails: an
// unknown name resolves to the registry's default locality with Fallback
// set.
type LocationRegistry interface {
	Resolve(locality string) ResolvedLocation
}
