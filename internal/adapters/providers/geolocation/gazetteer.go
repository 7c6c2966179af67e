// Package geolocation implements the LocationRegistry over a fixed
// gazetteer of Indian cities.
package geolocation

import (
	"sort"
	"strings"

	"github.com/swasthyalink/backend/internal/domain/providers"
)

type cityEntry struct {
	name  string
	state string
	lat   float64
	lon   float64
}

// DefaultCity is the documented fallback for unknown locality names.
const DefaultCity = "Delhi"

var cities = map[string]cityEntry{
	"mumbai":    {"Mumbai", "Maharashtra", 19.0760, 72.8777},
	"delhi":     {"Delhi", "Delhi", 28.7041, 77.1025},
	"bangalore": {"Bangalore", "Karnataka", 12.9716, 77.5946},
	"hyderabad": {"Hyderabad", "Telangana", 17.3850, 78.4867},
	"chennai":   {"Chennai", "Tamil Nadu", 13.0827, 80.2707},
	"kolkata":   {"Kolkata", "West Bengal", 22.5726, 88.3639},
	"pune":      {"Pune", "Maharashtra", 18.5204, 73.8567},
	"ahmedabad": {"Ahmedabad", "Gujarat", 23.0225, 72.5714},
	"jaipur":    {"Jaipur", "Rajasthan", 26.9124, 75.7873},
	"lucknow":   {"Lucknow", "Uttar Pradesh", 26.8467, 80.9462},
}

// GazetteerRegistry resolves locality names against the fixed city table.
type GazetteerRegistry struct{}

// NewGazetteerRegistry creates a gazetteer-backed location registry.
func NewGazetteerRegistry() providers.LocationRegistry {
	return &GazetteerRegistry{}
}

// Resolve looks up a locality case-insensitively. Unknown names resolve to
// the default city with Fallback set so callers can warn the user.
func (g *GazetteerRegistry) Resolve(locality string) providers.ResolvedLocation {
	key := strings.ToLower(strings.TrimSpace(locality))
	entry, ok := cities[key]
	if !ok {
		entry = cities[strings.ToLower(DefaultCity)]
		return providers.ResolvedLocation{
			City:      entry.name,
			State:     entry.state,
			Latitude:  entry.lat,
			Longitude: entry.lon,
			Fallback:  true,
		}
	}
	return providers.ResolvedLocation{
		City:      entry.name,
		State:     entry.state,
		Latitude:  entry.lat,
		Longitude: entry.lon,
	}
}

// Cities returns the known locality names in sorted order. Used by the
// seeding command to place synthetic records on the map.
func Cities() []string {
	names := make([]string, 0, len(cities))
	for _, entry := range cities {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}
