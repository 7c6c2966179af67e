package services

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/domain/providers"
	"github.com/swasthyalink/backend/internal/domain/repositories"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	"github.com/swasthyalink/backend/pkg/config"
	apperrors "github.com/swasthyalink/backend/pkg/errors"
	"github.com/swasthyalink/backend/pkg/geo"
)

// minUnknownLocalityKm is the lower bound of the pseudo distance assigned
// to donors whose locality is not in the gazetteer.
const minUnknownLocalityKm = 5.0

var (
	donorMatchCounterOnce sync.Once
	donorMatchCounter     metric.Int64Counter
)

// lockedRand guards the injected RNG so concurrent matching calls stay
// safe against the same service instance.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + l.float64()*(max-min)
}

// DonorMatchingService finds compatible, eligible donors for a blood
// request using a tiered, distance-ranked search.
type DonorMatchingService struct {
	donors    repositories.DonorDirectory
	locations providers.LocationRegistry
	cfg       config.MatchingConfig
	rng       *lockedRand
	now       func() time.Time
}

// NewDonorMatchingService creates a donor matching service. The RNG seed
// defaults to the wall clock; inject a fixed seed with SetSeed for
// reproducible results.
func NewDonorMatchingService(donors repositories.DonorDirectory, locations providers.LocationRegistry, cfg config.MatchingConfig) *DonorMatchingService {
	return &DonorMatchingService{
		donors:    donors,
		locations: locations,
		cfg:       cfg,
		rng:       &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
		now:       time.Now,
	}
}

// SetSeed re-seeds the RNG behind the over-radius inclusion draw and the
// unknown-locality pseudo distances.
func (s *DonorMatchingService) SetSeed(seed int64) {
	s.rng = &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// SetClock overrides the time source used for days-since-donation.
func (s *DonorMatchingService) SetClock(now func() time.Time) {
	s.now = now
}

// FindCompatibleDonors runs the tiered search: up to LocalDonorCap donors
// from the requester's own locality at distance 0 in encounter order, then
// regional donors ranked by distance. Donors beyond the radius but within
// radius*OverRadiusMultiplier are included with OverRadiusProbability to
// diversify results. Zero matches is a valid outcome.
func (s *DonorMatchingService) FindCompatibleDonors(ctx context.Context, req entities.BloodRequest) (*entities.DonorMatchReport, error) {
	ctx, span := observability.StartSpan(ctx, "matching.find_compatible_donors")
	defer span.End()

	acceptable := entities.CompatibleDonorTypes(req.BloodType)
	if acceptable == nil {
		return nil, apperrors.NewValidationError("unknown blood type " + string(req.BloodType))
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = s.cfg.DonorRadiusKm
	}

	loc := s.locations.Resolve(req.City)

	candidates, err := s.donors.List(ctx, repositories.DonorFilter{
		BloodTypes:    acceptable,
		AvailableOnly: true,
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewInternalError("donor directory query failed", err)
	}

	now := s.now()
	reqCity := strings.ToLower(strings.TrimSpace(req.City))

	var matches []entities.DonorMatch

	// Local tier: same locality, distance 0, encounter order.
	localAdded := 0
	for _, donor := range candidates {
		if localAdded >= s.cfg.LocalDonorCap {
			break
		}
		if !s.eligible(donor) || strings.ToLower(donor.City) != reqCity {
			continue
		}
		matches = append(matches, entities.DonorMatch{
			Donor:             donor,
			DistanceKm:        0,
			DaysSinceDonation: donor.DaysSinceDonation(now),
		})
		localAdded++
	}

	// Regional tier: everyone else, ranked by true or pseudo distance.
	for _, donor := range candidates {
		if !s.eligible(donor) || strings.ToLower(donor.City) == reqCity {
			continue
		}

		donorLoc := s.locations.Resolve(donor.City)
		var distance float64
		localityUnknown := donorLoc.Fallback
		if localityUnknown {
			distance = s.rng.uniform(minUnknownLocalityKm, radius)
		} else {
			distance = geo.DistanceKm(loc.Latitude, loc.Longitude, donorLoc.Latitude, donorLoc.Longitude)
		}

		include := distance <= radius
		if !include && distance <= radius*s.cfg.OverRadiusMultiplier {
			include = s.rng.float64() < s.cfg.OverRadiusProbability
		}
		if !include {
			continue
		}

		matches = append(matches, entities.DonorMatch{
			Donor:             donor,
			DistanceKm:        math.Round(distance*100) / 100,
			DaysSinceDonation: donor.DaysSinceDonation(now),
			LocalityUnknown:   localityUnknown,
		})
	}

	// Nearest first; among equal distances prefer donors who have not
	// donated recently, then stable id order.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		if matches[i].DaysSinceDonation != matches[j].DaysSinceDonation {
			return matches[i].DaysSinceDonation > matches[j].DaysSinceDonation
		}
		return matches[i].Donor.ID < matches[j].Donor.ID
	})

	if len(matches) > s.cfg.MaxDonorResults {
		matches = matches[:s.cfg.MaxDonorResults]
	}

	recordDonorMatches(ctx, len(matches))

	return &entities.DonorMatchReport{
		RequestedType:   req.BloodType,
		City:            req.City,
		SearchRadiusKm:  radius,
		AcceptableTypes: acceptable,
		CityFallback:    loc.Fallback,
		Donors:          matches,
	}, nil
}

func (s *DonorMatchingService) eligible(d *entities.Donor) bool {
	return d.IsAvailable &&
		d.Age >= s.cfg.MinDonorAge && d.Age <= s.cfg.MaxDonorAge &&
		d.WeightKg >= s.cfg.MinDonorWeightKg
}

func initDonorMatchCounter() {
	meter := otel.Meter("github.com/swasthyalink/backend/matching")
	counter, err := meter.Int64Counter(
		"match.donors.count",
		metric.WithDescription("Count of donors returned by compatible-donor searches"),
	)
	if err == nil {
		donorMatchCounter = counter
	}
}

func recordDonorMatches(ctx context.Context, n int) {
	if n == 0 {
		return
	}
	donorMatchCounterOnce.Do(initDonorMatchCounter)
	if donorMatchCounter == nil {
		return
	}
	donorMatchCounter.Add(ctx, int64(n))
}
