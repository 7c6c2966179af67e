package classifier

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/swasthyalink/backend/internal/domain/providers"
)

// fallbackConfidence is reported when the underlying classifier fails and
// the generic label is substituted.
const fallbackConfidence = 0.05

// interpretation cache entries live for 24 hours, matching how long issue
// phrasing stays stable.
const cacheTTLSeconds = 86400

var (
	fallbackCounterOnce sync.Once
	fallbackCounter     metric.Int64Counter
)

// GracefulClassifier wraps a SpecialtyClassifier so that callers always
// receive a usable label: any error or empty result degrades to the generic
// specialty with near-zero confidence instead of propagating a failure.
// Classifications are cached when a cache provider is attached.
type GracefulClassifier struct {
	inner providers.SpecialtyClassifier
	cache providers.CacheProvider
}

// NewGracefulClassifier wraps the given classifier.
func NewGracefulClassifier(inner providers.SpecialtyClassifier) *GracefulClassifier {
	return &GracefulClassifier{inner: inner}
}

// SetCache attaches a cache provider for classification results.
func (g *GracefulClassifier) SetCache(cache providers.CacheProvider) {
	g.cache = cache
}

// Classify never returns a non-nil error.
func (g *GracefulClassifier) Classify(ctx context.Context, issueText string) (providers.Classification, error) {
	key := "specialty_classification:" + strings.ToLower(strings.TrimSpace(issueText))

	if g.cache != nil {
		if data, err := g.cache.Get(ctx, key); err == nil {
			var cached providers.Classification
			if json.Unmarshal(data, &cached) == nil && cached.Specialty != "" {
				return cached, nil
			}
		}
	}

	result, err := g.inner.Classify(ctx, issueText)
	if err != nil || result.Specialty == "" {
		recordFallback(ctx)
		return providers.Classification{
			Specialty:  providers.SpecialtyGeneral,
			Confidence: fallbackConfidence,
		}, nil
	}

	if g.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = g.cache.Set(ctx, key, data, cacheTTLSeconds)
		}
	}

	return result, nil
}

func initFallbackCounter() {
	meter := otel.Meter("github.com/swasthyalink/backend/classifier")
	counter, err := meter.Int64Counter(
		"classifier.fallback.count",
		metric.WithDescription("Count of classifications degraded to the generic specialty"),
	)
	if err == nil {
		fallbackCounter = counter
	}
}

func recordFallback(ctx context.Context) {
	fallbackCounterOnce.Do(initFallbackCounter)
	if fallbackCounter == nil {
		return
	}
	fallbackCounter.Add(ctx, 1)
}
