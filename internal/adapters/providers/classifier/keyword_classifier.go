// Package classifier provides the local specialty classifier and the
// degradation wrapper guaranteeing callers always receive a label.
package classifier

import (
	"context"
	"sort"
	"strings"

	"github.com/swasthyalink/backend/internal/domain/providers"
)

// specialtyKeywords maps each supported specialty to the issue-text
// keywords that indicate it.
var specialtyKeywords = map[string][]string{
	"cardiology": {
		"heart", "cardiac", "chest pain", "heart attack", "angina",
		"arrhythmia", "bypass", "stent", "palpitations",
	},
	"neurology": {
		"brain", "stroke", "seizure", "headache", "migraine", "epilepsy",
		"parkinson", "alzheimer", "paralysis",
	},
	"oncology": {
		"cancer", "tumor", "chemotherapy", "radiation", "oncology",
		"malignancy", "carcinoma", "lump",
	},
	"orthopedics": {
		"bone", "fracture", "joint", "knee", "hip", "spine", "arthritis",
		"sports injury", "back pain",
	},
	"pediatrics": {
		"child", "baby", "infant", "pediatric", "neonatal", "adolescent",
		"congenital",
	},
	"emergency": {
		"emergency", "trauma", "accident", "critical", "urgent",
		"ambulance", "resuscitation", "unconscious",
	},
}

// KeywordClassifier classifies issue text by counting specialty keyword
// occurrences. It is the local stand-in for an ML classifier and never
// returns an error.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a keyword-based specialty classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify scores the text against every specialty's keyword list and
// returns the best match. Confidence is the winning specialty's share of
// all keyword hits. Text with no hits classifies as the generic label with
// near-zero confidence.
func (c *KeywordClassifier) Classify(_ context.Context, issueText string) (providers.Classification, error) {
	text := strings.ToLower(issueText)

	hits := make(map[string]int)
	total := 0
	for specialty, keywords := range specialtyKeywords {
		for _, kw := range keywords {
			n := strings.Count(text, kw)
			hits[specialty] += n
			total += n
		}
	}

	if total == 0 {
		return providers.Classification{
			Specialty:  providers.SpecialtyGeneral,
			Confidence: 0.05,
		}, nil
	}

	// Deterministic winner: most hits, ties broken lexicographically.
	specialties := make([]string, 0, len(hits))
	for s := range hits {
		specialties = append(specialties, s)
	}
	sort.Strings(specialties)

	best := ""
	bestHits := 0
	for _, s := range specialties {
		if hits[s] > bestHits {
			best = s
			bestHits = hits[s]
		}
	}

	return providers.Classification{
		Specialty:  best,
		Confidence: float64(bestHits) / float64(total),
	}, nil
}
