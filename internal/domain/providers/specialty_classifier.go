package providers

import "context"

// Classification is the outcome of classifying a free-text medical issue.
type Classification struct {
	Specialty  string  `json:"specialty"`
	Confidence float64 `json:"confidence"`
}

// SpecialtyGeneral is the generic label returned when classification fails
// or produces no usable signal.
const SpecialtyGeneral = "general"

// SpecialtyClassifier maps a free-text issue description to a medical
// specialty. Implementations treated as unreliable must be wrapped so that
// callers always receive a label (see GracefulClassifier in the classifier
// adapter package).
type SpecialtyClassifier interface {
	Classify(ctx context.Context, issueText string) (Classification, error)
}
