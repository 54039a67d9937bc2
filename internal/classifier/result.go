package classifier

import (
	"context"

	"github.com/spec-kit/support-router/internal/domain"
)

// Result is a single classifier's judgment on a query. The analyzer and the
// matcher each produce one independently; the escalation policy reconciles
// the two, they are never merged.
type Result struct {
	Category   domain.Category
	Confidence float64
}

// Neutral is the conservative default returned when a classifier cannot judge.
func Neutral() Result {
	return Result{Category: domain.CategoryGeneral, Confidence: 0}
}

// Classifier is the common capability behind the analyzer and the matcher.
type Classifier interface {
	Classify(ctx context.Context, query string) (Result, error)
}
