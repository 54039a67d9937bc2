package classifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/domain"
)

// PhraseHit is one nearest-neighbor match from the phrase index.
type PhraseHit struct {
	Phrase   string
	Category domain.Category
	Distance float64
}

// PhraseIndex stores catalog phrase vectors and answers nearest-neighbor
// queries. Backed by Weaviate in production; tests substitute a fake.
type PhraseIndex interface {
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, phrase string, category domain.Category, vector []float32) error
	Nearest(ctx context.Context, vector []float32, limit int) ([]PhraseHit, error)
}

// Matcher classifies queries by vector similarity against the category
// catalog. It is the cheap, deterministic fallback to the oracle-backed
// analyzer, so search failures degrade to a neutral result rather than error.
type Matcher struct {
	embedder Embedder
	index    PhraseIndex
	logger   *zap.Logger
}

// NewMatcher constructs a matcher.
func NewMatcher(embedder Embedder, index PhraseIndex, logger *zap.Logger) *Matcher {
	return &Matcher{embedder: embedder, index: index, logger: logger}
}

// SeedIndex loads the category catalog into the phrase index. Idempotent:
// a non-empty index is left untouched so process restarts do not re-embed.
func (m *Matcher) SeedIndex(ctx context.Context) error {
	count, err := m.index.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		m.logger.Debug("phrase index already seeded", zap.Int("count", count))
		return nil
	}

	seeded := 0
	for category, phrases := range domain.SeedPhrases {
		for _, phrase := range phrases {
			vector, err := m.embedder.Embed(ctx, phrase)
			if err != nil {
				return err
			}
			if err := m.index.Add(ctx, phrase, category, vector); err != nil {
				return err
			}
			seeded++
		}
	}
	m.logger.Info("seeded phrase index", zap.Int("phrases", seeded))
	return nil
}

// Classify returns the category of the nearest catalog phrase with a
// similarity score in [0,1] derived as max(0, 1-distance). An empty index or
// any retrieval failure yields (general, 0.0).
func (m *Matcher) Classify(ctx context.Context, query string) (Result, error) {
	vector, err := m.embedder.Embed(ctx, query)
	if err != nil {
		m.logger.Warn("query embedding failed", zap.Error(err))
		return Neutral(), nil
	}

	hits, err := m.index.Nearest(ctx, vector, 1)
	if err != nil {
		m.logger.Warn("phrase index search failed", zap.Error(err))
		return Neutral(), nil
	}
	if len(hits) == 0 {
		return Neutral(), nil
	}

	nearest := hits[0]
	similarity := 1 - nearest.Distance
	if similarity < 0 {
		similarity = 0
	}
	m.logger.Debug("semantic match",
		zap.String("phrase", nearest.Phrase),
		zap.String("category", string(nearest.Category)),
		zap.Float64("similarity", similarity))

	return Result{Category: nearest.Category, Confidence: similarity}, nil
}
