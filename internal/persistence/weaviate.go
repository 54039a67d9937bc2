package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/classifier"
	"github.com/spec-kit/support-router/internal/config"
	"github.com/spec-kit/support-router/internal/domain"
)

// Weaviate wraps the vector database holding catalog phrase embeddings.
type Weaviate struct {
	client    *weaviate.Client
	className string
	logger    *zap.Logger
}

// NewWeaviate connects to Weaviate and ensures the phrase class exists.
func NewWeaviate(ctx context.Context, cfg config.WeaviateConfig, logger *zap.Logger) (*Weaviate, error) {
	wcfg := weaviate.Config{
		Host:   cfg.Host,
		Scheme: cfg.Scheme,
	}
	if cfg.APIKey != "" {
		wcfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}

	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	w := &Weaviate{client: client, className: cfg.ClassName, logger: logger}
	if err := w.ensureSchema(ctx); err != nil {
		return nil, err
	}
	logger.Info("connected to weaviate", zap.String("class", cfg.ClassName))
	return w, nil
}

func (w *Weaviate) ensureSchema(ctx context.Context) error {
	class := &models.Class{
		Class:      w.className,
		Vectorizer: "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
		Properties: []*models.Property{
			{Name: "phrase", DataType: []string{"text"}},
			{Name: "category", DataType: []string{"text"}},
		},
	}
	err := w.client.Schema().ClassCreator().WithClass(class).Do(ctx)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create class %s: %w", w.className, err)
	}
	return nil
}

// Ready checks cluster readiness for health probes.
func (w *Weaviate) Ready(ctx context.Context) error {
	if w == nil || w.client == nil {
		return errors.New("weaviate client not configured")
	}
	ready, err := w.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return err
	}
	if !ready {
		return errors.New("weaviate not ready")
	}
	return nil
}

// Count returns the number of stored phrases.
func (w *Weaviate) Count(ctx context.Context) (int, error) {
	result, err := w.client.GraphQL().Aggregate().
		WithClassName(w.className).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("aggregate %s: %w", w.className, err)
	}
	if len(result.Errors) > 0 {
		return 0, fmt.Errorf("aggregate %s: %s", w.className, result.Errors[0].Message)
	}

	aggregate, ok := result.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	rows, ok := aggregate[w.className].([]interface{})
	if !ok || len(rows) == 0 {
		return 0, nil
	}
	row, ok := rows[0].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	meta, ok := row["meta"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	count, _ := meta["count"].(float64)
	return int(count), nil
}

// Add stores a catalog phrase with its precomputed vector.
func (w *Weaviate) Add(ctx context.Context, phrase string, category domain.Category, vector []float32) error {
	_, err := w.client.Data().Creator().
		WithClassName(w.className).
		WithProperties(map[string]interface{}{
			"phrase":   phrase,
			"category": string(category),
		}).
		WithVector(vector).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("add phrase %q: %w", phrase, err)
	}
	return nil
}

// Nearest runs a nearVector search and returns hits ordered by distance.
func (w *Weaviate) Nearest(ctx context.Context, vector []float32, limit int) ([]classifier.PhraseHit, error) {
	if limit <= 0 {
		limit = 1
	}
	nearVector := w.client.GraphQL().NearVectorArgBuilder().WithVector(vector)
	result, err := w.client.GraphQL().Get().
		WithClassName(w.className).
		WithNearVector(nearVector).
		WithLimit(limit).
		WithFields(
			graphql.Field{Name: "phrase"},
			graphql.Field{Name: "category"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("near vector search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("near vector search: %s", result.Errors[0].Message)
	}

	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	rows, ok := get[w.className].([]interface{})
	if !ok {
		return nil, nil
	}

	hits := make([]classifier.PhraseHit, 0, len(rows))
	for _, raw := range rows {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		hit := classifier.PhraseHit{}
		if phrase, ok := item["phrase"].(string); ok {
			hit.Phrase = phrase
		}
		if category, ok := item["category"].(string); ok {
			hit.Category = domain.ParseCategory(category)
		}
		if additional, ok := item["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				hit.Distance = distance
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
