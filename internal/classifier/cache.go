package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

const embedCacheTTL = 24 * time.Hour

// CachedEmbedder is a read-through Redis cache in front of an Embedder.
// Cache failures are silent; the wrapped embedder is the source of truth.
type CachedEmbedder struct {
	inner  Embedder
	client *redis.Client
	logger *zap.Logger
}

// NewCachedEmbedder wraps an embedder. A nil Redis client disables caching.
func NewCachedEmbedder(inner Embedder, client *redis.Client, logger *zap.Logger) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, client: client, logger: logger}
}

// Embed returns the cached vector when present, otherwise embeds and stores it.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := embedCacheKey(text)

	if e.client != nil {
		cached, err := e.client.Get(ctx, key).Bytes()
		if err == nil {
			var vector []float32
			if jsonErr := json.Unmarshal(cached, &vector); jsonErr == nil && len(vector) > 0 {
				return vector, nil
			}
		} else if err != redis.Nil {
			e.logger.Debug("embedding cache read failed", zap.Error(err))
		}
	}

	vector, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if e.client != nil {
		if payload, jsonErr := json.Marshal(vector); jsonErr == nil {
			if err := e.client.Set(ctx, key, payload, embedCacheTTL).Err(); err != nil {
				e.logger.Debug("embedding cache write failed", zap.Error(err))
			}
		}
	}
	return vector, nil
}

func embedCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + hex.EncodeToString(sum[:])
}
