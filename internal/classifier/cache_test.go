package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingEmbedder struct {
	calls  int
	vector []float32
	err    error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.vector, c.err
}

func TestCachedEmbedderDelegatesWithoutRedis(t *testing.T) {
	inner := &countingEmbedder{vector: []float32{0.1, 0.2}}
	cached := NewCachedEmbedder(inner, nil, zap.NewNop())

	vector, err := cached.Embed(context.Background(), "card blocked")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vector)
	assert.Equal(t, 1, inner.calls)

	_, err = cached.Embed(context.Background(), "card blocked")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedEmbedderPropagatesInnerError(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("quota exceeded")}
	cached := NewCachedEmbedder(inner, nil, zap.NewNop())

	_, err := cached.Embed(context.Background(), "card blocked")
	assert.Error(t, err)
}

func TestEmbedCacheKeyIsStable(t *testing.T) {
	assert.Equal(t, embedCacheKey("hello"), embedCacheKey("hello"))
	assert.NotEqual(t, embedCacheKey("hello"), embedCacheKey("world"))
	assert.Contains(t, embedCacheKey("hello"), "embed:")
}
