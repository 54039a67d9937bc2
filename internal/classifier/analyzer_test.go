package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/domain"
)

type fakeOracle struct {
	response string
	err      error
	prompt   string
}

func (f *fakeOracle) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAnalyzerClassify(t *testing.T) {
	oracle := &fakeOracle{response: `{"needs_support": true, "category": "debit_card", "confidence": 0.8, "reason": "blocked card"}`}
	analyzer := NewAnalyzer(oracle, zap.NewNop(), time.Second)

	result, err := analyzer.Classify(context.Background(), "My debit card was blocked")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDebitCard, result.Category)
	assert.Equal(t, 0.8, result.Confidence)
	assert.True(t, strings.Contains(oracle.prompt, "My debit card was blocked"))
}

func TestAnalyzerSwallowsOracleError(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("rate limited")}
	analyzer := NewAnalyzer(oracle, zap.NewNop(), time.Second)

	result, err := analyzer.Classify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, Neutral(), result)
}

func TestAnalyzerSwallowsMalformedOutput(t *testing.T) {
	oracle := &fakeOracle{response: "I think this needs support."}
	analyzer := NewAnalyzer(oracle, zap.NewNop(), time.Second)

	result, err := analyzer.Classify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, Neutral(), result)
}

func TestAnalyzerUnknownCategoryDefaultsToGeneral(t *testing.T) {
	oracle := &fakeOracle{response: `{"category": "mortgage", "confidence": 0.9}`}
	analyzer := NewAnalyzer(oracle, zap.NewNop(), time.Second)

	result, err := analyzer.Classify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryGeneral, result.Category)
	assert.Equal(t, 0.9, result.Confidence)
}
