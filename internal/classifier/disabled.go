package classifier

import (
	"context"
	"errors"
)

var errOracleNotConfigured = errors.New("gemini api key not configured")

// Disabled stands in for the Gemini client when no API key is configured.
// Every call fails, which the analyzer and matcher degrade to neutral
// results; the service still runs and the catalog fallback applies once
// the index has been seeded by a configured instance.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errOracleNotConfigured
}

func (Disabled) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errOracleNotConfigured
}
