package classifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/domain"
)

// Oracle produces free text for a prompt. Implemented by the Gemini client;
// tests substitute a fake.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyzer asks a generative oracle whether a query needs support routing.
// Oracle hiccups and malformed output are contained here: the analyzer always
// answers, degrading to a neutral result so the caller can fall back to the
// semantic matcher.
type Analyzer struct {
	oracle  Oracle
	logger  *zap.Logger
	timeout time.Duration
}

// NewAnalyzer constructs an analyzer with a bounded oracle timeout.
func NewAnalyzer(oracle Oracle, logger *zap.Logger, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Analyzer{oracle: oracle, logger: logger, timeout: timeout}
}

// Classify judges the query via the oracle. Never returns an error to the
// decision pipeline; failures are logged and become (general, 0.0).
func (a *Analyzer) Classify(ctx context.Context, query string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.oracle.Generate(ctx, analysisPrompt(query))
	if err != nil {
		a.logger.Warn("query analysis failed", zap.Error(err))
		return Neutral(), nil
	}

	parsed, err := decodeAnalysis(raw)
	if err != nil {
		a.logger.Warn("oracle returned unparseable judgment", zap.Error(err))
		return Neutral(), nil
	}

	category := domain.ParseCategory(parsed.Category)
	a.logger.Debug("query analyzed",
		zap.String("category", string(category)),
		zap.Float64("confidence", parsed.Confidence),
		zap.Bool("needs_support", parsed.NeedsSupport),
		zap.String("reason", parsed.Reason))

	return Result{Category: category, Confidence: parsed.Confidence}, nil
}

func analysisPrompt(query string) string {
	return fmt.Sprintf(`Analyze this customer query and determine if it requires support team assistance.

Categories that ALWAYS need support routing:
- Bank account issues (balance, statements, verification, closure, settings)
- Debit/Credit card issues (blocked, fraud, replacement, limits, PIN)
- Cross-border transactions (international transfers, forex, SWIFT)
- KYC/Identity verification issues

Query: %q

Respond ONLY with a JSON object:
{
    "needs_support": true/false,
    "category": "bank_account|debit_card|cross_border|kyc|general",
    "confidence": 0.0-1.0,
    "reason": "brief explanation"
}`, query)
}
