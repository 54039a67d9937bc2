package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// analysis is the JSON object the oracle is instructed to return.
type analysis struct {
	NeedsSupport bool    `json:"needs_support"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

// decodeAnalysis parses the oracle's raw text into an analysis. Models often
// wrap JSON in a markdown code fence, optionally tagged "json"; the fence is
// stripped before decoding.
func decodeAnalysis(raw string) (analysis, error) {
	text := stripCodeFence(raw)

	var parsed analysis
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return analysis{}, fmt.Errorf("decode oracle response: %w", err)
	}
	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}
	return parsed, nil
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if end := strings.Index(text, "```"); end >= 0 {
		text = text[:end]
	}
	text = strings.TrimPrefix(strings.TrimSpace(text), "json")
	return strings.TrimSpace(text)
}
