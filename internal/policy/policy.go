// Package policy holds the escalation decision: classifier results in, a
// single route/no-route bool out, no I/O.
package policy

import (
	"github.com/spec-kit/support-router/internal/classifier"
)

// Both thresholds are strict lower bounds. Either classifier clearing its
// own bar on an escalation category routes the query.
const (
	AnalyzerThreshold = 0.5
	MatcherThreshold  = 0.3
)

// Decide reports whether a query should be escalated to support.
func Decide(analyzer, matcher classifier.Result) bool {
	if analyzer.Category.IsEscalation() && analyzer.Confidence > AnalyzerThreshold {
		return true
	}
	return matcher.Category.IsEscalation() && matcher.Confidence > MatcherThreshold
}
