package validate

import (
	"fmt"
	"strings"

	"github.com/psethzp/rosti/internal/model"
)

// verbatimConfidence is assigned when a quote is found byte-for-byte on
// its cited page. Most well-formed citations are literal quotes, so this
// is the common cheap exit.
const verbatimConfidence = 0.95

// Resolver resolves a citation to the text of its cited page
type Resolver interface {
	PageText(sourceID string, page int) (string, error)
}

// finding is one tier's contribution to a verdict. Terminal findings stop
// escalation; inconclusive ones carry forward as the fail-soft fallback.
type finding struct {
	verdict    model.Verdict
	confidence float64
	reason     string
	terminal   bool
}

// result converts the finding into the engine's public result shape.
func (f finding) result(tier model.Tier, degraded bool) model.ValidationResult {
	return model.ValidationResult{
		Verdict:     f.verdict,
		Confidence:  f.confidence,
		Reason:      f.reason,
		TierReached: tier,
		Degraded:    degraded,
	}
}

// checkStructural runs the tier-1 deterministic span checks. It never
// consults the cache or the network; page text comes from the local
// corpus. minConfidence gates the verbatim-match early exit.
func checkStructural(span model.EvidenceSpan, resolver Resolver, minConfidence float64) finding {
	if !span.HasQuote() {
		// Hard reject: there is nothing any later tier could verify.
		return finding{
			verdict:  model.VerdictContradicted,
			reason:   "empty quote",
			terminal: true,
		}
	}

	if !span.RangeValid() {
		return finding{
			verdict:    model.VerdictContradicted,
			confidence: 0.2,
			reason:     fmt.Sprintf("invalid range: page %d chars [%d,%d)", span.Page, span.CharStart, span.CharEnd),
		}
	}

	pageText, err := resolver.PageText(span.SourceID, span.Page)
	if err != nil {
		return finding{
			verdict:    model.VerdictContradicted,
			confidence: 0.2,
			reason:     fmt.Sprintf("span does not resolve: %v", err),
		}
	}

	if strings.Contains(pageText, strings.TrimSpace(span.Quote)) {
		return finding{
			verdict:    model.VerdictSupported,
			confidence: verbatimConfidence,
			reason:     "quote found verbatim on cited page",
			terminal:   verbatimConfidence >= minConfidence,
		}
	}

	return finding{
		verdict:    model.VerdictWeak,
		confidence: 0.3,
		reason:     "quote not found on cited page",
	}
}
