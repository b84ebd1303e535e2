package validate

import (
	"fmt"

	"github.com/psethzp/rosti/internal/model"
	"github.com/psethzp/rosti/internal/search"
)

// checkKeyword runs the tier-2 lexical check: how much of the claim's
// keyword set the quoted evidence covers. Overlap ratio is
// |claim terms found in evidence| / |claim terms|.
func checkKeyword(claimText, evidenceText string, th model.ThresholdConfig) finding {
	claimTerms := search.Keywords(claimText)
	if len(claimTerms) == 0 {
		return finding{
			verdict:    model.VerdictWeak,
			confidence: 0.5,
			reason:     "no salient terms in claim",
		}
	}

	evidenceSet := search.KeywordSet(evidenceText)
	overlap := 0
	for _, term := range claimTerms {
		if _, ok := evidenceSet[term]; ok {
			overlap++
		}
	}
	ratio := float64(overlap) / float64(len(claimTerms))

	switch {
	case ratio < th.ContradictionMax:
		// A clear negative signal is trusted without paying for the oracle
		confidence := th.ContradictionMax + (th.ContradictionMax - ratio)
		if confidence > 1 {
			confidence = 1
		}
		return finding{
			verdict:    model.VerdictContradicted,
			confidence: confidence,
			reason:     fmt.Sprintf("keyword overlap %.2f below %.2f", ratio, th.ContradictionMax),
			terminal:   true,
		}

	case ratio >= th.SupportMin:
		return finding{
			verdict:    model.VerdictSupported,
			confidence: ratio,
			reason:     fmt.Sprintf("keyword overlap %.2f at or above %.2f", ratio, th.SupportMin),
			terminal:   true,
		}

	default:
		return finding{
			verdict:    model.VerdictWeak,
			confidence: ratio,
			reason:     fmt.Sprintf("keyword overlap %.2f inconclusive", ratio),
		}
	}
}
