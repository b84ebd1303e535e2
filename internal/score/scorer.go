package score

import (
	"fmt"
	"strings"

	"github.com/psethzp/rosti/internal/model"
)

// Scorer folds span-level judgments into claim-level verdicts
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Aggregate combines the judgments for each cited span into a reviewed
// claim. The claim verdict is the worst span verdict (a claim is only as
// good as its weakest citation) and the claim confidence is the mean of
// the span confidences.
func (s *Scorer) Aggregate(claim model.Claim, spans []model.SpanReview) model.ReviewedClaim {
	reviewed := model.ReviewedClaim{
		Claim: claim,
		Spans: spans,
	}
	reviewed.Status = model.StatusReviewed

	if len(spans) == 0 {
		reviewed.Verdict = model.VerdictWeak
		reviewed.ReviewerNotes = "no citations to verify"
		conf := 0.0
		reviewed.Confidence = &conf
		return reviewed
	}

	verdict := model.VerdictSupported
	sum := 0.0
	for _, sr := range spans {
		if rank(sr.Result.Verdict) < rank(verdict) {
			verdict = normalize(sr.Result.Verdict)
		}
		sum += sr.Result.Confidence
	}

	mean := sum / float64(len(spans))
	reviewed.Verdict = verdict
	reviewed.Confidence = &mean
	reviewed.ReviewerNotes = s.notes(verdict, spans)
	return reviewed
}

// Summarize tallies verdict and escalation statistics over a full run.
func (s *Scorer) Summarize(claims []model.ReviewedClaim) model.ReviewSummary {
	var sum model.ReviewSummary
	sum.Claims = len(claims)
	for _, c := range claims {
		for _, sr := range c.Spans {
			sum.Count(sr.Result)
		}
	}
	return sum
}

// rank orders verdicts worst-first so the minimum wins aggregation.
func rank(v model.Verdict) int {
	switch v {
	case model.VerdictContradicted:
		return 0
	case model.VerdictWeak:
		return 1
	case model.VerdictSupported:
		return 2
	}
	return 1
}

// normalize maps anything outside the closed verdict set to Weak.
func normalize(v model.Verdict) model.Verdict {
	if !v.Valid() {
		return model.VerdictWeak
	}
	return v
}

// notes summarizes span outcomes in one line for the report.
func (s *Scorer) notes(verdict model.Verdict, spans []model.SpanReview) string {
	var supported, weak, contradicted, degraded int
	firstProblem := ""
	for _, sr := range spans {
		switch sr.Result.Verdict {
		case model.VerdictSupported:
			supported++
		case model.VerdictWeak:
			weak++
		case model.VerdictContradicted:
			contradicted++
		}
		if sr.Result.Degraded {
			degraded++
		}
		if firstProblem == "" && sr.Result.Verdict == verdict && verdict != model.VerdictSupported {
			firstProblem = sr.Result.Reason
		}
	}

	line := fmt.Sprintf("spans: %d supported, %d weak, %d contradicted", supported, weak, contradicted)
	if degraded > 0 {
		line += fmt.Sprintf("; %d degraded (oracle unavailable)", degraded)
	}
	if firstProblem != "" {
		line += "; " + strings.TrimSpace(firstProblem)
	}
	return line
}
