package model

import "time"

// SpanReview pairs one citation with the engine's judgment about it
type SpanReview struct {
	Span   EvidenceSpan     `json:"span"`
	Result ValidationResult `json:"result"`
}

// ReviewedClaim is a claim plus the aggregate judgment over its citations
type ReviewedClaim struct {
	Claim
	Verdict       Verdict      `json:"verdict"`
	ReviewerNotes string       `json:"reviewer_notes,omitempty"`
	Spans         []SpanReview `json:"spans,omitempty"`
}

// ReviewReport is the complete artifact produced by one review run
type ReviewReport struct {
	RunID      string    `json:"run_id"`               // Unique per run
	ClaimsPath string    `json:"claims_path,omitempty"` // Input file the claims came from
	ReviewedAt time.Time `json:"reviewed_at"`

	Claims []ReviewedClaim `json:"claims"`

	Summary    ReviewSummary  `json:"summary"`
	CacheStats map[string]int `json:"cache_stats,omitempty"` // Namespace -> entry count after the run
}

// ReviewSummary aggregates verdict and escalation statistics for a run
type ReviewSummary struct {
	Claims       int `json:"claims"`
	Spans        int `json:"spans"`
	Supported    int `json:"supported"`
	Weak         int `json:"weak"`
	Contradicted int `json:"contradicted"`

	ResolvedTier1 int `json:"resolved_tier1"` // Spans settled by structural checks
	ResolvedTier2 int `json:"resolved_tier2"` // Spans settled by keyword overlap
	ResolvedTier3 int `json:"resolved_tier3"` // Spans that needed the oracle
	Degraded      int `json:"degraded"`       // Spans where the oracle was needed but unavailable
}

// Count adds one span result to the summary tallies.
func (s *ReviewSummary) Count(r ValidationResult) {
	s.Spans++
	switch r.Verdict {
	case VerdictSupported:
		s.Supported++
	case VerdictWeak:
		s.Weak++
	case VerdictContradicted:
		s.Contradicted++
	}
	switch r.TierReached {
	case TierStructural:
		s.ResolvedTier1++
	case TierKeyword:
		s.ResolvedTier2++
	case TierOracle:
		s.ResolvedTier3++
	}
	if r.Degraded {
		s.Degraded++
	}
}
