package model

import (
	"fmt"
	"strings"
)

// EvidenceSpan locates a quoted excerpt inside an ingested source document
type EvidenceSpan struct {
	SourceID  string `json:"source_id"`  // Document identifier (file stem or slug)
	Page      int    `json:"page"`       // Page number within the source (1-based)
	CharStart int    `json:"char_start"` // Start offset in the page's extracted text
	CharEnd   int    `json:"char_end"`   // End offset (exclusive)
	Quote     string `json:"quote"`      // Literal quoted text
}

// HasQuote reports whether the span carries any non-whitespace quote text.
func (s EvidenceSpan) HasQuote() bool {
	return strings.TrimSpace(s.Quote) != ""
}

// RangeValid reports whether page and offsets describe a well-formed range.
func (s EvidenceSpan) RangeValid() bool {
	return s.Page >= 1 && s.CharEnd > s.CharStart
}

// Identity returns the span's stable identity string. Two spans with the
// same identity cite the same location, regardless of quote text.
func (s EvidenceSpan) Identity() string {
	return fmt.Sprintf("%s:p%d:%d-%d", s.SourceID, s.Page, s.CharStart, s.CharEnd)
}

// ClaimStatus tracks where a claim is in the review lifecycle
type ClaimStatus string

const (
	StatusDraft    ClaimStatus = "draft"    // Produced by extraction, not yet reviewed
	StatusReviewed ClaimStatus = "reviewed" // Carries a verdict
)

// Claim represents a factual assertion extracted upstream, together with
// the evidence spans cited in its support. Claims are read-only input to
// the verification engine; the engine only produces judgments about them.
type Claim struct {
	ID         string         `json:"id"`
	Topic      string         `json:"topic,omitempty"`
	Text       string         `json:"text"`
	Citations  []EvidenceSpan `json:"citations"`
	Confidence *float64       `json:"confidence,omitempty"`
	Status     ClaimStatus    `json:"status,omitempty"`
}
