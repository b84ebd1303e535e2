package model

import (
	"fmt"
	"strings"
)

// Verdict classifies how well a cited evidence span supports its claim
type Verdict string

const (
	VerdictSupported    Verdict = "Supported"    // Evidence backs the claim
	VerdictWeak         Verdict = "Weak"         // Evidence is related but not decisive
	VerdictContradicted Verdict = "Contradicted" // Evidence undercuts the claim or the citation is broken
)

// Valid reports whether v is one of the three closed verdict values.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictSupported, VerdictWeak, VerdictContradicted:
		return true
	}
	return false
}

// ParseVerdict maps free-form verdict text onto the closed verdict set.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "supported", "support", "supports":
		return VerdictSupported, nil
	case "weak", "partial", "uncertain":
		return VerdictWeak, nil
	case "contradicted", "contradiction", "contradicts", "refuted":
		return VerdictContradicted, nil
	}
	return "", fmt.Errorf("unknown verdict %q", s)
}

// Tier identifies one stage of the escalation pipeline, ordered by cost
type Tier int

const (
	TierNone       Tier = 0 // No tier has run yet
	TierStructural Tier = 1 // Deterministic span and quote checks
	TierKeyword    Tier = 2 // Lexical overlap scoring
	TierOracle     Tier = 3 // LLM judgment
)

func (t Tier) String() string {
	switch t {
	case TierStructural:
		return "structural"
	case TierKeyword:
		return "keyword"
	case TierOracle:
		return "oracle"
	default:
		return "none"
	}
}

// ValidationResult is the engine's answer for a single (claim, span) pair
type ValidationResult struct {
	Verdict     Verdict `json:"verdict"`
	Confidence  float64 `json:"confidence"`         // 0..1
	Reason      string  `json:"reason,omitempty"`   // Short human-readable justification
	TierReached Tier    `json:"tier_reached"`       // Deepest tier that ran
	Degraded    bool    `json:"degraded,omitempty"` // Oracle was needed but unavailable
}
