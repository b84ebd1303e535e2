package score

import (
	"math"
	"strings"
	"testing"

	"github.com/psethzp/rosti/internal/model"
)

func span(verdict model.Verdict, confidence float64, tier model.Tier) model.SpanReview {
	return model.SpanReview{
		Span: model.EvidenceSpan{SourceID: "src", Page: 1, CharStart: 0, CharEnd: 10, Quote: "quote"},
		Result: model.ValidationResult{
			Verdict:     verdict,
			Confidence:  confidence,
			Reason:      "reason for " + string(verdict),
			TierReached: tier,
		},
	}
}

func TestScorer_Aggregate_WorstVerdictWins(t *testing.T) {
	scorer := NewScorer()

	claim := model.Claim{ID: "c1", Text: "The dam held through both storm seasons"}
	spans := []model.SpanReview{
		span(model.VerdictSupported, 0.95, model.TierStructural),
		span(model.VerdictWeak, 0.6, model.TierKeyword),
		span(model.VerdictContradicted, 0.7, model.TierOracle),
	}

	reviewed := scorer.Aggregate(claim, spans)

	if reviewed.Verdict != model.VerdictContradicted {
		t.Errorf("verdict = %s, want Contradicted", reviewed.Verdict)
	}
	if reviewed.Confidence == nil {
		t.Fatal("expected aggregate confidence")
	}
	if mean := *reviewed.Confidence; math.Abs(mean-0.75) > 1e-9 {
		t.Errorf("confidence = %v, want mean 0.75", mean)
	}
	if reviewed.Status != model.StatusReviewed {
		t.Errorf("status = %s, want reviewed", reviewed.Status)
	}
	if !strings.Contains(reviewed.ReviewerNotes, "1 contradicted") {
		t.Errorf("notes should count the contradicted span, got %q", reviewed.ReviewerNotes)
	}
}

func TestScorer_Aggregate_AllSupported(t *testing.T) {
	scorer := NewScorer()

	spans := []model.SpanReview{
		span(model.VerdictSupported, 0.9, model.TierStructural),
		span(model.VerdictSupported, 1.0, model.TierKeyword),
	}

	reviewed := scorer.Aggregate(model.Claim{ID: "c2", Text: "claim"}, spans)

	if reviewed.Verdict != model.VerdictSupported {
		t.Errorf("verdict = %s, want Supported", reviewed.Verdict)
	}
	if math.Abs(*reviewed.Confidence-0.95) > 1e-9 {
		t.Errorf("confidence = %v, want 0.95", *reviewed.Confidence)
	}
}

func TestScorer_Aggregate_WeakOutranksSupported(t *testing.T) {
	scorer := NewScorer()

	spans := []model.SpanReview{
		span(model.VerdictSupported, 0.95, model.TierStructural),
		span(model.VerdictWeak, 0.5, model.TierOracle),
	}

	reviewed := scorer.Aggregate(model.Claim{ID: "c3", Text: "claim"}, spans)

	if reviewed.Verdict != model.VerdictWeak {
		t.Errorf("verdict = %s, want Weak", reviewed.Verdict)
	}
}

func TestScorer_Aggregate_NoCitations(t *testing.T) {
	scorer := NewScorer()

	reviewed := scorer.Aggregate(model.Claim{ID: "c4", Text: "uncited claim"}, nil)

	if reviewed.Verdict != model.VerdictWeak {
		t.Errorf("verdict = %s, want Weak for an uncited claim", reviewed.Verdict)
	}
	if reviewed.Confidence == nil || *reviewed.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", reviewed.Confidence)
	}
	if reviewed.ReviewerNotes != "no citations to verify" {
		t.Errorf("notes = %q", reviewed.ReviewerNotes)
	}
}

func TestScorer_Aggregate_PreservesClaimFields(t *testing.T) {
	scorer := NewScorer()

	claim := model.Claim{
		ID:     "c5",
		Topic:  "hydrology",
		Text:   "water levels rose 2m",
		Status: model.StatusDraft,
	}

	reviewed := scorer.Aggregate(claim, []model.SpanReview{
		span(model.VerdictSupported, 0.9, model.TierStructural),
	})

	if reviewed.ID != "c5" || reviewed.Topic != "hydrology" || reviewed.Text != claim.Text {
		t.Errorf("claim fields not preserved: %+v", reviewed.Claim)
	}
	if reviewed.Status != model.StatusReviewed {
		t.Errorf("status = %s, want reviewed after aggregation", reviewed.Status)
	}
}

func TestScorer_Aggregate_DegradedNoted(t *testing.T) {
	scorer := NewScorer()

	degraded := span(model.VerdictWeak, 0.4, model.TierOracle)
	degraded.Result.Degraded = true

	reviewed := scorer.Aggregate(model.Claim{ID: "c6", Text: "claim"}, []model.SpanReview{degraded})

	if !strings.Contains(reviewed.ReviewerNotes, "degraded") {
		t.Errorf("notes should flag the degraded span, got %q", reviewed.ReviewerNotes)
	}
}

func TestScorer_Summarize(t *testing.T) {
	scorer := NewScorer()

	degraded := span(model.VerdictWeak, 0.4, model.TierOracle)
	degraded.Result.Degraded = true

	claims := []model.ReviewedClaim{
		scorer.Aggregate(model.Claim{ID: "a"}, []model.SpanReview{
			span(model.VerdictSupported, 0.95, model.TierStructural),
			span(model.VerdictContradicted, 0.6, model.TierKeyword),
		}),
		scorer.Aggregate(model.Claim{ID: "b"}, []model.SpanReview{
			degraded,
		}),
	}

	sum := scorer.Summarize(claims)

	if sum.Claims != 2 {
		t.Errorf("claims = %d, want 2", sum.Claims)
	}
	if sum.Spans != 3 {
		t.Errorf("spans = %d, want 3", sum.Spans)
	}
	if sum.Supported != 1 || sum.Weak != 1 || sum.Contradicted != 1 {
		t.Errorf("verdict tallies = %d/%d/%d, want 1/1/1", sum.Supported, sum.Weak, sum.Contradicted)
	}
	if sum.ResolvedTier1 != 1 || sum.ResolvedTier2 != 1 || sum.ResolvedTier3 != 1 {
		t.Errorf("tier tallies = %d/%d/%d, want 1/1/1", sum.ResolvedTier1, sum.ResolvedTier2, sum.ResolvedTier3)
	}
	if sum.Degraded != 1 {
		t.Errorf("degraded = %d, want 1", sum.Degraded)
	}
}
