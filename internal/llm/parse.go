package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/psethzp/rosti/internal/model"
)

// defaultJudgeConfidence is used when the oracle omits or garbles the
// confidence field but the verdict itself is usable.
const defaultJudgeConfidence = 0.75

// Models wrap JSON in prose and code fences; grab the outermost block.
var jsonBlockPattern = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)

// judgmentPayload is the JSON shape the oracle is asked to produce
type judgmentPayload struct {
	Verdict       string   `json:"verdict"`
	Confidence    *float64 `json:"confidence"`
	Justification string   `json:"justification"`
}

// ParseJudgment extracts a Judgment from raw model output. The verdict
// must map onto the closed verdict set; anything else is an error so the
// caller can fail soft instead of storing junk.
func ParseJudgment(raw string) (*Judgment, error) {
	block, err := extractJSONBlock(raw)
	if err != nil {
		return nil, err
	}

	var payload judgmentPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return nil, fmt.Errorf("decode judgment: %w", err)
	}

	verdict, err := model.ParseVerdict(payload.Verdict)
	if err != nil {
		return nil, fmt.Errorf("judgment verdict: %w", err)
	}

	confidence := defaultJudgeConfidence
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &Judgment{
		Verdict:       string(verdict),
		Confidence:    confidence,
		Justification: strings.TrimSpace(payload.Justification),
		Raw:           raw,
	}, nil
}

// extractJSONBlock returns the first JSON object or array embedded in
// text. Tries the whole text first, then the outermost brace match.
func extractJSONBlock(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	match := jsonBlockPattern.FindString(text)
	if match == "" {
		return "", fmt.Errorf("no JSON block in model output")
	}
	if !json.Valid([]byte(match)) {
		return "", fmt.Errorf("model output contains malformed JSON")
	}
	return match, nil
}
