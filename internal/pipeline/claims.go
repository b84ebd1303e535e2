package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/psethzp/rosti/internal/model"
)

// claimsFile is the envelope form of the on-disk claims artifact
type claimsFile struct {
	Topic  string        `json:"topic,omitempty"`
	Claims []model.Claim `json:"claims"`
}

// LoadClaims reads a claims artifact from disk. Both a bare claim array
// and an envelope object with a claims field are accepted.
func LoadClaims(path string) ([]model.Claim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}

	var claims []model.Claim
	if err := json.Unmarshal(data, &claims); err == nil {
		return normalizeClaims(claims, ""), nil
	}

	var envelope claimsFile
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse claims file: %w", err)
	}
	if envelope.Claims == nil {
		return nil, fmt.Errorf("claims file %s has no claims field", path)
	}
	return normalizeClaims(envelope.Claims, envelope.Topic), nil
}

// normalizeClaims backfills the fields hand-written claims files tend
// to omit.
func normalizeClaims(claims []model.Claim, topic string) []model.Claim {
	for i := range claims {
		if claims[i].ID == "" {
			claims[i].ID = fmt.Sprintf("claim-%03d", i+1)
		}
		if claims[i].Topic == "" {
			claims[i].Topic = topic
		}
		if claims[i].Status == "" {
			claims[i].Status = model.StatusDraft
		}
	}
	return claims
}
