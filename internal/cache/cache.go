package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/psethzp/rosti/internal/model"
)

// Namespace partitions the store by payload kind. Entries in different
// namespaces never collide even when their derivation inputs match.
type Namespace string

const (
	NamespaceEmbeddings  Namespace = "embeddings"       // Text -> embedding vector
	NamespaceSearches    Namespace = "searches"         // Query -> ranked passage list
	NamespaceValidations Namespace = "validations"      // (claim, span) -> verification outcome
	NamespaceOracle      Namespace = "oracle_responses" // (claim, evidence) -> oracle judgment
)

// Namespaces lists every namespace the store manages, in stable order.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceEmbeddings,
		NamespaceSearches,
		NamespaceValidations,
		NamespaceOracle,
	}
}

// Valid reports whether ns is one of the managed namespaces.
func (ns Namespace) Valid() bool {
	switch ns {
	case NamespaceEmbeddings, NamespaceSearches, NamespaceValidations, NamespaceOracle:
		return true
	}
	return false
}

// Key derives a deterministic cache key from the given parts. Parts are
// hashed with a separator so ("ab","c") and ("a","bc") never collide.
func Key(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return "rosti:v1:" + hex.EncodeToString(h.Sum(nil))
}

// ValidationKey identifies one (claim text, evidence span) verification
// outcome. The quote text participates: edit the quote and the pair is a
// different question with its own cache entry.
func ValidationKey(claimText string, span model.EvidenceSpan) string {
	return Key(
		"validation",
		claimText,
		span.SourceID,
		strconv.Itoa(span.Page),
		strconv.Itoa(span.CharStart),
		strconv.Itoa(span.CharEnd),
		span.Quote,
	)
}

// OracleKey identifies one (claim text, evidence text) oracle judgment.
func OracleKey(claimText, evidenceText string) string {
	return Key("oracle", claimText, evidenceText)
}

// SearchKey identifies one retrieval query at a given result depth.
func SearchKey(query string, k int) string {
	return Key("search", query, strconv.Itoa(k))
}

// EmbeddingKey identifies the embedding of one piece of text.
func EmbeddingKey(text string) string {
	return Key("embedding", text)
}
