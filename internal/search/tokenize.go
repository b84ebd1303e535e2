package search

import (
	"strings"
	"unicode"
)

// stopWords are common English words carrying no claim-discriminating
// signal. Negations (not, no, never) are deliberately absent: they flip
// the meaning of a claim and must survive into the keyword set.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"if": {}, "then": {}, "else": {}, "when": {}, "while": {},
	"at": {}, "by": {}, "for": {}, "with": {}, "about": {},
	"into": {}, "through": {}, "during": {}, "before": {}, "after": {},
	"above": {}, "below": {}, "to": {}, "from": {}, "up": {}, "down": {},
	"in": {}, "out": {}, "on": {}, "off": {}, "over": {}, "under": {},
	"again": {}, "further": {}, "once": {}, "here": {}, "there": {},
	"all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "only": {},
	"own": {}, "same": {}, "so": {}, "than": {}, "too": {}, "very": {},
	"can": {}, "will": {}, "just": {}, "should": {}, "now": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "of": {}, "as": {}, "it": {}, "its": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "i": {}, "you": {}, "he": {},
	"she": {}, "they": {}, "we": {}, "what": {}, "which": {}, "who": {},
	"whom": {}, "whose": {}, "where": {}, "why": {}, "how": {},
}

// Tokenize splits text into lowercased alphanumeric terms. Digits are
// kept whole: years and quantities carry signal in factual claims.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Keywords returns the distinct salient terms of text in first-seen
// order: tokenized, case-folded, stop-words removed.
func Keywords(text string) []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

// KeywordSet returns the salient terms of text as a membership set.
func KeywordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, term := range Keywords(text) {
		set[term] = struct{}{}
	}
	return set
}
