package search

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/psethzp/rosti/internal/cache"
	"github.com/psethzp/rosti/internal/corpus"
)

const snippetRunes = 240

// Passage is one ranked search hit over the ingested corpus
type Passage struct {
	SourceID string  `json:"source_id"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

// Searcher ranks corpus pages against a query. Query results are
// memoized per (query, k) in the searches namespace, and page/query
// vectors per text in the embeddings namespace, so repeated searches
// re-embed nothing.
type Searcher struct {
	store    *cache.Store
	corpus   *corpus.PageStore
	embedder Embedder
	topK     int
}

// NewSearcher creates a searcher over a corpus and cache store.
func NewSearcher(store *cache.Store, pages *corpus.PageStore, embedder Embedder, topK int) *Searcher {
	if topK <= 0 {
		topK = 6
	}
	return &Searcher{
		store:    store,
		corpus:   pages,
		embedder: embedder,
		topK:     topK,
	}
}

// Search returns the k best-matching passages for query. Embedding
// similarity ranks when the backend cooperates; keyword scoring is the
// fallback, so a search always produces an answer.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if k <= 0 {
		k = s.topK
	}

	key := cache.SearchKey(query, k)
	var cached []Passage
	if s.store.GetJSON(cache.NamespaceSearches, key, &cached) {
		return cached, nil
	}

	pages, err := s.loadPages()
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return []Passage{}, nil
	}

	passages, err := s.rankByEmbedding(ctx, query, pages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: embedding search failed (%v); falling back to keyword scoring\n", err)
		passages = rankByKeywords(query, pages)
	}

	sortPassages(passages)
	if len(passages) > k {
		passages = passages[:k]
	}

	if err := s.store.SetJSON(cache.NamespaceSearches, key, passages); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cache search results: %v\n", err)
	}
	return passages, nil
}

// corpusPage is one scoring candidate
type corpusPage struct {
	sourceID string
	page     int
	text     string
}

// loadPages flattens the corpus into per-page candidates in stable order.
func (s *Searcher) loadPages() ([]corpusPage, error) {
	ids, err := s.corpus.Sources()
	if err != nil {
		return nil, err
	}

	var pages []corpusPage
	for _, id := range ids {
		doc, err := s.corpus.Load(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping unreadable source %s: %v\n", id, err)
			continue
		}
		for i, text := range doc.Pages {
			pages = append(pages, corpusPage{sourceID: id, page: i + 1, text: text})
		}
	}
	return pages, nil
}

// rankByEmbedding scores every page by cosine similarity to the query.
func (s *Searcher) rankByEmbedding(ctx context.Context, query string, pages []corpusPage) ([]Passage, error) {
	queryVec, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var passages []Passage
	for _, p := range pages {
		pageVec, err := s.embed(ctx, p.text)
		if err != nil {
			return nil, err
		}
		score := cosine(queryVec, pageVec)
		if math.IsNaN(score) {
			continue
		}
		passages = append(passages, Passage{
			SourceID: p.sourceID,
			Page:     p.page,
			Score:    score,
			Snippet:  snippet(p.text),
		})
	}
	return passages, nil
}

// rankByKeywords scores every page by how many distinct query terms it
// contains. Pages sharing no terms are dropped.
func rankByKeywords(query string, pages []corpusPage) []Passage {
	queryTerms := Keywords(query)
	if len(queryTerms) == 0 {
		return []Passage{}
	}

	var passages []Passage
	for _, p := range pages {
		pageSet := KeywordSet(p.text)
		hits := 0
		for _, term := range queryTerms {
			if _, ok := pageSet[term]; ok {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		passages = append(passages, Passage{
			SourceID: p.sourceID,
			Page:     p.page,
			Score:    float64(hits),
			Snippet:  snippet(p.text),
		})
	}
	return passages
}

// embed returns the memoized vector for text, computing and caching it
// on first sight.
func (s *Searcher) embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.EmbeddingKey(text)
	var vec []float32
	if s.store.GetJSON(cache.NamespaceEmbeddings, key, &vec) && len(vec) > 0 {
		return vec, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetJSON(cache.NamespaceEmbeddings, key, vec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cache embedding: %v\n", err)
	}
	return vec, nil
}

// sortPassages orders by score descending, then source and page so equal
// scores rank deterministically.
func sortPassages(passages []Passage) {
	sort.Slice(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		if passages[i].SourceID != passages[j].SourceID {
			return passages[i].SourceID < passages[j].SourceID
		}
		return passages[i].Page < passages[j].Page
	})
}

// cosine computes cosine similarity; NaN when either vector is zero.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return math.NaN()
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// snippet returns the leading text of a page, cut at a rune boundary.
func snippet(text string) string {
	if utf8.RuneCountInString(text) <= snippetRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:snippetRunes]) + "..."
}
