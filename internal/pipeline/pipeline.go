package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/psethzp/rosti/internal/cache"
	"github.com/psethzp/rosti/internal/corpus"
	"github.com/psethzp/rosti/internal/llm"
	"github.com/psethzp/rosti/internal/model"
	"github.com/psethzp/rosti/internal/score"
	"github.com/psethzp/rosti/internal/validate"
)

// Pipeline wires the cache, corpus and verification engine into the
// review workflow the CLI drives
type Pipeline struct {
	config   *model.Config
	store    *cache.Store
	corpus   *corpus.PageStore
	engine   *validate.Engine
	scorer   *score.Scorer
	renderer *Renderer
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	store, err := cache.NewStore(cfg.Cache.Dir, cfg.Cache.Enabled)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	pages := corpus.NewPageStore(cfg.Corpus.Dir)

	// A misconfigured oracle downgrades the run instead of blocking it
	oracle, err := llm.NewProvider(llm.ConfigFromModel(cfg.Oracle))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: oracle disabled: %v\n", err)
		oracle = nil
	}

	return &Pipeline{
		config:   cfg,
		store:    store,
		corpus:   pages,
		engine:   validate.NewEngine(store, pages, oracle, cfg),
		scorer:   score.NewScorer(),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
	}, nil
}

// Engine exposes the verification engine for cache and search commands.
func (p *Pipeline) Engine() *validate.Engine {
	return p.engine
}

// Store exposes the cache store.
func (p *Pipeline) Store() *cache.Store {
	return p.store
}

// Corpus exposes the page store.
func (p *Pipeline) Corpus() *corpus.PageStore {
	return p.corpus
}

// ReviewFile loads a claims artifact and reviews every citation in it.
func (p *Pipeline) ReviewFile(ctx context.Context, claimsPath string) (*model.ReviewReport, error) {
	claims, err := LoadClaims(claimsPath)
	if err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}

	report := p.ReviewClaims(ctx, claims)
	report.ClaimsPath = claimsPath
	return report, nil
}

// ReviewClaims verifies every (claim, citation) pair and aggregates the
// outcomes into a report.
func (p *Pipeline) ReviewClaims(ctx context.Context, claims []model.Claim) *model.ReviewReport {
	var pairs []validate.Pair
	for _, claim := range claims {
		for _, span := range claim.Citations {
			pairs = append(pairs, validate.Pair{Claim: claim, Span: span})
		}
	}

	results := p.engine.VerifyBatch(ctx, pairs)

	reviewed := make([]model.ReviewedClaim, 0, len(claims))
	idx := 0
	for _, claim := range claims {
		spans := make([]model.SpanReview, 0, len(claim.Citations))
		for _, span := range claim.Citations {
			spans = append(spans, model.SpanReview{Span: span, Result: results[idx]})
			idx++
		}
		reviewed = append(reviewed, p.scorer.Aggregate(claim, spans))
	}

	stats := make(map[string]int)
	for ns, n := range p.engine.CacheStats() {
		stats[string(ns)] = n
	}

	return &model.ReviewReport{
		RunID:      uuid.NewString(),
		ReviewedAt: time.Now().UTC(),
		Claims:     reviewed,
		Summary:    p.scorer.Summarize(reviewed),
		CacheStats: stats,
	}
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.ReviewReport, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}
