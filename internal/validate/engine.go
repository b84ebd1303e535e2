package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/psethzp/rosti/internal/cache"
	"github.com/psethzp/rosti/internal/llm"
	"github.com/psethzp/rosti/internal/model"
)

var errOracleDisabled = errors.New("no oracle configured")

// Engine escalates each (claim, span) pair through the verification
// tiers: structural checks, then keyword overlap, then the LLM oracle.
// Cheap deterministic tiers run first and the oracle runs only when they
// are inconclusive. Every settled pair is memoized in the validations
// namespace, so re-verifying a pair never re-runs any tier.
type Engine struct {
	store      *cache.Store
	resolver   Resolver
	oracle     llm.Provider // nil when the oracle is disabled
	limiter    *rate.Limiter
	thresholds model.ThresholdConfig
	workers    int
	group      singleflight.Group
}

// NewEngine creates an engine over an explicit cache store, a page-text
// resolver, and an optional oracle provider.
func NewEngine(store *cache.Store, resolver Resolver, oracle llm.Provider, cfg *model.Config) *Engine {
	rps := cfg.Oracle.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Oracle.Burst
	if burst < 1 {
		burst = 1
	}
	workers := cfg.Concurrency.ReviewWorkers
	if workers <= 0 {
		workers = 8
	}

	return &Engine{
		store:      store,
		resolver:   resolver,
		oracle:     oracle,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		thresholds: cfg.Thresholds,
		workers:    workers,
	}
}

// Pair is one (claim, span) unit of verification work
type Pair struct {
	Claim model.Claim
	Span  model.EvidenceSpan
}

// Verify classifies one pair. It always returns a result: span problems
// become Contradicted verdicts and oracle failures degrade to the best
// cheaper-tier signal, so batch callers never stop on one bad pair.
func (e *Engine) Verify(ctx context.Context, claim model.Claim, span model.EvidenceSpan) model.ValidationResult {
	key := cache.ValidationKey(claim.Text, span)

	if res, ok := e.cachedResult(key); ok {
		return res
	}

	// Concurrent calls for the same pair share one escalation run.
	v, _, _ := e.group.Do(key, func() (interface{}, error) {
		if res, ok := e.cachedResult(key); ok {
			return res, nil
		}
		return e.escalate(ctx, claim, span, key), nil
	})
	return v.(model.ValidationResult)
}

// VerifyBatch verifies pairs concurrently. Results align with pairs by
// index. Identical pairs coalesce on the cache and the in-flight group
// rather than racing the tiers twice.
func (e *Engine) VerifyBatch(ctx context.Context, pairs []Pair) []model.ValidationResult {
	if len(pairs) == 0 {
		return []model.ValidationResult{}
	}

	results := make([]model.ValidationResult, len(pairs))
	var wg sync.WaitGroup

	// Semaphore bounds concurrent escalations
	semaphore := make(chan struct{}, e.workers)

	for i, pair := range pairs {
		wg.Add(1)
		go func(idx int, p Pair) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.ValidationResult{
					Verdict:  model.VerdictWeak,
					Reason:   "verification cancelled",
					Degraded: true,
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = e.Verify(ctx, p.Claim, p.Span)
		}(i, pair)
	}

	wg.Wait()
	return results
}

// CacheStats reports entry counts per cache namespace.
func (e *Engine) CacheStats() map[cache.Namespace]int {
	return e.store.Stats()
}

// ClearCache clears one namespace, or every namespace when ns is empty.
func (e *Engine) ClearCache(ns string) error {
	if ns == "" {
		return e.store.ClearAll()
	}
	namespace := cache.Namespace(ns)
	if !namespace.Valid() {
		return fmt.Errorf("unknown cache namespace %q (valid: %v)", ns, cache.Namespaces())
	}
	return e.store.Clear(namespace)
}

// cachedResult loads a memoized result. Entries whose verdict falls
// outside the closed set are ignored so the next settle overwrites them.
func (e *Engine) cachedResult(key string) (model.ValidationResult, bool) {
	var res model.ValidationResult
	if !e.store.GetJSON(cache.NamespaceValidations, key, &res) {
		return model.ValidationResult{}, false
	}
	if !res.Verdict.Valid() {
		return model.ValidationResult{}, false
	}
	return res, true
}

// escalate walks the tiers in cost order. The walk never revisits a tier
// and every exit memoizes exactly one validations entry.
func (e *Engine) escalate(ctx context.Context, claim model.Claim, span model.EvidenceSpan, key string) model.ValidationResult {
	f := checkStructural(span, e.resolver, e.thresholds.Tier1Confidence)
	if f.terminal {
		return e.settle(key, f.result(model.TierStructural, false))
	}

	f = checkKeyword(claim.Text, span.Quote, e.thresholds)
	if f.terminal {
		return e.settle(key, f.result(model.TierKeyword, false))
	}

	judgment, err := e.consultOracle(ctx, claim.Text, span.Quote)
	if err != nil {
		// Fail soft: the tier-2 signal stands, flagged degraded.
		res := f.result(model.TierOracle, true)
		res.Reason = fmt.Sprintf("oracle unavailable (%v); %s", err, f.reason)
		return e.settle(key, res)
	}

	verdict, perr := model.ParseVerdict(judgment.Verdict)
	if perr != nil {
		res := f.result(model.TierOracle, true)
		res.Reason = fmt.Sprintf("oracle verdict unusable (%v); %s", perr, f.reason)
		return e.settle(key, res)
	}

	reason := judgment.Justification
	if reason == "" {
		reason = "oracle judgment"
	}
	return e.settle(key, model.ValidationResult{
		Verdict:     verdict,
		Confidence:  judgment.Confidence,
		Reason:      reason,
		TierReached: model.TierOracle,
	})
}

// consultOracle returns a judgment for the pair, preferring the
// oracle_responses namespace over a live call. Live calls are rate
// limited and their judgments memoized.
func (e *Engine) consultOracle(ctx context.Context, claimText, evidenceText string) (*llm.Judgment, error) {
	if e.oracle == nil {
		return nil, errOracleDisabled
	}

	key := cache.OracleKey(claimText, evidenceText)
	var cached llm.Judgment
	if e.store.GetJSON(cache.NamespaceOracle, key, &cached) {
		if _, err := model.ParseVerdict(cached.Verdict); err == nil {
			return &cached, nil
		}
		// Unusable entry: fall through and overwrite it
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	judgment, err := e.oracle.Judge(ctx, llm.JudgeRequest{
		ClaimText:    claimText,
		EvidenceText: evidenceText,
	})
	if err != nil {
		return nil, err
	}

	if err := e.store.SetJSON(cache.NamespaceOracle, key, judgment); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cache oracle response: %v\n", err)
	}
	return judgment, nil
}

// settle memoizes a terminating result. A failed cache write costs
// durability, not the verdict.
func (e *Engine) settle(key string, res model.ValidationResult) model.ValidationResult {
	if err := e.store.SetJSON(cache.NamespaceValidations, key, res); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cache validation: %v\n", err)
	}
	return res
}
