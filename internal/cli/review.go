package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psethzp/rosti/internal/model"
	"github.com/psethzp/rosti/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	timeout        time.Duration
	cacheDir       string
	corpusDir      string
	noCache        bool
	noFooter       bool
	reviewWorkers  int
	oracleEnabled  bool
	oracleProvider string
	oracleModel    string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <claims.json>",
	Short: "Review the citations of a claims file against the corpus",
	Long: `Review verifies every citation of every claim in a claims file:
- Check each quoted span against the text of its cited page
- Escalate unsettled pairs through keyword overlap to the LLM oracle
- Aggregate span verdicts into per-claim verdicts
- Generate transparent, explainable reports

Example:
  rosti review claims.json
  rosti review claims.json --json report.json --md report.md
  rosti review claims.json --oracle --oracle-provider openai --oracle-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	// Output flags
	reviewCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	reviewCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Store flags
	reviewCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall review timeout (increase for large claim sets with the oracle enabled)")
	reviewCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: .rosti/cache)")
	reviewCmd.Flags().StringVar(&corpusDir, "corpus-dir", "", "corpus directory (default: .rosti/corpus)")
	reviewCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache persistence (memoize in memory only)")
	reviewCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	reviewCmd.Flags().IntVar(&reviewWorkers, "workers", 0, "verification workers (0 uses the configured count)")

	// Oracle flags
	reviewCmd.Flags().BoolVar(&oracleEnabled, "oracle", false, "enable the LLM oracle tier")
	reviewCmd.Flags().StringVar(&oracleProvider, "oracle-provider", "openai", "oracle provider (openai, anthropic, ollama)")
	reviewCmd.Flags().StringVar(&oracleModel, "oracle-model", "gpt-4o-mini", "oracle model name")
}

func runReview(cmd *cobra.Command, args []string) error {
	claimsPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Reviewing: %s\n", claimsPath)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Verifying citation pairs...\n")
	}

	report, err := p.ReviewFile(ctx, claimsPath)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Reviewed %d claims (%d spans)\n", report.Summary.Claims, report.Summary.Spans)
		if report.Summary.Degraded > 0 {
			fmt.Fprintf(os.Stderr, "! %d spans degraded: oracle unavailable\n", report.Summary.Degraded)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig layers the run configuration: defaults, then the config
// file and ROSTI_* environment via viper, then flags on top.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if reviewWorkers > 0 {
		cfg.Concurrency.ReviewWorkers = reviewWorkers
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if oracleEnabled {
		if err := applyOracleEnv(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyOracleEnv enables the oracle tier, pulling credentials from the
// provider's conventional environment variables.
func applyOracleEnv(cfg *model.Config) error {
	cfg.Oracle.Provider = oracleProvider
	cfg.Oracle.Model = oracleModel

	switch oracleProvider {
	case "openai":
		cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Oracle.BaseURL = baseURL
		}
	}

	return nil
}
