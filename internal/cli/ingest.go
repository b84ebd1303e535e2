package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/psethzp/rosti/internal/corpus"
	"github.com/psethzp/rosti/internal/ingest"
	"github.com/psethzp/rosti/internal/model"
)

var (
	ingestSourceID string
	ingestTimeout  time.Duration
	ingestWorkers  int
	noRobots       bool
	userAgent      string
	maxBytes       int64
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <path-or-url>...",
	Short: "Ingest source documents into the corpus",
	Long: `Ingest loads source documents so claim citations can resolve against
their page text:
- Local .txt, .md, .json and .html files
- Remote URLs (robots.txt is honored unless disabled)

Each source is stored under a stable source id that claims reference
via source_id. Re-ingesting an id overwrites the stored document.

Example:
  rosti ingest flood_report.txt
  rosti ingest https://example.org/report.html
  rosti ingest notes.md --source-id field-notes
  rosti ingest reports/*.md --workers 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestSourceID, "source-id", "", "source id override (single source only)")
	ingestCmd.Flags().StringVar(&corpusDir, "corpus-dir", "", "corpus directory (default: .rosti/corpus)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 2*time.Minute, "total ingest timeout")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 4, "concurrent downloads")
	ingestCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt (local mirrors only)")
	ingestCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	ingestCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read (0 uses the default cap)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestSourceID != "" && len(args) != 1 {
		return fmt.Errorf("--source-id applies to a single source, got %d", len(args))
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	cfg.HTTP.RespectRobots = !noRobots

	store := corpus.NewPageStore(cfg.Corpus.Dir)
	ingester := ingest.NewIngester(store, cfg.HTTP)

	// Single source: honor the explicit id and fail hard
	if len(args) == 1 {
		doc, err := ingester.Ingest(ctx, args[0], ingestSourceID)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", args[0], err)
		}
		fmt.Printf("✓ %s ingested as %s (%d pages)\n", args[0], doc.SourceID, len(doc.Pages))
		return nil
	}

	results := ingester.IngestAll(ctx, args, ingestWorkers)

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Arg, res.Err)
			continue
		}
		fmt.Printf("✓ %s ingested as %s (%d pages)\n", res.Arg, res.Document.SourceID, len(res.Document.Pages))
	}

	if failures == len(results) {
		return fmt.Errorf("all %d sources failed", failures)
	}
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d sources failed\n", failures, len(results))
	}
	return nil
}
