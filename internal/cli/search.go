package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/psethzp/rosti/internal/cache"
	"github.com/psethzp/rosti/internal/corpus"
	"github.com/psethzp/rosti/internal/model"
	"github.com/psethzp/rosti/internal/search"
)

var (
	searchTopK    int
	embedProvider string
	embedModel    string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the ingested corpus for matching passages",
	Long: `Search ranks corpus pages against a query. With no embed provider
configured the ranking uses a deterministic offline embedding; with
--embed-provider openai the OpenAI embeddings API is used (requires
OPENAI_API_KEY).

Query vectors and results are cached, so repeated searches cost nothing.

Example:
  rosti search "water levels in 2020"
  rosti search "dam inspection" --top-k 3
  rosti search "storm damage" --embed-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchTopK, "top-k", 0, "max passages to return (0 uses the configured default)")
	searchCmd.Flags().StringVar(&embedProvider, "embed-provider", "", "embedding backend (openai, or empty for deterministic)")
	searchCmd.Flags().StringVar(&embedModel, "embed-model", "", "embedding model name")
	searchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: .rosti/cache)")
	searchCmd.Flags().StringVar(&corpusDir, "corpus-dir", "", "corpus directory (default: .rosti/corpus)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := model.DefaultConfig()
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}
	if searchTopK > 0 {
		cfg.Search.TopK = searchTopK
	}
	if embedProvider != "" {
		cfg.Search.EmbedProvider = embedProvider
	}
	if embedModel != "" {
		cfg.Search.EmbedModel = embedModel
	}

	store, err := cache.NewStore(cfg.Cache.Dir, cfg.Cache.Enabled)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	embedder, err := search.NewEmbedder(cfg.Search, os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"))
	if err != nil {
		return err
	}

	searcher := search.NewSearcher(store, corpus.NewPageStore(cfg.Corpus.Dir), embedder, cfg.Search.TopK)

	passages, err := searcher.Search(ctx, query, cfg.Search.TopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(passages) == 0 {
		fmt.Println("No matching passages (is the corpus ingested?)")
		return nil
	}

	for i, passage := range passages {
		fmt.Printf("%2d. %s p%d (score %.3f)\n", i+1, passage.SourceID, passage.Page, passage.Score)
		if passage.Snippet != "" {
			fmt.Printf("    %s\n", passage.Snippet)
		}
	}

	return nil
}
