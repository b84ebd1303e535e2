package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psethzp/rosti/internal/cache"
	"github.com/psethzp/rosti/internal/model"
)

// cacheCmd represents the cache command group
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the verification cache",
	Long: `The cache persists embeddings, search results, settled validations
and oracle responses under the cache directory. Entries survive between
runs; re-reviewing unchanged claims re-runs no tier and pays for no
oracle call.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts per cache namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		stats := store.Stats()
		total := 0

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  Cache")
		fmt.Println("═══════════════════════════════════════")
		for _, ns := range cache.Namespaces() {
			fmt.Printf("  %-18s %d\n", ns, stats[ns])
			total += stats[ns]
		}
		fmt.Println("───────────────────────────────────────")
		fmt.Printf("  %-18s %d\n", "total", total)

		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [namespace]",
	Short: "Clear one cache namespace, or all of them",
	Long: `Clear removes cached entries. With a namespace argument only that
namespace is cleared; without one the whole cache is dropped.

Valid namespaces: embeddings, searches, validations, oracle_responses.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if err := store.ClearAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Println("✓ Cleared all cache namespaces")
			return nil
		}

		ns := cache.Namespace(args[0])
		if !ns.Valid() {
			return fmt.Errorf("unknown cache namespace %q (valid: %v)", args[0], cache.Namespaces())
		}
		if err := store.Clear(ns); err != nil {
			return fmt.Errorf("clear namespace: %w", err)
		}
		fmt.Printf("✓ Cleared namespace %s\n", ns)

		return nil
	},
}

// openStore opens the persistent cache store honoring the cache-dir flag
func openStore() (*cache.Store, error) {
	dir := model.DefaultConfig().Cache.Dir
	if cacheDir != "" {
		dir = cacheDir
	}

	store, err := cache.NewStore(dir, true)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: .rosti/cache)")
}
