// Package main provides the taxatree CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/config"
	"github.com/evolab/taxatree/internal/neverapi"
	"github.com/evolab/taxatree/internal/pubs"
	"github.com/evolab/taxatree/internal/storage"
	"github.com/evolab/taxatree/internal/taxonomy"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taxatree",
	Short: "Taxonomy explorer CLI",
	Long: `taxatree explores the tree of life from the command line.

Core features:
  - Search taxa and inspect genome assembly counts
  - Visualize descendants, neighbors, or common-ancestor subtrees
    as an HTML tree, interactive graph, or circle-pack SVG
  - Look up the research literature about a taxon
  - Share application state as compact spores

Saved spores live in git-versionable JSONL with ephemeral SQLite for
queries. All commands output JSON by default for agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for PUBS_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig loads the global config, exits on error.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newTaxonomyClient builds the taxonomy API client from config.
func newTaxonomyClient(cfg *config.GlobalConfig) *neverapi.Client {
	opts := []neverapi.ClientOption{
		neverapi.WithRetry(
			cfg.Retries(neverapi.DefaultMaxRetries),
			cfg.RetryDelay(neverapi.DefaultRetryDelay),
		),
	}
	if cfg.TaxonomyBaseURL != "" {
		opts = append(opts, neverapi.WithBaseURL(cfg.TaxonomyBaseURL))
	}
	return neverapi.NewClient(opts...)
}

// newTaxonomyService builds the taxonomy service from config.
func newTaxonomyService(cfg *config.GlobalConfig) *taxonomy.Service {
	return taxonomy.NewService(newTaxonomyClient(cfg))
}

// newPubsClient builds the publication API client from config. The API key
// comes from config or the PUBS_API_KEY environment variable.
func newPubsClient(cfg *config.GlobalConfig) *pubs.Client {
	opts := []pubs.ClientOption{
		pubs.WithRetry(
			cfg.Retries(pubs.DefaultMaxRetries),
			cfg.RetryDelay(pubs.DefaultRetryDelay),
		),
	}
	if cfg.PubsBaseURL != "" {
		opts = append(opts, pubs.WithBaseURL(cfg.PubsBaseURL))
	}
	key := cfg.PubsAPIKey
	if key == "" {
		key = os.Getenv("PUBS_API_KEY")
	}
	if key != "" {
		opts = append(opts, pubs.WithAPIKey(key))
	}
	return pubs.NewClient(opts...)
}

// mustOpenSporeDB opens the ephemeral spore index rebuilt from the JSONL
// ledger. The caller is responsible for calling Close() on the returned DB.
func mustOpenSporeDB(cfg *config.GlobalConfig) *storage.DB {
	if err := os.MkdirAll(filepath.Dir(cfg.CacheDBPath()), 0755); err != nil {
		exitWithError(ExitError, "creating data directory: %v", err)
	}
	db, err := storage.OpenDB(cfg.CacheDBPath())
	if err != nil {
		exitWithError(ExitError, "opening spore index: %v", err)
	}
	if _, err := db.RebuildFromJSONL(cfg.SporesPath()); err != nil {
		db.Close()
		exitWithError(ExitError, "indexing spores: %v", err)
	}
	return db
}

// requestTimeout bounds every remote call issued by a command.
const requestTimeout = 2 * time.Minute

// contextWithTimeout derives a bounded context for a command's remote calls.
func contextWithTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}
