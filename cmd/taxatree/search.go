package main

import (
	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/neverapi"
)

var (
	searchExact    bool
	searchPage     int
	searchPageSize int
)

func init() {
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "Match the term exactly instead of as a prefix")
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "Result page to fetch")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", neverapi.DefaultPageSize, "Results per page")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search taxa by scientific or common name",
	Long: `Search the taxonomy for taxa matching a term.

By default the term matches as a prefix, which suits incremental
suggestion-style lookups. An empty result is not an error.

Examples:
  taxatree search Felis
  taxatree search "Felis catus" --exact
  taxatree search Pan --page 2 --page-size 50`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// SearchResponse is the search command's JSON output.
type SearchResponse struct {
	Term    string           `json:"term"`
	Page    int              `json:"page"`
	Results []neverapi.Entry `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := newTaxonomyClient(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	entries, err := client.Search(ctx, args[0], searchExact, searchPage, searchPageSize)
	if err != nil {
		exitWithAPIError(err, "searching for %q", args[0])
	}

	if !humanOutput {
		return outputJSON(SearchResponse{Term: args[0], Page: searchPage, Results: entries})
	}

	if len(entries) == 0 {
		outputHuman("No taxa match %q\n", args[0])
		return nil
	}
	for _, e := range entries {
		label := e.Name
		if e.CommonName != "" {
			label += " (" + e.CommonName + ")"
		}
		outputHuman("%d  %s  [%s]\n", e.TaxID, label, e.Rank)
	}
	return nil
}
