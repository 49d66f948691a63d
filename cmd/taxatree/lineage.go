package main

import (
	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/taxon"
)

func init() {
	rootCmd.AddCommand(lineageCmd)
}

var lineageCmd = &cobra.Command{
	Use:   "lineage <name> <name>",
	Short: "Show the lineage path connecting two taxa",
	Long: `Resolve two scientific names and print the taxa on the path
connecting them through their common ancestor.

Examples:
  taxatree lineage "Felis catus" "Panthera leo"
  taxatree lineage "Homo sapiens" "Mus musculus" --human`,
	Args: cobra.ExactArgs(2),
	RunE: runLineage,
}

// LineageResponse is the lineage command's JSON output.
type LineageResponse struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Path []*taxon.Taxon `json:"path"`
}

func runLineage(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	svc := newTaxonomyService(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	path, err := svc.Lineage(ctx, args[0], args[1])
	if err != nil {
		exitWithAPIError(err, "resolving lineage %s .. %s", args[0], args[1])
	}

	if !humanOutput {
		return outputJSON(LineageResponse{From: args[0], To: args[1], Path: path})
	}

	for i, t := range path {
		indent := ""
		if i > 0 {
			indent = "  "
		}
		outputHuman("%s%s [%s]\n", indent, t.Label(), t.Rank)
	}
	return nil
}
