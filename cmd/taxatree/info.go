package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/taxon"
)

var infoWithAccessions bool

func init() {
	infoCmd.Flags().BoolVar(&infoWithAccessions, "accessions", false, "Include genome assembly accessions")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <taxid>...",
	Short: "Show full records for one or more taxa",
	Long: `Fetch the full taxonomy records for the given taxon ids, including
genome assembly counts per level.

Examples:
  taxatree info 9685
  taxatree info 9685 9689 --accessions
  taxatree info 9681 --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

// TaxonInfo is one taxon in the info command's JSON output.
type TaxonInfo struct {
	*taxon.Taxon
	TotalGenomes int               `json:"total_genomes"`
	Accessions   []taxon.Accession `json:"accessions,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			exitWithError(ExitDataError, "invalid taxon id %q", arg)
		}
		ids[i] = id
	}

	cfg := mustLoadConfig()
	client := newTaxonomyClient(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	taxa, err := client.InfoByIDs(ctx, ids...)
	if err != nil {
		exitWithAPIError(err, "fetching taxa %v", ids)
	}

	infos := make([]TaxonInfo, len(taxa))
	for i, t := range taxa {
		infos[i] = TaxonInfo{Taxon: t, TotalGenomes: t.TotalGenomes()}
		if infoWithAccessions {
			accs, err := client.AccessionsByID(ctx, t.ID)
			if err != nil {
				exitWithAPIError(err, "fetching accessions for %d", t.ID)
			}
			infos[i].Accessions = accs
		}
	}

	if !humanOutput {
		return outputJSON(infos)
	}

	for _, info := range infos {
		outputHuman("%d  %s  [%s]\n", info.ID, info.Label(), info.Rank)
		outputHuman("  Genomes: %d\n", info.TotalGenomes)
		for _, acc := range info.Accessions {
			outputHuman("  %s (%s)\n", acc.Accession, acc.Level)
		}
	}
	return nil
}
