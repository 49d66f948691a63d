package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/spore"
	"github.com/evolab/taxatree/internal/storage"
)

var (
	sporeEncodeMode    string
	sporeEncodeDisplay string
	sporeSaveName      string
	sporeListLimit     int
)

func init() {
	sporeEncodeCmd.Flags().StringVarP(&sporeEncodeMode, "mode", "m", "descendants", "Taxonomy mode: descendants, neighbors, or mrca")
	sporeEncodeCmd.Flags().StringVarP(&sporeEncodeDisplay, "display", "d", "tree", "Display type: tree, graph, or pack")
	sporeSaveCmd.Flags().StringVarP(&sporeSaveName, "name", "n", "", "Name for the saved spore (default: first taxon)")
	sporeListCmd.Flags().IntVar(&sporeListLimit, "limit", DefaultSearchLimit, "Maximum results to return")

	sporeCmd.AddCommand(sporeEncodeCmd)
	sporeCmd.AddCommand(sporeDecodeCmd)
	sporeCmd.AddCommand(sporeSaveCmd)
	sporeCmd.AddCommand(sporeListCmd)
	rootCmd.AddCommand(sporeCmd)
}

var sporeCmd = &cobra.Command{
	Use:   "spore",
	Short: "Encode, decode, and save shareable state spores",
	Long: `A spore is a compact encoding of an application state: which taxa
are selected, the taxonomy mode, and the display type. Spores paste
into URLs and restore the same visualization on any machine.

All commands output JSON by default for agent consumption.
Use --human flag for human-readable output.`,
}

var sporeEncodeCmd = &cobra.Command{
	Use:   "encode <name>...",
	Short: "Encode a selection into a spore",
	Long: `Resolve the named taxa and encode them, with the mode and display
selections, into a spore string.

Examples:
  taxatree spore encode Felidae
  taxatree spore encode "Felis catus" "Panthera leo" -m mrca -d graph`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSporeEncode,
}

// SporeResponse is the encode command's JSON output.
type SporeResponse struct {
	Encoded string   `json:"encoded"`
	Taxa    []string `json:"taxa"`
}

func runSporeEncode(cmd *cobra.Command, args []string) error {
	tt, err := spore.ParseTaxonomyType(sporeEncodeMode)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	dt, err := spore.ParseDisplayType(sporeEncodeDisplay)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	cfg := mustLoadConfig()
	client := newTaxonomyClient(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	ids := make([]int64, len(args))
	for i, name := range args {
		t, err := client.TaxonByName(ctx, name)
		if err != nil {
			exitWithAPIError(err, "resolving %q", name)
		}
		ids[i] = t.ID
	}

	sp := spore.Spore{TaxonIDs: ids, TaxonomyType: tt, DisplayType: dt}
	if !humanOutput {
		return outputJSON(SporeResponse{Encoded: sp.Encode(), Taxa: args})
	}
	outputHuman("%s\n", sp.Encode())
	return nil
}

var sporeDecodeCmd = &cobra.Command{
	Use:   "decode <encoded>",
	Short: "Decode a spore and resolve its taxa",
	Long: `Decode a spore string and resolve the taxon ids back to names.

Examples:
  taxatree spore decode "9685.9689_mrca_graph"`,
	Args: cobra.ExactArgs(1),
	RunE: runSporeDecode,
}

// DecodedSpore is the decode command's JSON output.
type DecodedSpore struct {
	TaxonIDs     []int64  `json:"taxon_ids"`
	Taxa         []string `json:"taxa"`
	TaxonomyType string   `json:"taxonomy_type"`
	DisplayType  string   `json:"display_type"`
}

func runSporeDecode(cmd *cobra.Command, args []string) error {
	sp, err := spore.Decode(args[0])
	if err != nil {
		exitWithError(ExitDataError, "decoding spore: %v", err)
	}

	cfg := mustLoadConfig()
	svc := newTaxonomyService(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	names, err := svc.ResolveNames(ctx, sp.TaxonIDs)
	if err != nil {
		exitWithAPIError(err, "resolving taxa")
	}

	out := DecodedSpore{
		TaxonIDs:     sp.TaxonIDs,
		Taxa:         names,
		TaxonomyType: string(sp.TaxonomyType),
		DisplayType:  string(sp.DisplayType),
	}
	if !humanOutput {
		return outputJSON(out)
	}
	for i, name := range names {
		outputHuman("%d  %s\n", sp.TaxonIDs[i], name)
	}
	outputHuman("mode: %s, display: %s\n", sp.TaxonomyType, sp.DisplayType)
	return nil
}

var sporeSaveCmd = &cobra.Command{
	Use:   "save <encoded>",
	Short: "Save a spore to the local ledger",
	Long: `Validate a spore, resolve its taxa, and append it to the saved
spores ledger. Names are made unique by suffixing -2, -3, and so on.

Examples:
  taxatree spore save "9685.9689_mrca_graph" --name cat-vs-lion`,
	Args: cobra.ExactArgs(1),
	RunE: runSporeSave,
}

func runSporeSave(cmd *cobra.Command, args []string) error {
	sp, err := spore.Decode(args[0])
	if err != nil {
		exitWithError(ExitDataError, "decoding spore: %v", err)
	}

	cfg := mustLoadConfig()
	svc := newTaxonomyService(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	names, err := svc.ResolveNames(ctx, sp.TaxonIDs)
	if err != nil {
		exitWithAPIError(err, "resolving taxa")
	}

	existing, err := storage.ReadAll(cfg.SporesPath())
	if err != nil {
		exitWithError(ExitError, "reading spores ledger: %v", err)
	}

	base := sporeSaveName
	if base == "" {
		base = names[0]
	}
	saved := storage.SavedSpore{
		Name:    storage.GenerateUniqueName(existing, base),
		Encoded: args[0],
		Taxa:    names,
		SavedAt: time.Now().UTC(),
	}
	if err := storage.Append(cfg.SporesPath(), saved); err != nil {
		exitWithError(ExitError, "saving spore: %v", err)
	}

	if !humanOutput {
		return outputJSON(saved)
	}
	outputHuman("Saved %s (%s)\n", saved.Name, saved.Encoded)
	return nil
}

var sporeListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List or search saved spores",
	Long: `List saved spores, newest first. With a query, search spore names
and their taxa.

Examples:
  taxatree spore list
  taxatree spore list Panthera`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSporeList,
}

func runSporeList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenSporeDB(cfg)
	defer db.Close()

	var spores []storage.SavedSpore
	var err error
	if len(args) > 0 {
		spores, err = db.Search(args[0], sporeListLimit)
	} else {
		spores, err = db.ListAll(sporeListLimit)
	}
	if err != nil {
		exitWithError(ExitError, "listing spores: %v", err)
	}

	if !humanOutput {
		if spores == nil {
			spores = []storage.SavedSpore{}
		}
		return outputJSON(spores)
	}

	if len(spores) == 0 {
		outputHuman("No saved spores\n")
		return nil
	}
	for _, s := range spores {
		outputHuman("%s  %s\n", s.Name, s.Encoded)
		if len(s.Taxa) > 0 {
			outputHuman("  %s\n", strings.Join(s.Taxa, ", "))
		}
	}
	return nil
}
