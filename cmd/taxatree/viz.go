package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/appstate"
	"github.com/evolab/taxatree/internal/hierarchy"
	"github.com/evolab/taxatree/internal/spore"
	"github.com/evolab/taxatree/internal/taxon"
	"github.com/evolab/taxatree/internal/viz"
)

var (
	vizMode    string
	vizDisplay string
	vizLayout  string
	vizTheme   string
	vizSpore   string
	vizOutput  string
	vizOpen    bool
)

func init() {
	vizCmd.Flags().StringVarP(&vizMode, "mode", "m", "", "Taxonomy mode: descendants, neighbors, or mrca")
	vizCmd.Flags().StringVarP(&vizDisplay, "display", "d", "", "Display type: tree, graph, or pack")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "tree", "Graph layout: tree, circle, or grid")
	vizCmd.Flags().StringVar(&vizTheme, "theme", "", "Color theme: light or dark")
	vizCmd.Flags().StringVar(&vizSpore, "spore", "", "Render from an encoded spore instead of names")
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().BoolVar(&vizOpen, "open", false, "Open the result in a browser (requires --output)")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz [name]...",
	Short: "Visualize a taxonomy subtree",
	Long: `Build and render a taxonomy subtree for the named taxa.

Modes:
  descendants - the subtree below the first named taxon
  neighbors   - the first taxon's parent and everything below it
  mrca        - the subtree below the most recent common ancestor
                of all named taxa

Displays:
  tree  - collapsible HTML tree
  graph - interactive Cytoscape.js graph
  pack  - nested circle SVG sized by genome counts

Examples:
  taxatree viz Felidae > felidae.html
  taxatree viz "Felis catus" --mode neighbors --output cats.html --open
  taxatree viz "Felis catus" "Panthera leo" -m mrca -d graph -o cats.html
  taxatree viz --spore "9685.9689_mrca_graph" -o shared.html`,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	if vizSpore == "" && len(args) == 0 {
		exitWithError(ExitDataError, "no taxa selected: name at least one taxon or pass --spore")
	}
	if vizOpen && vizOutput == "" {
		exitWithError(ExitDataError, "--open requires --output")
	}

	cfg := mustLoadConfig()
	svc := newTaxonomyService(cfg)
	store := appstate.NewStore()

	store.TaxonomyType.Set(cfg.TaxonomyType(spore.TaxonomyDescendants))
	store.DisplayType.Set(cfg.DisplayType(spore.DisplayTree))
	if cfg.Theme == "dark" {
		store.Theme.Set(appstate.ThemeDark)
	}

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	if vizSpore != "" {
		sp, err := spore.Decode(vizSpore)
		if err != nil {
			exitWithError(ExitDataError, "decoding spore: %v", err)
		}
		if err := store.Hydrate(ctx, svc, sp); err != nil {
			exitWithAPIError(err, "hydrating spore")
		}
	} else {
		if vizMode != "" {
			tt, err := spore.ParseTaxonomyType(vizMode)
			if err != nil {
				exitWithError(ExitDataError, "%v", err)
			}
			store.TaxonomyType.Set(tt)
		}
		query := make([]*taxon.Taxon, len(args))
		for i, name := range args {
			query[i] = &taxon.Taxon{Name: name}
		}
		store.Query.Set(query)

		if err := store.Visualize(ctx, svc); err != nil {
			exitWithAPIError(err, "building tree")
		}
	}

	if vizDisplay != "" {
		dt, err := spore.ParseDisplayType(vizDisplay)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		store.DisplayType.Set(dt)
	}
	if vizTheme != "" {
		if vizTheme != "light" && vizTheme != "dark" {
			exitWithError(ExitDataError, "theme %q is not light or dark", vizTheme)
		}
		store.Theme.Set(appstate.Theme(vizTheme))
	}

	view := hierarchy.Build(store.Tree.Get(), nil)
	opts := viz.Options{
		Title:  vizTitle(store),
		Theme:  string(store.Theme.Get()),
		Layout: vizLayout,
	}

	doc, err := viz.Render(view, store.DisplayType.Get(), opts)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if vizOutput == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(vizOutput, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Visualization written to %s\n", vizOutput)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: vizOutput})
	}
	if vizOpen {
		if err := openBrowser(vizOutput); err != nil {
			return fmt.Errorf("opening browser: %w", err)
		}
	}
	return nil
}

func vizTitle(store *appstate.Store) string {
	names := store.QueryNames()
	if len(names) == 0 {
		return "Taxonomy"
	}
	title := names[0]
	if len(names) > 1 {
		title = fmt.Sprintf("%s and %d more", names[0], len(names)-1)
	}
	return title + " - " + string(store.TaxonomyType.Get())
}

// openBrowser opens a file with the platform's default handler.
func openBrowser(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "linux":
		return exec.Command("xdg-open", path).Start()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
