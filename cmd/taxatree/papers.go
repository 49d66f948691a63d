package main

import (
	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/pdfmeta"
	"github.com/evolab/taxatree/internal/pubs"
)

var (
	papersOffset int
	papersLimit  int
)

func init() {
	papersCmd.Flags().IntVar(&papersOffset, "offset", 0, "Result offset for pagination")
	papersCmd.Flags().IntVar(&papersLimit, "limit", pubs.DefaultPageSize, "Results per page")
	papersCmd.AddCommand(papersDOICmd)
	rootCmd.AddCommand(papersCmd)
}

var papersCmd = &cobra.Command{
	Use:   "papers <name>",
	Short: "List research literature about a taxon",
	Long: `Search the publication index for papers mentioning a taxon.

Each record carries title, authors, publication date, citation and
reference counts, venue, identifiers, and an open-access PDF link when
one exists.

Examples:
  taxatree papers "Felis catus"
  taxatree papers Felidae --offset 10 --limit 10
  taxatree papers doi ~/papers/felid-phylogeny.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPapers,
}

func runPapers(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := newPubsClient(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	page, err := client.Search(ctx, args[0], papersOffset, papersLimit)
	if err != nil {
		exitWithAPIError(err, "searching papers about %q", args[0])
	}

	if !humanOutput {
		return outputJSON(page)
	}

	if len(page.Data) == 0 {
		outputHuman("No papers match %q\n", args[0])
		return nil
	}
	for i, p := range page.Data {
		outputHuman("%d. %s\n", papersOffset+i+1, truncateString(p.Title, TitleMaxLen))
		outputHuman("   %s (%d)\n", formatAuthorsShort(p.Authors, 3), p.Year)
		if p.Journal != nil && p.Journal.Name != "" {
			outputHuman("   %s\n", p.Journal.Name)
		}
		outputHuman("   cited %d, cites %d\n", p.CitationCount, p.ReferenceCount)
		if doi := p.DOI(); doi != "" {
			outputHuman("   doi:%s\n", doi)
		}
		if link := p.PDFLink(); link != "" {
			outputHuman("   %s\n", link)
		}
		outputHuman("\n")
	}
	if page.HasMore() {
		outputHuman("More results: --offset %d\n", page.Next)
	}
	return nil
}

var papersDOICmd = &cobra.Command{
	Use:   "doi <pdf>",
	Short: "Match a local PDF to its publication record",
	Long: `Extract the DOI from a downloaded paper PDF and fetch its
publication record.

Examples:
  taxatree papers doi ~/papers/felid-phylogeny.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPapersDOI,
}

// PaperMatch pairs a local PDF with its resolved publication record.
type PaperMatch struct {
	PDF   string      `json:"pdf"`
	DOI   string      `json:"doi"`
	Paper *pubs.Paper `json:"paper"`
}

func runPapersDOI(cmd *cobra.Command, args []string) error {
	doi, err := pdfmeta.ExtractDOI(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}
	if doi == "" {
		exitWithError(ExitNotFound, "no DOI found in %s", args[0])
	}

	cfg := mustLoadConfig()
	client := newPubsClient(cfg)

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	paper, err := client.PaperByDOI(ctx, doi)
	if err != nil {
		exitWithAPIError(err, "looking up doi:%s", doi)
	}

	if !humanOutput {
		return outputJSON(PaperMatch{PDF: args[0], DOI: doi, Paper: paper})
	}

	outputHuman("%s\n", paper.Title)
	outputHuman("  %s (%d)\n", formatAuthorsShort(paper.Authors, 5), paper.Year)
	outputHuman("  doi:%s\n", doi)
	if paper.Abstract != "" {
		outputHuman("  %s\n", wrapText(paper.Abstract, AbstractWidth, "  "))
	}
	return nil
}
