package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/config"
	"github.com/wnk4242/lsr/internal/normalize"
	"github.com/wnk4242/lsr/internal/pubmed"
)

var (
	pubmedQuery     string
	pubmedRetmax    int
	pubmedStartYear int
	pubmedEndYear   int
	pubmedStage     string
	pubmedNoScrape  bool
)

func init() {
	f := pubmedCmd.Flags()
	f.StringVar(&pubmedQuery, "query", "", "PubMed query (Entrez syntax)")
	f.IntVar(&pubmedRetmax, "max", 500, "Maximum number of PMIDs to retrieve")
	f.IntVar(&pubmedStartYear, "start-year", 1900, "Publication date window start year")
	f.IntVar(&pubmedEndYear, "end-year", time.Now().Year(), "Publication date window end year")
	f.StringVar(&pubmedStage, "stage", "Title/abstract screening", "Review stage this search feeds")
	f.BoolVar(&pubmedNoScrape, "no-scrape", false, "Skip the article-page fallback for missing abstracts")
	pubmedCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(pubmedCmd)
}

var pubmedCmd = &cobra.Command{
	Use:   "pubmed <project>",
	Short: "Search PubMed and merge the results into a project",
	Long: `Search PubMed through the NCBI E-utilities and merge the results.

The query uses Entrez syntax and is combined with a publication date
window built from --start-year and --end-year. Records whose XML carries
no abstract fall back to scraping the article page, unless --no-scrape
is set.

Usage:
  lsr pubmed myreview --query "depression[MeSH] AND psilocybin"
  lsr pubmed myreview --query "crispr" --start-year 2020 --max 200`,
	Args: cobra.ExactArgs(1),
	RunE: runPubmed,
}

func runPubmed(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	requireProject(projectName)

	client := pubmed.NewClient(pubmed.WithEmail(config.GetEmail()))
	ctx := context.Background()

	page, err := client.Search(ctx, pubmedQuery, pubmedRetmax, pubmedStartYear, pubmedEndYear)
	if err != nil {
		exitWithError(ExitFetchError, "searching PubMed: %v", err)
	}

	var citations []pubmed.Citation
	if pubmedNoScrape {
		citations, err = client.Fetch(ctx, page.PMIDs)
	} else {
		citations, err = client.FetchWithFallback(ctx, page.PMIDs)
	}
	if err != nil {
		exitWithError(ExitFetchError, "fetching PubMed records: %v", err)
	}

	candidates := normalize.FromPubMed(citations)
	result := mergeIntoProject(projectName, "pubmed", pubmedQuery,
		pubmedStage, pubmedStartYear, pubmedEndYear, candidates)

	resp := MergeResponse{
		Project:      projectName,
		Database:     "pubmed",
		Fetched:      len(citations),
		TotalHits:    page.TotalHits,
		RecordsAdded: result.Added,
		SearchRound:  result.Round,
		DatasetSize:  result.Total,
	}
	if humanOutput {
		printMergeHuman(resp)
	} else {
		outputJSON(resp)
	}
	return nil
}
