package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/arxiv"
	"github.com/wnk4242/lsr/internal/normalize"
)

var (
	arxivQuery     string
	arxivMax       int
	arxivStartYear int
	arxivEndYear   int
	arxivStage     string
)

func init() {
	f := arxivCmd.Flags()
	f.StringVar(&arxivQuery, "query", "", "arXiv API search query (e.g. 'all:electron AND cat:cs.LG')")
	f.IntVar(&arxivMax, "max", arxiv.DefaultMaxResults, "Maximum number of entries to retrieve")
	f.IntVar(&arxivStartYear, "start-year", 1900, "Search window start year (recorded, not filtered)")
	f.IntVar(&arxivEndYear, "end-year", time.Now().Year(), "Search window end year (recorded, not filtered)")
	f.StringVar(&arxivStage, "stage", "Title/abstract screening", "Review stage this search feeds")
	arxivCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(arxivCmd)
}

var arxivCmd = &cobra.Command{
	Use:   "arxiv <project>",
	Short: "Search arXiv and merge the results into a project",
	Long: `Search the arXiv API and merge the results, newest submissions first.

Usage:
  lsr arxiv myreview --query "all:\"living systematic review\""
  lsr arxiv myreview --query "cat:stat.ME AND all:meta-analysis" --max 100`,
	Args: cobra.ExactArgs(1),
	RunE: runArxiv,
}

func runArxiv(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	requireProject(projectName)

	client := arxiv.NewClient()
	entries, err := client.Search(context.Background(), arxivQuery, arxivMax, 0)
	if err != nil {
		exitWithError(ExitFetchError, "searching arXiv: %v", err)
	}

	candidates := normalize.FromArxiv(entries)
	result := mergeIntoProject(projectName, "arxiv", arxivQuery,
		arxivStage, arxivStartYear, arxivEndYear, candidates)

	resp := MergeResponse{
		Project:      projectName,
		Database:     "arxiv",
		Fetched:      len(entries),
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
