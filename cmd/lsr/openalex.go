package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/config"
	"github.com/wnk4242/lsr/internal/normalize"
	"github.com/wnk4242/lsr/internal/openalex"
)

var (
	oaTitleTerms    []string
	oaAbstractTerms []string
	oaExcludeTerms  []string
	oaMaxPages      int
	oaStartYear     int
	oaEndYear       int
	oaStage         string
)

func init() {
	f := openalexCmd.Flags()
	f.StringSliceVar(&oaTitleTerms, "title", nil, "Terms to match in the title (OR-combined)")
	f.StringSliceVar(&oaAbstractTerms, "abstract", nil, "Terms to match in the abstract (OR-combined)")
	f.StringSliceVar(&oaExcludeTerms, "exclude-concept", nil, "Concept display names to exclude")
	f.IntVar(&oaMaxPages, "max-pages", openalex.DefaultMaxPages, "Maximum result pages to walk")
	f.IntVar(&oaStartYear, "start-year", 1900, "Search window start year (recorded, not filtered)")
	f.IntVar(&oaEndYear, "end-year", time.Now().Year(), "Search window end year (recorded, not filtered)")
	f.StringVar(&oaStage, "stage", "Title/abstract screening", "Review stage this search feeds")
	rootCmd.AddCommand(openalexCmd)
}

var openalexCmd = &cobra.Command{
	Use:   "openalex <project>",
	Short: "Search OpenAlex and merge the results into a project",
	Long: `Search the OpenAlex works endpoint and merge the results.

Title and abstract terms are OR-combined within each field; excluded
concepts drop works tagged with that concept. Results are walked with
cursor pagination up to --max-pages pages of 200 works each.

Usage:
  lsr openalex myreview --title "living systematic review" --title "living evidence"
  lsr openalex myreview --abstract psilocybin --exclude-concept Veterinary`,
	Args: cobra.ExactArgs(1),
	RunE: runOpenalex,
}

func runOpenalex(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	requireProject(projectName)

	if len(oaTitleTerms) == 0 && len(oaAbstractTerms) == 0 {
		exitWithError(ExitError, "pass at least one --title or --abstract term")
	}

	client := openalex.NewClient(
		openalex.WithAPIKey(config.GetOpenAlexAPIKey()),
		openalex.WithEmail(config.GetEmail()),
	)

	q := openalex.Query{
		TitleTerms:    oaTitleTerms,
		AbstractTerms: oaAbstractTerms,
		ExcludeTerms:  oaExcludeTerms,
		MaxPages:      oaMaxPages,
	}
	works, err := client.Search(context.Background(), q)
	if err != nil {
		exitWithError(ExitFetchError, "searching OpenAlex: %v", err)
	}

	strategy := q.FilterString()
	candidates := normalize.FromOpenAlex(works)
	result := mergeIntoProject(projectName, "openalex", strategy,
		oaStage, oaStartYear, oaEndYear, candidates)

	resp := MergeResponse{
		Project:      projectName,
		Database:     "openalex",
		Fetched:      len(works),
		RecordsAdded: result.Added,
		SearchRound:  result.Round,
		DatasetSize:  result.Total,
	}
	if humanOutput {
		printMergeHuman(resp)
		if len(oaExcludeTerms) > 0 {
			outputHuman("  Excluded concepts: %s\n", strings.Join(oaExcludeTerms, ", "))
		}
	} else {
		outputJSON(resp)
	}
	return nil
}
