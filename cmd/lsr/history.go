package main

import (
	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/project"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <project>",
	Short: "Show the project's search register",
	Long: `Show every search that has been merged into the project, in order:
database, strategy, year window, run date, round, and records added.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

// HistoryResponse is the JSON shape for the history command.
type HistoryResponse struct {
	Project  string                `json:"project"`
	Searches []project.SearchEntry `json:"searches"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	requireProject(projectName)

	meta, err := project.LoadMetadata(projectsRoot(), projectName)
	if err != nil {
		exitWithError(ExitError, "loading metadata: %v", err)
	}

	if humanOutput {
		if len(meta.Searches) == 0 {
			outputHuman("No searches recorded for %q yet.\n", projectName)
			return nil
		}
		for _, s := range meta.Searches {
			outputHuman("round %d  %s  %s  %d-%d  +%d records\n",
				s.SearchRound, s.RunDate, s.Database, s.StartYear, s.EndYear, s.RecordsAdded)
			if s.SearchStrategy != "" {
				outputHuman("         %s\n", truncateString(s.SearchStrategy, TitleMaxLen))
			}
		}
		return nil
	}

	searches := meta.Searches
	if searches == nil {
		searches = []project.SearchEntry{}
	}
	outputJSON(HistoryResponse{Project: projectName, Searches: searches})
	return nil
}
