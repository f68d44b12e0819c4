package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/dataset"
	"github.com/wnk4242/lsr/internal/index"
	"github.com/wnk4242/lsr/internal/project"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <project>",
	Short: "Summarize a project's dataset",
	Long: `Summarize the project dataset: records per search round, records per
source database, and any titles that appear more than once.

The summary is computed through a throwaway SQLite index rebuilt from
the dataset on every run; the CSV remains the source of truth.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

// StatsResponse is the JSON shape for the stats command.
type StatsResponse struct {
	Project         string             `json:"project"`
	TotalRecords    int                `json:"total_records"`
	Rounds          []index.RoundCount `json:"rounds"`
	Databases       map[string]int     `json:"databases"`
	DuplicateTitles []string           `json:"duplicate_titles,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	requireProject(projectName)

	root := projectsRoot()
	store := dataset.NewStore(project.DataPath(root, projectName))
	records, err := store.Read()
	if err != nil {
		exitWithError(ExitDataError, "reading dataset: %v", err)
	}

	ix, err := index.Open(filepath.Join(project.Path(root, projectName), "index.db"))
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer ix.Close()

	if err := ix.Rebuild(records); err != nil {
		exitWithError(ExitError, "indexing dataset: %v", err)
	}

	rounds, err := ix.RoundCounts()
	if err != nil {
		exitWithError(ExitError, "counting rounds: %v", err)
	}
	databases, err := ix.DatabaseCounts()
	if err != nil {
		exitWithError(ExitError, "counting databases: %v", err)
	}
	dups, err := ix.DuplicateTitles()
	if err != nil {
		exitWithError(ExitError, "finding duplicates: %v", err)
	}

	if humanOutput {
		outputHuman("Project %q: %d records\n", projectName, len(records))
		outputHuman("By search round:\n")
		for _, rc := range rounds {
			outputHuman("  round %d: %d\n", rc.Round, rc.Records)
		}
		outputHuman("By database:\n")
		for db, n := range databases {
			outputHuman("  %s: %d\n", db, n)
		}
		if len(dups) > 0 {
			outputHuman("Duplicate titles (%d):\n", len(dups))
			for _, t := range dups {
				outputHuman("  %s\n", truncateString(t, TitleMaxLen))
			}
		}
		return nil
	}

	if rounds == nil {
		rounds = []index.RoundCount{}
	}
	outputJSON(StatsResponse{
		Project:         projectName,
		TotalRecords:    len(records),
		Rounds:          rounds,
		Databases:       databases,
		DuplicateTitles: dups,
	})
	return nil
}
