package main

import (
	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/project"
)

var stageAdvance string

func init() {
	stageCmd.Flags().StringVar(&stageAdvance, "advance", "", "Cycle the named stage to its next status")
	rootCmd.AddCommand(stageCmd)
}

var stageCmd = &cobra.Command{
	Use:   "stage <project>",
	Short: "Show or advance review stage statuses",
	Long: `Show the status of each review stage, or cycle one stage through
Not started -> In progress -> Completed with --advance.

Usage:
  lsr stage myreview
  lsr stage myreview --advance "Title/abstract screening"`,
	Args: cobra.ExactArgs(1),
	RunE: runStage,
}

// StageResponse is the JSON shape for the stage command.
type StageResponse struct {
	Project string            `json:"project"`
	Stages  map[string]string `json:"stages"`
}

func runStage(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	requireProject(projectName)

	root := projectsRoot()
	meta, err := project.LoadMetadata(root, projectName)
	if err != nil {
		exitWithError(ExitError, "loading metadata: %v", err)
	}

	if stageAdvance != "" {
		current, ok := meta.StageStatus[stageAdvance]
		if !ok {
			exitWithError(ExitConfigError, "unknown stage: %s", stageAdvance)
		}
		meta.StageStatus[stageAdvance] = project.NextStatus(current)
		if err := meta.Save(root, projectName); err != nil {
			exitWithError(ExitError, "saving metadata: %v", err)
		}
	}

	if humanOutput {
		for _, stage := range project.Stages {
			outputHuman("%-26s %s\n", stage, meta.StageStatus[stage])
		}
		return nil
	}
	outputJSON(StageResponse{Project: projectName, Stages: meta.StageStatus})
	return nil
}
