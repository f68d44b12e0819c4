package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/project"
)

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(deleteCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <project>",
	Short: "Create a new review project",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List review projects",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <project>",
	Short: "Delete a project and all its data",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := projectsRoot()
	name := args[0]

	if err := project.Create(root, name); err != nil {
		if errors.Is(err, project.ErrProjectExists) {
			exitWithError(ExitConfigError, "project already exists: %s", name)
		}
		exitWithError(ExitError, "creating project: %v", err)
	}

	// Seed metadata so stage statuses exist from the start.
	meta, err := project.LoadMetadata(root, name)
	if err != nil {
		exitWithError(ExitError, "initializing metadata: %v", err)
	}
	if err := meta.Save(root, name); err != nil {
		exitWithError(ExitError, "writing metadata: %v", err)
	}

	if humanOutput {
		outputHuman("Created project %q in %s\n", name, project.Path(root, name))
	} else {
		outputJSON(StatusResponse{Status: "created", Project: name, Path: project.Path(root, name)})
	}
	return nil
}

// ProjectListResponse is the JSON shape for the projects command.
type ProjectListResponse struct {
	Projects []string `json:"projects"`
}

func runProjects(cmd *cobra.Command, args []string) error {
	names, err := project.List(projectsRoot())
	if err != nil {
		exitWithError(ExitError, "listing projects: %v", err)
	}

	if humanOutput {
		if len(names) == 0 {
			outputHuman("No projects yet.\n")
		}
		for _, n := range names {
			outputHuman("%s\n", n)
		}
	} else {
		if names == nil {
			names = []string{}
		}
		outputJSON(ProjectListResponse{Projects: names})
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := project.Delete(projectsRoot(), name); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			exitWithError(ExitConfigError, "project not found: %s", name)
		}
		exitWithError(ExitError, "deleting project: %v", err)
	}

	if humanOutput {
		outputHuman("Deleted project %q\n", name)
	} else {
		outputJSON(StatusResponse{Status: "deleted", Project: name})
	}
	return nil
}

// requireProject exits unless the named project exists.
func requireProject(name string) {
	if !project.Exists(projectsRoot(), name) {
		exitWithError(ExitConfigError, "project not found: %s (run: lsr init %s)", name, name)
	}
}
