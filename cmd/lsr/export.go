package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/dataset"
	"github.com/wnk4242/lsr/internal/project"
)

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write the dataset copy to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Export a project's canonical dataset",
	Long: `Export the project's canonical CSV dataset.

Without --out, the default JSON output reports the dataset path and
size; with --human the CSV itself is written to stdout. With --out the
CSV is copied to the given file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// ExportResponse is the JSON shape for the export command.
type ExportResponse struct {
	Project string `json:"project"`
	Path    string `json:"path"`
	Records int    `json:"records"`
}

func runExport(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	requireProject(projectName)

	store := dataset.NewStore(project.DataPath(projectsRoot(), projectName))
	records, err := store.Read()
	if err != nil {
		exitWithError(ExitDataError, "reading dataset: %v", err)
	}

	if exportOut != "" {
		if err := copyDataset(store.Path(), exportOut); err != nil {
			exitWithError(ExitError, "writing export: %v", err)
		}
		if humanOutput {
			outputHuman("Exported %d records to %s\n", len(records), exportOut)
		} else {
			outputJSON(ExportResponse{Project: projectName, Path: exportOut, Records: len(records)})
		}
		return nil
	}

	if humanOutput {
		if err := copyDatasetTo(store.Path(), os.Stdout); err != nil {
			exitWithError(ExitError, "writing export: %v", err)
		}
		return nil
	}

	outputJSON(ExportResponse{Project: projectName, Path: store.Path(), Records: len(records)})
	return nil
}

func copyDataset(src, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	return copyDatasetTo(src, out)
}

func copyDatasetTo(src string, w io.Writer) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer in.Close()
	_, err = io.Copy(w, in)
	return err
}
