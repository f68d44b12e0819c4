package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wnk4242/lsr/internal/columns"
	"github.com/wnk4242/lsr/internal/config"
	"github.com/wnk4242/lsr/internal/dataset"
	"github.com/wnk4242/lsr/internal/normalize"
	"github.com/wnk4242/lsr/internal/project"
)

var (
	importDatabase  string
	importStrategy  string
	importStage     string
	importStartYear int
	importEndYear   int
	importTitleCol  string
	importAbsCol    string
	importJrnlCol   string
	importYearCol   string
	importKeepCols  []string
	importDetect    bool
)

func init() {
	f := importCmd.Flags()
	f.StringVar(&importDatabase, "database", "", "Name of the database the CSV was exported from")
	f.StringVar(&importStrategy, "strategy", "", "Verbatim search query used in that database")
	f.StringVar(&importStage, "stage", "Title/abstract screening", "Review stage this import feeds")
	f.IntVar(&importStartYear, "start-year", 1900, "Search window start year")
	f.IntVar(&importEndYear, "end-year", time.Now().Year(), "Search window end year")
	f.StringVar(&importTitleCol, "title-col", "", "Override the detected title column (or 'none')")
	f.StringVar(&importAbsCol, "abstract-col", "", "Override the detected abstract column (or 'none')")
	f.StringVar(&importJrnlCol, "journal-col", "", "Override the detected journal column (or 'none')")
	f.StringVar(&importYearCol, "year-col", "", "Override the detected year column (or 'none')")
	f.StringSliceVar(&importKeepCols, "keep", nil, "Extra source columns to retain outside the canonical schema")
	f.BoolVar(&importDetect, "detect-only", false, "Print detected columns without importing")
	importCmd.MarkFlagRequired("database")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <project> <csv-file>",
	Short: "Import a database CSV export into a project",
	Long: `Import a CSV exported from a literature database.

Bibliographic columns are detected from known aliases; use the
--title-col / --abstract-col / --journal-col / --year-col flags to
override detection, or pass 'none' to leave a field unmapped. A title
column is required. Rows whose title already exists in the project
dataset are skipped.

Usage:
  lsr import myreview scopus_export.csv --database Scopus --strategy "depression AND treatment"
  lsr import myreview export.csv --database EBSCO --detect-only`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

// DetectResponse reports column detection for --detect-only.
type DetectResponse struct {
	Columns  []string          `json:"columns"`
	Detected map[string]string `json:"detected"`
}

func runImport(cmd *cobra.Command, args []string) error {
	projectName, csvPath := args[0], args[1]
	requireProject(projectName)

	f, err := os.Open(csvPath)
	if err != nil {
		exitWithError(ExitError, "opening upload: %v", err)
	}
	defer f.Close()

	header, rows, err := dataset.ReadUpload(f)
	if err != nil {
		exitWithError(ExitDataError, "reading upload: %v", err)
	}

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	resolver := columns.NewResolver(aliasTable(cfg))
	detected := resolver.Resolve(header)

	if importDetect {
		out := map[string]string{}
		for _, field := range columns.Fields {
			out[field] = detected[field]
		}
		if humanOutput {
			for _, field := range columns.Fields {
				col := out[field]
				if col == "" {
					col = "(not detected)"
				}
				outputHuman("%-10s %s\n", field, col)
			}
		} else {
			outputJSON(DetectResponse{Columns: header, Detected: out})
		}
		return nil
	}

	mapping := columns.ApplyOverrides(detected, map[string]string{
		columns.FieldTitle:    importTitleCol,
		columns.FieldAbstract: importAbsCol,
		columns.FieldJournal:  importJrnlCol,
		columns.FieldYear:     importYearCol,
	})

	if mapping[columns.FieldTitle] == "" {
		exitWithError(ExitDataError, "no title column detected; pass --title-col")
	}

	candidates := normalize.FromCSV(rows, mapping, importKeepCols)

	result := mergeIntoProject(projectName, importDatabase, importStrategy,
		importStage, importStartYear, importEndYear, candidates)

	// Keep a copy of the raw upload for the chosen screening stage, the way
	// reviewers expect to find it.
	if stagePath, err := project.StagePath(projectsRoot(), projectName, importStage); err == nil {
		copyFile(csvPath, stagePath)
	}

	resp := MergeResponse{
		Project:      projectName,
		Database:     importDatabase,
		Fetched:      len(rows),
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

// aliasTable merges configured alias overrides over the defaults.
func aliasTable(cfg *config.GlobalConfig) columns.AliasTable {
	if len(cfg.ColumnAliases) == 0 {
		return nil
	}
	table := columns.AliasTable{}
	for field, aliases := range columns.DefaultAliases {
		table[field] = append([]string{}, aliases...)
	}
	for field, aliases := range cfg.ColumnAliases {
		table[field] = append(table[field], aliases...)
	}
	return table
}

// copyFile copies src to dst, ignoring errors: the stage copy is a
// convenience, not part of the dataset contract.
func copyFile(src, dst string) {
	data, err := os.ReadFile(src)
	if err != nil {
		return
	}
	os.WriteFile(dst, data, 0644)
}
