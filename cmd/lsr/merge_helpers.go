package main

import (
	"time"

	"github.com/wnk4242/lsr/internal/dataset"
	"github.com/wnk4242/lsr/internal/merge"
	"github.com/wnk4242/lsr/internal/project"
	"github.com/wnk4242/lsr/internal/record"
)

// mergeIntoProject runs the dedup-merge for a candidate batch and registers
// the search in the project's metadata. Used by the import and fetch
// commands alike.
func mergeIntoProject(projectName, database, strategy, stage string, startYear, endYear int, candidates []record.Record) merge.Result {
	root := projectsRoot()
	store := dataset.NewStore(project.DataPath(root, projectName))

	engine := &merge.Engine{}
	result, err := engine.Merge(store, candidates, merge.Provenance{
		Database:  database,
		StartYear: startYear,
		EndYear:   endYear,
	})
	if err != nil {
		exitWithError(ExitDataError, "merging records: %v", err)
	}

	meta, err := project.LoadMetadata(root, projectName)
	if err != nil {
		exitWithError(ExitError, "loading metadata: %v", err)
	}
	meta.RegisterSearch(project.SearchEntry{
		Database:       database,
		SearchStrategy: strategy,
		StartYear:      startYear,
		EndYear:        endYear,
		RunDate:        time.Now().Format("2006-01-02"),
		RecordsAdded:   result.Added,
		SearchRound:    result.Round,
		ImportStage:    stage,
	})
	if err := meta.Save(root, projectName); err != nil {
		exitWithError(ExitError, "saving metadata: %v", err)
	}

	return result
}
