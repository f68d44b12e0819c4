package project

import (
	"encoding/json"
	"fmt"
	"os"
)

// SearchEntry is one row in the project's search register, appended after
// every merge so the review documents exactly which searches were run.
type SearchEntry struct {
	Database       string `json:"database"`
	SearchStrategy string `json:"search_strategy"`
	StartYear      int    `json:"search_start_year"`
	EndYear        int    `json:"search_end_year"`
	RunDate        string `json:"run_date"`
	RecordsAdded   int    `json:"records_added"`
	SearchRound    int    `json:"search_round"`
	ImportStage    string `json:"import_stage,omitempty"`
}

// Metadata holds per-project bookkeeping outside the dataset itself.
type Metadata struct {
	StageStatus map[string]string `json:"stage_status"`
	Searches    []SearchEntry     `json:"searches,omitempty"`
}

// LoadMetadata reads a project's metadata, returning an initialized value
// when the file does not exist yet. Every stage gets a default status.
func LoadMetadata(root, name string) (*Metadata, error) {
	var meta Metadata

	data, err := os.ReadFile(MetadataPath(root, name))
	switch {
	case os.IsNotExist(err):
		// Fresh project.
	case err != nil:
		return nil, fmt.Errorf("reading metadata: %w", err)
	default:
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parsing metadata: %w", err)
		}
	}

	if meta.StageStatus == nil {
		meta.StageStatus = make(map[string]string, len(Stages))
	}
	for _, stage := range Stages {
		if _, ok := meta.StageStatus[stage]; !ok {
			meta.StageStatus[stage] = StageStatuses[0]
		}
	}
	return &meta, nil
}

// Save writes the metadata file.
func (m *Metadata) Save(root, name string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(MetadataPath(root, name), data, 0644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// RegisterSearch appends a search entry to the register.
func (m *Metadata) RegisterSearch(entry SearchEntry) {
	m.Searches = append(m.Searches, entry)
}
