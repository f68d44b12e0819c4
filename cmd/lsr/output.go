package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// TitleMaxLen truncates titles in human-readable listings.
const TitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON)
// and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status  string `json:"status"`
	Project string `json:"project,omitempty"`
	Path    string `json:"path,omitempty"`
}

// MergeResponse reports a completed import or fetch-and-merge.
type MergeResponse struct {
	Project      string `json:"project"`
	Database     string `json:"database"`
	Fetched      int    `json:"fetched"`
	TotalHits    int    `json:"total_hits,omitempty"`
	RecordsAdded int    `json:"records_added"`
	SearchRound  int    `json:"search_round"`
	DatasetSize  int    `json:"dataset_size"`
}

// printMergeHuman prints a merge result in human-readable form.
func printMergeHuman(resp MergeResponse) {
	outputHuman("Merged into project %q\n", resp.Project)
	outputHuman("  Fetched:  %d records from %s\n", resp.Fetched, resp.Database)
	if resp.TotalHits > resp.Fetched {
		outputHuman("  (of %d total hits reported by the service)\n", resp.TotalHits)
	}
	outputHuman("  Added:    %d new records (search round %d)\n", resp.RecordsAdded, resp.SearchRound)
	outputHuman("  Dataset:  %d records\n", resp.DatasetSize)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
