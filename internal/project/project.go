// Package project manages review project workspaces: one directory per
// project holding the canonical dataset, stage tables, and metadata.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Well-known file names inside a project directory.
const (
	DataFile     = "data.csv"
	MetadataFile = "metadata.json"
)

// Stages tracked per project, in review order.
var Stages = []string{
	"Study identification",
	"Title/abstract screening",
	"Full-text screening",
	"Data extraction",
}

// Stage CSV file names for the screening stages.
var stageFiles = map[string]string{
	"Title/abstract screening": "title_abstract.csv",
	"Full-text screening":      "full_text.csv",
	"Data extraction":          "data_extraction.csv",
}

// StageStatuses lists the per-stage statuses, in cycling order.
var StageStatuses = []string{"Not started", "In progress", "Completed"}

// Validation errors.
var (
	ErrEmptyName       = errors.New("project name is required")
	ErrInvalidName     = errors.New("project name must not contain path separators")
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project already exists")
	ErrUnknownStage    = errors.New("unknown review stage")
)

// ValidateName checks that a project name is usable as a directory name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ErrInvalidName
	}
	return nil
}

// Path returns the directory for a project under the given root.
func Path(root, name string) string {
	return filepath.Join(root, name)
}

// DataPath returns the canonical dataset path for a project.
func DataPath(root, name string) string {
	return filepath.Join(root, name, DataFile)
}

// MetadataPath returns the metadata file path for a project.
func MetadataPath(root, name string) string {
	return filepath.Join(root, name, MetadataFile)
}

// StagePath returns the stage table path for a screening stage.
func StagePath(root, name, stage string) (string, error) {
	file, ok := stageFiles[stage]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStage, stage)
	}
	return filepath.Join(root, name, file), nil
}

// Exists reports whether a project directory is present.
func Exists(root, name string) bool {
	info, err := os.Stat(Path(root, name))
	return err == nil && info.IsDir()
}

// Create makes a project directory. Creating an existing project is an
// error so a caller cannot silently adopt another project's data.
func Create(root, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if Exists(root, name) {
		return fmt.Errorf("%w: %s", ErrProjectExists, name)
	}
	if err := os.MkdirAll(Path(root, name), 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	return nil
}

// List returns project names under the root, sorted.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a project directory and everything in it. This is the only
// path that destroys a dataset.
func Delete(root, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !Exists(root, name) {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	if err := os.RemoveAll(Path(root, name)); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// NextStatus returns the status following the given one in the cycle.
func NextStatus(status string) string {
	for i, s := range StageStatuses {
		if s == status {
			return StageStatuses[(i+1)%len(StageStatuses)]
		}
	}
	return StageStatuses[0]
}
