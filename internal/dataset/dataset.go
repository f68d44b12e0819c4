// Package dataset persists a project's canonical record table as a single
// CSV file, read in full before every merge and rewritten in full after.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/wnk4242/lsr/internal/record"
)

// Store reads and writes one project's dataset file. It assumes a single
// writer; the merge engine serializes access per path.
type Store struct {
	path string
}

// NewStore returns a store bound to a dataset path. The file need not exist
// yet; a missing or empty file reads as "no records".
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the dataset file path.
func (s *Store) Path() string {
	return s.path
}

// Read loads the full dataset. Missing and empty files return no records
// and no error. Legacy headers are upgraded in memory before decoding.
func (s *Store) Read() ([]record.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := MigrateHeader(rows[0])
	return decodeRows(header, rows[1:]), nil
}

// Write replaces the dataset with the given records. The header is always
// the canonical column list in canonical order, followed by the sorted
// union of any extra columns the records carry.
func (s *Store) Write(records []record.Record) error {
	extras := extraColumns(records)
	header := append(append([]string{}, record.Columns...), extras...)

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(header))
	for i, r := range records {
		for j, col := range record.Columns {
			row[j] = r.Field(col)
		}
		for j, col := range extras {
			row[len(record.Columns)+j] = r.Extra[col]
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing dataset: %w", err)
	}
	return nil
}

// decodeRows maps CSV rows onto records using the (migrated) header. Columns
// outside the canonical set land in Extra so a rewrite preserves them.
func decodeRows(header []string, rows [][]string) []record.Record {
	canonical := make(map[string]bool, len(record.Columns))
	for _, c := range record.Columns {
		canonical[c] = true
	}

	records := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		var r record.Record
		for i, col := range header {
			if i >= len(row) {
				break
			}
			val := row[i]
			switch col {
			case "database":
				r.Database = val
			case "title":
				r.Title = val
			case "journal":
				r.Journal = val
			case "year":
				r.Year = val
			case "abstract":
				r.Abstract = val
			case "abstract_source":
				r.AbstractSource = val
			case "search_round":
				r.SearchRound = atoiOrZero(val)
			case "search_start_year":
				r.SearchStartYear = atoiOrZero(val)
			case "search_end_year":
				r.SearchEndYear = atoiOrZero(val)
			case "run_date":
				r.RunDate = val
			default:
				if !canonical[col] && val != "" {
					if r.Extra == nil {
						r.Extra = make(map[string]string)
					}
					r.Extra[col] = val
				}
			}
		}
		records = append(records, r)
	}
	return records
}

// extraColumns returns the sorted union of extra column names across records.
func extraColumns(records []record.Record) []string {
	seen := map[string]bool{}
	for _, r := range records {
		for col := range r.Extra {
			seen[col] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// atoiOrZero tolerates blank and float-formatted integers ("3.0"), which
// older datasets produced.
func atoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
