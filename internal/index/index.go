// Package index maintains an ephemeral SQLite mirror of a project dataset
// for query commands. The CSV stays canonical; the index is rebuilt from it
// on demand and is never written back.
package index

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/wnk4242/lsr/internal/record"
)

// Index is a SQLite mirror of one dataset.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) an index database. Use ":memory:" for a purely
// transient index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

const recordsDDL = `CREATE TABLE IF NOT EXISTS records (
  database_name TEXT,
  title TEXT,
  title_key TEXT,
  journal TEXT,
  year TEXT,
  abstract_source TEXT,
  search_round INTEGER,
  run_date TEXT
)`

// Rebuild replaces the index contents with the given dataset records.
func (ix *Index) Rebuild(records []record.Record) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS records`); err != nil {
		return fmt.Errorf("dropping records table: %w", err)
	}
	if _, err := tx.Exec(recordsDDL); err != nil {
		return fmt.Errorf("creating records table: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_records_title_key ON records(title_key)`); err != nil {
		return fmt.Errorf("creating title index: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records
		(database_name, title, title_key, journal, year, abstract_source, search_round, run_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(r.Database, r.Title, record.TitleKey(r), r.Journal,
			r.Year, r.AbstractSource, r.SearchRound, r.RunDate)
		if err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
	}

	return tx.Commit()
}

// HasTitle reports whether a normalized title key is present.
func (ix *Index) HasTitle(key string) (bool, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM records WHERE title_key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying title: %w", err)
	}
	return n > 0, nil
}

// RoundCount summarizes one search round.
type RoundCount struct {
	Round   int    `json:"search_round"`
	Records int    `json:"records"`
	RunDate string `json:"run_date,omitempty"`
}

// RoundCounts returns per-round record counts, ascending by round.
func (ix *Index) RoundCounts() ([]RoundCount, error) {
	rows, err := ix.db.Query(`SELECT search_round, COUNT(*), MAX(run_date)
		FROM records GROUP BY search_round ORDER BY search_round`)
	if err != nil {
		return nil, fmt.Errorf("querying rounds: %w", err)
	}
	defer rows.Close()

	var counts []RoundCount
	for rows.Next() {
		var rc RoundCount
		var runDate sql.NullString
		if err := rows.Scan(&rc.Round, &rc.Records, &runDate); err != nil {
			return nil, fmt.Errorf("scanning round count: %w", err)
		}
		rc.RunDate = runDate.String
		counts = append(counts, rc)
	}
	return counts, rows.Err()
}

// DatabaseCounts returns record counts per source database.
func (ix *Index) DatabaseCounts() (map[string]int, error) {
	rows, err := ix.db.Query(`SELECT database_name, COUNT(*) FROM records GROUP BY database_name`)
	if err != nil {
		return nil, fmt.Errorf("querying databases: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning database count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// DuplicateTitles returns title keys stored more than once. Intra-batch
// duplicates pass through the merge filter, so these can exist.
func (ix *Index) DuplicateTitles() ([]string, error) {
	rows, err := ix.db.Query(`SELECT title_key FROM records
		GROUP BY title_key HAVING COUNT(*) > 1 ORDER BY title_key`)
	if err != nil {
		return nil, fmt.Errorf("querying duplicates: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning duplicate: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
