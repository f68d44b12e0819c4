// Package merge deduplicates candidate records against a project's dataset
// and appends the survivors under a new search round.
package merge

import (
	"fmt"
	"sync"
	"time"

	"github.com/wnk4242/lsr/internal/dataset"
	"github.com/wnk4242/lsr/internal/record"
)

// Provenance describes the search that produced a candidate batch. It is
// stamped onto every accepted record.
type Provenance struct {
	// Database labels records that do not carry their own source (manual
	// CSV imports). Fetcher records keep their per-record value.
	Database  string
	StartYear int
	EndYear   int
	// RunDate defaults to today's ISO date when empty.
	RunDate string
}

// Result reports one merge call.
type Result struct {
	Added int // candidates accepted after dedup
	Round int // search round assigned to this call
	Total int // dataset size after the merge
}

// Engine merges candidate batches into datasets. The zero value uses
// title-key identity; set Identity to plug in stronger matching.
type Engine struct {
	Identity record.IdentityFunc
}

// pathLocks serializes merges per dataset path. The read-merge-write
// sequence is a critical section: two unserialized writers would race and
// the last one would win, reintroducing duplicates or dropping rows.
var (
	pathLocksMu sync.Mutex
	pathLocks   = map[string]*sync.Mutex{}
)

func lockFor(path string) *sync.Mutex {
	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()
	l, ok := pathLocks[path]
	if !ok {
		l = &sync.Mutex{}
		pathLocks[path] = l
	}
	return l
}

// Merge reads the full dataset, filters the candidates against the titles
// already stored, stamps provenance onto the survivors, appends them, and
// rewrites the dataset.
//
// The assigned round is one greater than the highest round on disk, or 1
// for a fresh dataset. A dataset whose round column is unreadable also
// restarts at 1 rather than failing. The round advances on every call,
// including one that adds no rows.
//
// Candidates are deduplicated only against the existing dataset, not
// against each other: two candidates sharing a title within one batch are
// both kept. That asymmetry matches the system's historical behavior and is
// deliberately preserved.
func (e *Engine) Merge(store *dataset.Store, candidates []record.Record, prov Provenance) (Result, error) {
	identity := e.Identity
	if identity == nil {
		identity = record.TitleKey
	}

	lock := lockFor(store.Path())
	lock.Lock()
	defer lock.Unlock()

	existing, err := store.Read()
	if err != nil {
		return Result{}, fmt.Errorf("loading dataset: %w", err)
	}

	round := nextRound(existing)

	existingKeys := make(map[string]bool, len(existing))
	for _, r := range existing {
		if key := identity(r); key != "" {
			existingKeys[key] = true
		}
	}

	runDate := prov.RunDate
	if runDate == "" {
		runDate = time.Now().Format("2006-01-02")
	}

	added := 0
	updated := append([]record.Record{}, existing...)
	for _, cand := range candidates {
		key := identity(cand)
		if key == "" {
			continue
		}
		if existingKeys[key] {
			continue
		}

		if cand.Database == "" {
			cand.Database = prov.Database
		}
		cand.SearchRound = round
		cand.SearchStartYear = prov.StartYear
		cand.SearchEndYear = prov.EndYear
		cand.RunDate = runDate

		updated = append(updated, cand)
		added++
	}

	if err := store.Write(updated); err != nil {
		return Result{}, fmt.Errorf("writing dataset: %w", err)
	}

	return Result{Added: added, Round: round, Total: len(updated)}, nil
}

// nextRound computes the round for a merge call: 1 for an empty dataset,
// otherwise one past the maximum stored round. Records whose round failed
// to parse count as zero, so a dataset with an unreadable round column
// restarts at 1.
func nextRound(existing []record.Record) int {
	max := 0
	for _, r := range existing {
		if r.SearchRound > max {
			max = r.SearchRound
		}
	}
	return max + 1
}
