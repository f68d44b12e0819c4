// Package record defines the canonical bibliographic record shared by the
// import, fetch, and merge layers.
package record

import (
	"strconv"
	"strings"
)

// Columns is the canonical column set, in persisted order. Every dataset
// write emits exactly these columns regardless of which fields were
// populated on input.
var Columns = []string{
	"database",
	"title",
	"journal",
	"year",
	"abstract",
	"abstract_source",
	"search_round",
	"search_start_year",
	"search_end_year",
	"run_date",
}

// Abstract provenance values stored in the abstract_source column.
const (
	SourcePubMedXML = "pubmed_xml" // structured abstract from an efetch citation
	SourcePIPWeb    = "pip_web"    // PIP fallback scraped from the public record page
	SourceOpenAlex  = "openalex"
	SourceArxivAPI  = "arxiv_api"
	SourceCSVImport = "csv_import"
	SourceNone      = "none"
)

// Record is one bibliographic entry. Optional fields hold the empty string
// when absent; they are still written to every dataset row. Year stays a
// string because exports and APIs disagree on its type.
type Record struct {
	Database        string
	Title           string
	Journal         string
	Year            string
	Abstract        string
	AbstractSource  string
	SearchRound     int
	SearchStartYear int
	SearchEndYear   int
	RunDate         string

	// Extra holds caller-whitelisted columns carried outside the canonical
	// schema. They are never deduplicated against.
	Extra map[string]string
}

// IdentityFunc derives the deduplication key for a record. The merge engine
// accepts any identity so stronger matching (DOI, PMID) can be added without
// restructuring it.
type IdentityFunc func(Record) string

// TitleKey is the default identity: the case-folded, whitespace-trimmed
// title. Two distinct papers with the same title collide under this key.
func TitleKey(r Record) string {
	return NormalizeTitle(r.Title)
}

// NormalizeTitle folds a title to its deduplication form.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Field returns the canonical column value by column name, formatted for
// persistence. Integer fields render empty when unset so a fresh record
// never serializes a spurious zero.
func (r Record) Field(column string) string {
	switch column {
	case "database":
		return r.Database
	case "title":
		return r.Title
	case "journal":
		return r.Journal
	case "year":
		return r.Year
	case "abstract":
		return r.Abstract
	case "abstract_source":
		return r.AbstractSource
	case "search_round":
		return itoaOrEmpty(r.SearchRound)
	case "search_start_year":
		return itoaOrEmpty(r.SearchStartYear)
	case "search_end_year":
		return itoaOrEmpty(r.SearchEndYear)
	case "run_date":
		return r.RunDate
	}
	return ""
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
