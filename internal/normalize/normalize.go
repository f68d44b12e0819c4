// Package normalize converts source-shaped rows into canonical candidate
// records. Fetcher payloads use fixed per-source mappings; uploaded tables
// go through a resolved column mapping. Provenance stamping (search round,
// run date) happens later, at merge time.
package normalize

import (
	"strconv"
	"strings"

	"github.com/wnk4242/lsr/internal/arxiv"
	"github.com/wnk4242/lsr/internal/columns"
	"github.com/wnk4242/lsr/internal/openalex"
	"github.com/wnk4242/lsr/internal/pubmed"
	"github.com/wnk4242/lsr/internal/record"
)

// FromCSV converts uploaded rows into candidate records using a resolved
// column mapping. Rows whose title is empty after trimming are silently
// dropped; they cannot be deduplicated or referenced. Columns named in keep
// are carried along outside the canonical schema.
func FromCSV(rows []map[string]string, mapping columns.Mapping, keep []string) []record.Record {
	titleCol := mapping[columns.FieldTitle]

	var out []record.Record
	for _, row := range rows {
		title := strings.TrimSpace(row[titleCol])
		if titleCol == "" || title == "" {
			continue
		}

		r := record.Record{
			Title:          title,
			Abstract:       mapped(row, mapping, columns.FieldAbstract),
			Journal:        mapped(row, mapping, columns.FieldJournal),
			Year:           mapped(row, mapping, columns.FieldYear),
			AbstractSource: record.SourceCSVImport,
		}

		for _, col := range keep {
			if v, ok := row[col]; ok {
				if r.Extra == nil {
					r.Extra = make(map[string]string)
				}
				r.Extra[col] = v
			}
		}

		out = append(out, r)
	}
	return out
}

// mapped reads a canonical field's source column from a row, or returns the
// empty marker when the field is unmapped.
func mapped(row map[string]string, mapping columns.Mapping, field string) string {
	col := mapping[field]
	if col == "" {
		return ""
	}
	return row[col]
}

// FromPubMed converts raw citations. The PMID is intentionally dropped: the
// canonical schema has no identifier column and dedup is by title.
func FromPubMed(citations []pubmed.Citation) []record.Record {
	var out []record.Record
	for _, c := range citations {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			continue
		}
		out = append(out, record.Record{
			Database:       "pubmed",
			Title:          title,
			Journal:        c.Journal,
			Year:           c.Year,
			Abstract:       c.Abstract,
			AbstractSource: c.AbstractSource,
		})
	}
	return out
}

// FromOpenAlex converts raw works.
func FromOpenAlex(works []openalex.Work) []record.Record {
	var out []record.Record
	for _, w := range works {
		title := strings.TrimSpace(w.Title)
		if title == "" {
			continue
		}
		r := record.Record{
			Database:       "openalex",
			Title:          title,
			Journal:        w.Venue,
			Abstract:       w.Abstract,
			AbstractSource: record.SourceOpenAlex,
		}
		if w.Year > 0 {
			r.Year = strconv.Itoa(w.Year)
		}
		out = append(out, r)
	}
	return out
}

// FromArxiv converts raw feed entries. Year is the first four characters of
// the published timestamp.
func FromArxiv(entries []arxiv.Entry) []record.Record {
	var out []record.Record
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			continue
		}
		r := record.Record{
			Database:       "arxiv",
			Title:          title,
			Journal:        "arXiv",
			Abstract:       strings.TrimSpace(e.Summary),
			AbstractSource: record.SourceArxivAPI,
		}
		if len(e.Published) >= 4 {
			r.Year = e.Published[:4]
		}
		out = append(out, r)
	}
	return out
}

