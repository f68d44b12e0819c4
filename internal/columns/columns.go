// Package columns maps arbitrary export column names onto the canonical
// bibliographic fields.
package columns

import "strings"

// Canonical fields the resolver detects. Title is required downstream;
// the others default to null when unresolved.
const (
	FieldTitle    = "title"
	FieldAbstract = "abstract"
	FieldJournal  = "journal"
	FieldYear     = "year"
)

// Fields lists the resolvable canonical fields in display order.
var Fields = []string{FieldTitle, FieldAbstract, FieldJournal, FieldYear}

// None is the override value that forces a field to stay unmapped even when
// the resolver detected a column for it.
const None = "none"

// AliasTable maps a canonical field to the set of known export spellings,
// already normalized (lowercase, no spaces or underscores). Alias sets must
// stay disjoint across fields; the resolver takes the first match per field.
type AliasTable map[string][]string

// DefaultAliases covers the export formats seen from PubMed, Web of Science,
// Scopus, EBSCO, and Covidence. "abstact" is a typo that ships in real
// exports.
var DefaultAliases = AliasTable{
	FieldTitle: {
		"title", "articletitle", "documenttitle", "ti", "primarytitle",
		"itemtitle",
	},
	FieldAbstract: {
		"abstract", "ab", "abstact", "abstractnote", "summary",
	},
	FieldJournal: {
		"journal", "journalname", "source", "sourcetitle", "so",
		"publicationtitle", "journalbooktitle",
	},
	FieldYear: {
		"year", "py", "publicationyear", "pubyear", "yearpublished",
	},
}

// Mapping records the detected column per canonical field. A missing or
// empty value means the field is unmapped.
type Mapping map[string]string

// Resolver detects canonical fields using an alias table.
type Resolver struct {
	aliases AliasTable
}

// NewResolver returns a resolver over the given alias table. A nil table
// uses DefaultAliases.
func NewResolver(aliases AliasTable) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases
	}
	return &Resolver{aliases: aliases}
}

// Resolve maps table columns to canonical fields. It never fails: a field
// with no matching column is simply absent from the result. The first column
// whose normalized name appears in a field's alias set wins.
func (r *Resolver) Resolve(tableColumns []string) Mapping {
	normalized := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		normalized[i] = normalizeName(c)
	}

	m := make(Mapping, len(Fields))
	for _, field := range Fields {
		for i, n := range normalized {
			if containsAlias(r.aliases[field], n) {
				m[field] = tableColumns[i]
				break
			}
		}
	}
	return m
}

// Resolve runs the default resolver.
func Resolve(tableColumns []string) Mapping {
	return NewResolver(nil).Resolve(tableColumns)
}

// ApplyOverrides merges caller-supplied column choices into a detected
// mapping. An override always beats detection; the value None unmaps the
// field outright.
func ApplyOverrides(detected Mapping, overrides map[string]string) Mapping {
	out := make(Mapping, len(Fields))
	for f, c := range detected {
		out[f] = c
	}
	for f, c := range overrides {
		switch c {
		case "":
			// No choice made, keep detection.
		case None:
			delete(out, f)
		default:
			out[f] = c
		}
	}
	return out
}

// normalizeName lowers a column name and strips spaces and underscores, so
// "Article Title", "article_title" and "ArticleTitle" all compare equal.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return strings.TrimSpace(name)
}

func containsAlias(aliases []string, name string) bool {
	for _, a := range aliases {
		if a == name {
			return true
		}
	}
	return false
}
