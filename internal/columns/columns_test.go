package columns

import "testing"

func TestResolve_CommonExports(t *testing.T) {
	tests := []struct {
		name string
		cols []string
		want Mapping
	}{
		{
			name: "web of science style",
			cols: []string{"Article Title", "AB", "Source", "PY"},
			want: Mapping{
				FieldTitle:    "Article Title",
				FieldAbstract: "AB",
				FieldJournal:  "Source",
				FieldYear:     "PY",
			},
		},
		{
			name: "underscored export",
			cols: []string{"article_title", "abstract_note", "journal_name", "publication_year"},
			want: Mapping{
				FieldTitle:    "article_title",
				FieldAbstract: "abstract_note",
				FieldJournal:  "journal_name",
				FieldYear:     "publication_year",
			},
		},
		{
			name: "ocr typo abstract",
			cols: []string{"Title", "Abstact", "Journal", "Year"},
			want: Mapping{
				FieldTitle:    "Title",
				FieldAbstract: "Abstact",
				FieldJournal:  "Journal",
				FieldYear:     "Year",
			},
		},
		{
			name: "nothing recognizable",
			cols: []string{"Notes", "Reviewer", "Decision"},
			want: Mapping{},
		},
		{
			name: "title only",
			cols: []string{"Document Title", "Reviewer"},
			want: Mapping{FieldTitle: "Document Title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.cols)
			if len(got) != len(tt.want) {
				t.Fatalf("Resolve() = %v, want %v", got, tt.want)
			}
			for f, c := range tt.want {
				if got[f] != c {
					t.Errorf("Resolve()[%s] = %q, want %q", f, got[f], c)
				}
			}
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	// Two columns both alias to title; the earlier one must win.
	got := Resolve([]string{"TI", "Article Title"})
	if got[FieldTitle] != "TI" {
		t.Errorf("Resolve()[title] = %q, want TI", got[FieldTitle])
	}
}

func TestApplyOverrides(t *testing.T) {
	detected := Mapping{
		FieldTitle:    "Title",
		FieldAbstract: "AB",
	}

	got := ApplyOverrides(detected, map[string]string{
		FieldAbstract: "Full Abstract", // manual choice beats detection
		FieldJournal:  "Venue",         // manual choice for an undetected field
		FieldYear:     "",              // no choice, keep detection (none)
	})

	if got[FieldTitle] != "Title" {
		t.Errorf("title = %q, want Title", got[FieldTitle])
	}
	if got[FieldAbstract] != "Full Abstract" {
		t.Errorf("abstract = %q, want Full Abstract", got[FieldAbstract])
	}
	if got[FieldJournal] != "Venue" {
		t.Errorf("journal = %q, want Venue", got[FieldJournal])
	}
	if _, ok := got[FieldYear]; ok {
		t.Errorf("year = %q, want unmapped", got[FieldYear])
	}
}

func TestApplyOverrides_NoneForcesUnmapped(t *testing.T) {
	detected := Mapping{FieldAbstract: "AB"}

	got := ApplyOverrides(detected, map[string]string{FieldAbstract: None})
	if _, ok := got[FieldAbstract]; ok {
		t.Errorf("abstract = %q, want unmapped after none override", got[FieldAbstract])
	}
}

func TestDefaultAliases_Disjoint(t *testing.T) {
	// Overlapping alias sets would make resolution order-dependent.
	seen := map[string]string{}
	for field, aliases := range DefaultAliases {
		for _, a := range aliases {
			if prev, ok := seen[a]; ok {
				t.Errorf("alias %q appears in both %s and %s", a, prev, field)
			}
			seen[a] = field
		}
	}
}

func TestNewResolver_CustomAliases(t *testing.T) {
	r := NewResolver(AliasTable{
		FieldTitle: {"papername"},
	})

	got := r.Resolve([]string{"Paper Name", "AB"})
	if got[FieldTitle] != "Paper Name" {
		t.Errorf("title = %q, want Paper Name", got[FieldTitle])
	}
	// Custom table replaces the default wholesale; AB is unknown to it.
	if _, ok := got[FieldAbstract]; ok {
		t.Errorf("abstract = %q, want unmapped under custom table", got[FieldAbstract])
	}
}
