package record

import "testing"

func TestTitleKey(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"lowercased", "Deep Learning", "deep learning"},
		{"trimmed", "  padded  ", "padded"},
		{"both", "  MIXED Case  ", "mixed case"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"interior spaces kept", "a  b", "a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleKey(Record{Title: tt.title}); got != tt.want {
				t.Errorf("TitleKey(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestField_IntegerFormatting(t *testing.T) {
	r := Record{SearchRound: 3, SearchStartYear: 0, SearchEndYear: 2024}

	if got := r.Field("search_round"); got != "3" {
		t.Errorf("search_round: got %q", got)
	}
	if got := r.Field("search_start_year"); got != "" {
		t.Errorf("unset integer should render empty, got %q", got)
	}
	if got := r.Field("search_end_year"); got != "2024" {
		t.Errorf("search_end_year: got %q", got)
	}
}

func TestField_CoversAllColumns(t *testing.T) {
	r := Record{
		Database:        "pubmed",
		Title:           "T",
		Journal:         "J",
		Year:            "2020",
		Abstract:        "A",
		AbstractSource:  SourcePubMedXML,
		SearchRound:     1,
		SearchStartYear: 2019,
		SearchEndYear:   2021,
		RunDate:         "2026-08-28",
	}

	for _, col := range Columns {
		if r.Field(col) == "" {
			t.Errorf("column %q has no Field mapping", col)
		}
	}
}

func TestField_UnknownColumn(t *testing.T) {
	if got := (Record{}).Field("doi"); got != "" {
		t.Errorf("unknown column should be empty, got %q", got)
	}
}
