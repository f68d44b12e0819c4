package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wnk4242/lsr/internal/record"
)

func TestRead_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.csv"))
	records, err := store.Read()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if records != nil {
		t.Errorf("expected nil records, got %d", len(records))
	}
}

func TestRead_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	records, err := NewStore(path).Read()
	if err != nil {
		t.Fatalf("expected no error for empty file, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "data.csv"))

	in := []record.Record{
		{
			Database:        "pubmed",
			Title:           "A Title, With Comma",
			Journal:         "Nature",
			Year:            "2023",
			Abstract:        "Line one.\nLine two.",
			AbstractSource:  record.SourcePubMedXML,
			SearchRound:     2,
			SearchStartYear: 2020,
			SearchEndYear:   2024,
			RunDate:         "2026-08-28",
		},
		{Title: "Sparse", AbstractSource: record.SourceNone},
	}
	if err := store.Write(in); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out, err := store.Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if !reflect.DeepEqual(out[0], in[0]) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in[0], out[0])
	}
	if out[1].SearchRound != 0 || out[1].Year != "" {
		t.Errorf("sparse record gained values: %+v", out[1])
	}
}

func TestWrite_HeaderIsCanonical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	store := NewStore(path)
	if err := store.Write([]record.Record{{Title: "x"}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	want := strings.Join(record.Columns, ",")
	if header != want {
		t.Errorf("header mismatch:\n got: %s\nwant: %s", header, want)
	}
}

func TestWriteRead_ExtraColumnsPreserved(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "data.csv"))

	in := []record.Record{
		{Title: "With DOI", Extra: map[string]string{"doi": "10.1/x", "authors": "Smith J"}},
		{Title: "Without"},
	}
	if err := store.Write(in); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out, err := store.Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if out[0].Extra["doi"] != "10.1/x" || out[0].Extra["authors"] != "Smith J" {
		t.Errorf("extras lost: %+v", out[0].Extra)
	}
	if len(out[1].Extra) != 0 {
		t.Errorf("record without extras gained some: %+v", out[1].Extra)
	}
}

func TestRead_LegacyHeaderMigrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	csv := "database,title,journal,year,abstract,abstract_source,search_id,search_start_year,search_end_year,run_date\n" +
		"pubmed,Old,J,2019,,none,2,2018,2020,2024-01-01\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	records, err := NewStore(path).Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].SearchRound != 2 {
		t.Errorf("legacy search_id not mapped to round: got %d", records[0].SearchRound)
	}
	if _, ok := records[0].Extra["search_id"]; ok {
		t.Errorf("search_id leaked into extras")
	}
}

func TestRead_FloatFormattedRound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	csv := "database,title,journal,year,abstract,abstract_source,search_round,search_start_year,search_end_year,run_date\n" +
		"pubmed,Floaty,J,2019,,none,3.0,2018.0,2020,2024-01-01\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	records, err := NewStore(path).Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if records[0].SearchRound != 3 || records[0].SearchStartYear != 2018 {
		t.Errorf("float-formatted integers not tolerated: %+v", records[0])
	}
}

func TestRead_ShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	csv := "database,title,journal,year,abstract,abstract_source,search_round,search_start_year,search_end_year,run_date\n" +
		"pubmed,Short Row\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	records, err := NewStore(path).Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if records[0].Title != "Short Row" || records[0].Journal != "" {
		t.Errorf("short row mishandled: %+v", records[0])
	}
}

func TestMigrateHeader_Idempotent(t *testing.T) {
	header := []string{"title", "search_id"}
	once := MigrateHeader(header)
	twice := MigrateHeader(once)
	if strings.Join(once, ",") != "title,search_round" {
		t.Errorf("migration wrong: %v", once)
	}
	if strings.Join(twice, ",") != strings.Join(once, ",") {
		t.Errorf("migration not idempotent: %v vs %v", once, twice)
	}
}

func TestMigrateHeader_SkipsWhenCurrentPresent(t *testing.T) {
	header := []string{"search_round", "search_id"}
	got := MigrateHeader(header)
	if got[1] != "search_id" {
		t.Errorf("search_id renamed despite search_round present: %v", got)
	}
}
