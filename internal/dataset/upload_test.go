package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestReadUpload_UTF8(t *testing.T) {
	csv := "Title,Abstract\nMémoire étude,Résumé\n"
	header, rows, err := ReadUpload(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(header) != 2 || header[0] != "Title" {
		t.Errorf("unexpected header: %v", header)
	}
	if rows[0]["Title"] != "Mémoire étude" {
		t.Errorf("UTF-8 mangled: %q", rows[0]["Title"])
	}
}

func TestReadUpload_Latin1Fallback(t *testing.T) {
	// "Mémoire" with é as the single Latin-1 byte 0xE9, invalid as UTF-8.
	raw := []byte("Title\nM\xe9moire\n")
	header, rows, err := ReadUpload(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if header[0] != "Title" {
		t.Errorf("unexpected header: %v", header)
	}
	if rows[0]["Title"] != "Mémoire" {
		t.Errorf("Latin-1 fallback failed: %q", rows[0]["Title"])
	}
}

func TestReadUpload_Empty(t *testing.T) {
	_, _, err := ReadUpload(strings.NewReader(""))
	if !errors.Is(err, ErrNoHeader) {
		t.Errorf("expected ErrNoHeader, got %v", err)
	}
}

func TestReadUpload_HeaderOnly(t *testing.T) {
	header, rows, err := ReadUpload(strings.NewReader("Title,Year\n"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(header) != 2 {
		t.Errorf("unexpected header: %v", header)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestReadUpload_RaggedRows(t *testing.T) {
	csv := "Title,Year,Journal\nOnly Title\n"
	_, rows, err := ReadUpload(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if rows[0]["Title"] != "Only Title" {
		t.Errorf("short row mishandled: %v", rows[0])
	}
	if _, ok := rows[0]["Year"]; ok {
		t.Errorf("missing cell should be absent, got %v", rows[0])
	}
}
