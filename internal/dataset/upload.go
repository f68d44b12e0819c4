package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrNoHeader indicates an uploaded table with no header row.
var ErrNoHeader = errors.New("uploaded CSV has no header row")

// ReadUpload parses an uploaded CSV of arbitrary shape into a header and
// row maps keyed by column name. The bytes are decoded as UTF-8 first and
// as Latin-1 when that fails, matching what literature databases actually
// export.
func ReadUpload(r io.Reader) ([]string, []map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading upload: %w", err)
	}

	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, nil, fmt.Errorf("decoding upload as Latin-1: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing upload: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrNoHeader
	}

	header := rows[0]
	maps := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		maps = append(maps, m)
	}
	return header, maps, nil
}
