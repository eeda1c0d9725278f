package answer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// Column is the header looked up in uploaded tables. Matching is exact and case-sensitive.
const Column = "answer"

// NoColumn is returned when the table has no Column header.
const NoColumn = "No 'answer' column found in the CSV file."

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a CSV loaded fully into memory.
type Table struct {
	Header []string
	Rows   [][]string
}

// Lookup returns the first-row value of the answer column in the CSV at path.
// It never fails: every problem becomes a message meant to be shown to the model.
func Lookup(path string) string {
	t, err := Load(path)
	if err != nil {
		return fmt.Sprintf("Error processing CSV file: %v", err)
	}
	v, ok, err := t.First(Column)
	if err != nil {
		return fmt.Sprintf("Error processing CSV file: %v", err)
	}
	if !ok {
		return NoColumn
	}
	return v
}

// Load reads and parses the whole file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return Parse(data)
}

// Parse decodes CSV data whose first record is the header.
// Short rows are padded with empty cells; rows wider than the header are rejected.
func Parse(data []byte) (Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return Table{}, errors.New("file is not valid UTF-8")
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, errors.New("no columns to parse from file")
	}
	header := records[0]
	rows := records[1:]
	for i, row := range rows {
		switch {
		case len(row) > len(header):
			// header is line 1
			return Table{}, fmt.Errorf("expected %d fields in line %d, saw %d", len(header), i+2, len(row))
		case len(row) < len(header):
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		}
	}
	return Table{Header: header, Rows: rows}, nil
}

// First returns the value of column in the first data row.
// ok is false when the column does not exist; an empty table is an error.
func (t Table) First(column string) (value string, ok bool, err error) {
	idx := -1
	for i, h := range t.Header {
		if h == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false, nil
	}
	if len(t.Rows) == 0 {
		return "", true, fmt.Errorf("column %q has no rows", column)
	}
	return t.Rows[0][idx], true, nil
}
