// Package ingest turns an uploaded CSV or Excel file into header-keyed rows.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrFormat is wrapped by every FormatError.
var ErrFormat = errors.New("empty or unrecognized")

// FormatError reports that no usable header or data rows were found.
type FormatError struct {
	Source string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Source, ErrFormat, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// RawRow maps an original column header to its cell value.
type RawRow map[string]string

// Table is the parsed upload: the resolved header plus one RawRow per data row.
type Table struct {
	Columns []string
	Rows    []RawRow
}

// Ingest parses data according to the extension of filename.
func Ingest(data []byte, filename string) (*Table, error) {
	if isSpreadsheet(filename) {
		return ingestSpreadsheet(data)
	}
	return ingestDelimited(data)
}

func isSpreadsheet(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// isGenericHeader reports whether every cell is blank or a placeholder
// name such as "Column1" or "Unnamed: 0".
func isGenericHeader(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		lower := strings.ToLower(strings.TrimSpace(cell))
		if lower == "" || strings.HasPrefix(lower, "column") || strings.HasPrefix(lower, "unnamed") {
			continue
		}
		return false
	}
	return true
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// keyRows builds RawRows under header; missing trailing cells become "".
func keyRows(header []string, records [][]string) []RawRow {
	rows := make([]RawRow, 0, len(records))
	for _, record := range records {
		row := make(RawRow, len(header))
		for i, name := range header {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			row[name] = value
		}
		rows = append(rows, row)
	}
	return rows
}
