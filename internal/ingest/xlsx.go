package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const minHeaderCells = 3

func ingestSpreadsheet(data []byte) (*Table, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Source: "Excel", Reason: fmt.Sprintf("open failed: %v", err)}
	}
	defer book.Close()

	sheet := book.GetSheetName(book.GetActiveSheetIndex())
	if sheet == "" {
		if sheets := book.GetSheetList(); len(sheets) > 0 {
			sheet = sheets[0]
		}
	}

	records, err := book.GetRows(sheet)
	if err != nil {
		return nil, &FormatError{Source: "Excel", Reason: fmt.Sprintf("read rows failed: %v", err)}
	}

	var header []string
	var body [][]string
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		if header == nil {
			if candidate, ok := headerCandidate(record); ok {
				header = candidate
			}
			continue
		}
		body = append(body, record)
	}

	if header == nil {
		return nil, &FormatError{Source: "Excel", Reason: "header not recognized"}
	}
	if len(body) == 0 {
		return nil, &FormatError{Source: "Excel", Reason: "no data rows"}
	}

	return &Table{Columns: header, Rows: keyRows(header, body)}, nil
}

// headerCandidate accepts a row with at least three non-empty cells that is
// not a generic placeholder header.
func headerCandidate(record []string) ([]string, bool) {
	candidate := make([]string, len(record))
	nonEmpty := 0
	for i, cell := range record {
		candidate[i] = strings.TrimSpace(cell)
		if candidate[i] != "" {
			nonEmpty++
		}
	}
	if nonEmpty < minHeaderCells || isGenericHeader(candidate) {
		return nil, false
	}
	return candidate, true
}
