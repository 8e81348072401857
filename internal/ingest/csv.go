package ingest

import (
	"encoding/csv"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var delimiterCandidates = []rune{',', ';', '\t'}

// DetectDelimiter counts the candidate delimiters in the first 4KB and
// returns the most frequent one. Comma wins when none occur.
func DetectDelimiter(text string) rune {
	sample := text
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
	}

	best, bestCount := ',', 0
	for _, candidate := range delimiterCandidates {
		if count := strings.Count(sample, string(candidate)); count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}

// decodeText strips a byte-order mark and drops invalid UTF-8 sequences.
func decodeText(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		decoded = data
	}
	text := strings.ToValidUTF8(string(decoded), "")
	text = strings.ReplaceAll(text, "\ufffd", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func ingestDelimited(data []byte) (*Table, error) {
	text := decodeText(data)
	delimiter := DetectDelimiter(text)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &FormatError{Source: "CSV", Reason: fmt.Sprintf("parse failed: %v", err)}
	}

	var rows [][]string
	for _, record := range records {
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, &FormatError{Source: "CSV", Reason: "no rows"}
	}

	header, body := rows[0], rows[1:]
	if isGenericHeader(header) && len(rows) >= 2 {
		header, body = rows[1], rows[2:]
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	if isBlank(header) {
		return nil, &FormatError{Source: "CSV", Reason: "header not recognized"}
	}
	if len(body) == 0 {
		return nil, &FormatError{Source: "CSV", Reason: "no data rows"}
	}

	return &Table{Columns: header, Rows: keyRows(header, body)}, nil
}
