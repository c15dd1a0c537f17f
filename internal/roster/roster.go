// Package roster imports participant lists from start-list CSV files. The
// files come from assorted registration tools: no header row, varying
// delimiters, sometimes over-quoted fields. The importer normalizes all of
// that and hands the core plain string rows.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnparsable is returned when no supported delimiter yields a table.
var ErrUnparsable = errors.New("could not parse roster file")

// delimiters in detection order; semicolon first because that is what the
// common European registration exports produce.
var delimiters = []rune{';', ',', '\t'}

// Load reads and parses a roster CSV from disk.
func Load(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	rows, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return rows, nil
}

// Parse splits CSV content into rows, trying each supported delimiter until
// one produces more than a single column. Fields come back trimmed of
// whitespace and surrounding quotes; rows with no content at all are
// dropped.
func Parse(content string) ([][]string, error) {
	for _, delim := range delimiters {
		rows, ok := tryDelimiter(content, delim)
		if ok {
			return rows, nil
		}
	}
	return nil, ErrUnparsable
}

func tryDelimiter(content string, delim rune) ([][]string, bool) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, false
	}

	var (
		rows     [][]string
		multiCol bool
	)
	for _, record := range records {
		row := make([]string, len(record))
		empty := true
		for i, field := range record {
			field = strings.TrimSpace(field)
			field = strings.Trim(field, `"`)
			field = strings.TrimSpace(field)
			row[i] = field
			if field != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		if len(row) > 1 {
			multiCol = true
		}
		rows = append(rows, row)
	}

	if !multiCol || len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

// ColumnLetter names a zero-based column index the way spreadsheets do:
// A..Z, then AA, AB, and so on. Import dialogs and exports label roster
// columns of headerless files with these.
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	if index < 26 {
		return string(rune('A' + index))
	}
	return string(rune('A'+index/26-1)) + string(rune('A'+index%26))
}
