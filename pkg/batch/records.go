package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultKeyColumn identifies each record of a batch file.
const DefaultKeyColumn = "BabyCode"

// Record is one data row of a batch file.
type Record struct {
	Line   int
	Values map[string]string
}

// Key returns the trimmed value of the key column.
func (r Record) Key(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// ReadRecords parses a batch CSV with a header row. A file without data rows
// yields ErrEmpty, a header without keyColumn yields ErrNoKeyColumn, and
// anything that is not valid UTF-8 CSV yields ErrBadFormat.
func ReadRecords(r io.Reader, keyColumn string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, errors.Join(ErrBadFormat, err)
	}
	for i, h := range header {
		if !utf8.ValidString(h) {
			return nil, fmt.Errorf("%w: header is not UTF-8", ErrBadFormat)
		}
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []Record
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrBadFormat, err)
		}
		line, _ := cr.FieldPos(0)
		values := make(map[string]string, len(header))
		for i, v := range rec {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("%w: line %d is not UTF-8", ErrBadFormat, line)
			}
			if i < len(header) {
				values[header[i]] = v
			}
		}
		records = append(records, Record{Line: line, Values: values})
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}
	if !slices.Contains(header, keyColumn) {
		return nil, fmt.Errorf("%w: %s", ErrNoKeyColumn, keyColumn)
	}
	return records, nil
}
