package batch

import (
	"cmp"
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Problem types as shown in reports.
const (
	TypeError   = "Error"
	TypeWarning = "Warning"
)

// Problem is one message and the number of records that raised it.
type Problem struct {
	Column      string
	Type        string
	Message     string
	RecordCount int
}

// DetailRow is one message raised by one record.
type DetailRow struct {
	Key     string
	Column  string
	Type    string
	Value   string
	Message string
}

// Details lists every message in record order. Within a record, questions
// keep catalog order and errors precede warnings.
func (b *Batch) Details() []DetailRow {
	var rows []DetailRow
	for _, rec := range b.Records {
		if rec.MissingKey() {
			rows = append(rows, DetailRow{
				Column:  b.KeyColumn,
				Type:    TypeError,
				Message: missingKeyMessage(b.KeyColumn),
			})
			continue
		}
		for _, q := range rec.Result.Questions {
			value := valueFor(rec.Values, q.Code)
			for _, msg := range q.FatalWarnings {
				rows = append(rows, DetailRow{Key: rec.Key, Column: q.Code, Type: TypeError, Value: value, Message: msg})
			}
			for _, msg := range q.Warnings {
				rows = append(rows, DetailRow{Key: rec.Key, Column: q.Code, Type: TypeWarning, Value: value, Message: msg})
			}
		}
	}
	return rows
}

// Problems groups the details by column, type and message, counting each
// record once per group. Groups are sorted by column, then errors before
// warnings, then message.
func (b *Batch) Problems() []Problem {
	type groupKey struct{ column, typ, message string }
	counts := make(map[groupKey]int)
	seen := make(map[groupKey]map[int]bool)

	for i, rec := range b.Records {
		add := func(column, typ, message string) {
			k := groupKey{column, typ, message}
			if seen[k] == nil {
				seen[k] = make(map[int]bool)
			}
			if !seen[k][i] {
				seen[k][i] = true
				counts[k]++
			}
		}
		if rec.MissingKey() {
			add(b.KeyColumn, TypeError, missingKeyMessage(b.KeyColumn))
			continue
		}
		for _, q := range rec.Result.Questions {
			for _, msg := range q.FatalWarnings {
				add(q.Code, TypeError, msg)
			}
			for _, msg := range q.Warnings {
				add(q.Code, TypeWarning, msg)
			}
		}
	}

	out := make([]Problem, 0, len(counts))
	for k, n := range counts {
		out = append(out, Problem{Column: k.column, Type: k.typ, Message: k.message, RecordCount: n})
	}
	slices.SortFunc(out, func(a, b Problem) int {
		return cmp.Or(
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Type, b.Type),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return out
}

// WriteSummaryReport writes the batch header and the grouped problems as CSV.
func WriteSummaryReport(w io.Writer, b *Batch) error {
	cw := csv.NewWriter(w)
	header := [][]string{
		{"File name", b.FileName},
		{"Status", b.Status().String()},
		{"Message", b.Message},
		{"Number of records", strconv.Itoa(b.RecordCount())},
		{"Number of records with problems", strconv.Itoa(b.ProblemRecordCount())},
		{},
		{"Column", "Type", "Message", "Number of records"},
	}
	if err := cw.WriteAll(header); err != nil {
		return err
	}
	for _, p := range b.Problems() {
		if err := cw.Write([]string{p.Column, p.Type, p.Message, strconv.Itoa(p.RecordCount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetailReport writes one CSV row per message.
func WriteDetailReport(w io.Writer, b *Batch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{b.KeyColumn, "Column", "Type", "Value", "Message"}); err != nil {
		return err
	}
	for _, d := range b.Details() {
		if err := cw.Write([]string{d.Key, d.Column, d.Type, d.Value, d.Message}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func missingKeyMessage(column string) string {
	return "Record has no " + column
}

// valueFor finds the raw cell for a question code; headers may differ in
// case from the catalog.
func valueFor(values map[string]string, code string) string {
	if v, ok := values[code]; ok {
		return v
	}
	for k, v := range values {
		if strings.EqualFold(k, code) {
			return v
		}
	}
	return ""
}
