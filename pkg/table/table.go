package table

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/rampboard/pkg/errors"
)

// Row maps a column name to its raw cell text.
type Row map[string]string

// Table is an ordered sequence of rows sharing one header.
// Columns preserves header order; every Row is keyed by those names.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates a table from a header and records. Column names are trimmed
// and short records are padded with empty cells.
func New(header []string, records [][]string) *Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = strings.TrimSpace(rec[i])
			} else {
				row[c] = ""
			}
		}
		rows = append(rows, row)
	}
	return &Table{Columns: cols, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Records returns the rows as string slices in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[j] = row[c]
		}
		out[i] = rec
	}
	return out
}

// KeyValues returns the distinct non-missing values of column in
// first-seen order.
func (t *Table) KeyValues(column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		v := row[column]
		if IsMissing(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Head returns a table holding at most n leading rows.
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, len(t.Rows)))
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Preview is the raw leading rows of a table, in column order.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Preview returns the first n rows as records.
func (t *Table) Preview(n int) Preview {
	h := t.Head(n)
	return Preview{Columns: h.Columns, Rows: h.Records()}
}

// Schema names the key column and the value columns of a table.
type Schema struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// Typed is a table that passed schema validation. Keys holds the key value
// of each retained row; Cells holds the value columns in Schema.Values order,
// with NaN marking a missing or non-numeric cell.
type Typed struct {
	Schema Schema
	Keys   []string
	Cells  [][]float64
}

// Validate checks the table against schema once and converts the value
// columns to numbers. Rows with a missing key are dropped.
//
// It fails with SCHEMA_ERROR when the key column is absent, when no value
// columns are given, or when a value column is absent, and with EMPTY_INPUT
// when there is nothing to group.
func (t *Table) Validate(schema Schema) (*Typed, error) {
	if !t.HasColumn(schema.Key) {
		return nil, errors.New(errors.ErrCodeSchema, "key column %q not found", schema.Key)
	}
	if err := errors.ValidateColumnNames(schema.Values); err != nil {
		return nil, err
	}
	for _, v := range schema.Values {
		if !t.HasColumn(v) {
			return nil, errors.New(errors.ErrCodeSchema, "value column %q not found", v)
		}
	}
	if len(t.Rows) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "table has no rows")
	}

	typed := &Typed{
		Schema: schema,
		Keys:   make([]string, 0, len(t.Rows)),
		Cells:  make([][]float64, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		key := row[schema.Key]
		if IsMissing(key) {
			continue
		}
		cells := make([]float64, len(schema.Values))
		for i, col := range schema.Values {
			if v, ok := ParseNumber(row[col]); ok {
				cells[i] = v
			} else {
				cells[i] = math.NaN()
			}
		}
		typed.Keys = append(typed.Keys, key)
		typed.Cells = append(typed.Cells, cells)
	}
	if len(typed.Keys) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no row has a value in key column %q", schema.Key)
	}
	return typed, nil
}
