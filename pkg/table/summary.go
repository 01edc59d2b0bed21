package table

import (
	"github.com/montanaflynn/stats"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// ColumnSummary describes one column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Missing int    `json:"missing"`

	// Numeric columns only.
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Sum  float64 `json:"sum,omitempty"`

	// Categorical columns only.
	Distinct int `json:"distinct,omitempty"`
}

// Summary is a per-table diagnostic used to drive user-facing messages.
type Summary struct {
	Rows    int             `json:"rows"`
	Columns int             `json:"columns"`
	Details []ColumnSummary `json:"details"`
}

// Column returns the summary of the named column.
func (s Summary) Column(name string) (ColumnSummary, bool) {
	for _, c := range s.Details {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// Summarize reduces each column to its missing count and inferred kind.
// A column is numeric when it has at least one value and every non-missing
// cell parses as a number.
func (t *Table) Summarize() Summary {
	s := Summary{
		Rows:    len(t.Rows),
		Columns: len(t.Columns),
		Details: make([]ColumnSummary, 0, len(t.Columns)),
	}
	for _, col := range t.Columns {
		s.Details = append(s.Details, t.summarizeColumn(col))
	}
	return s
}

func (t *Table) summarizeColumn(col string) ColumnSummary {
	cs := ColumnSummary{Name: col, Kind: KindNumeric}
	var values stats.Float64Data
	distinct := make(map[string]bool)

	for _, row := range t.Rows {
		cell := row[col]
		if IsMissing(cell) {
			cs.Missing++
			continue
		}
		distinct[cell] = true
		if v, ok := ParseNumber(cell); ok {
			values = append(values, v)
		} else {
			cs.Kind = KindCategorical
		}
	}

	if cs.Kind == KindNumeric && len(values) == 0 {
		cs.Kind = KindCategorical
	}
	if cs.Kind == KindCategorical {
		cs.Distinct = len(distinct)
		return cs
	}

	cs.Min, _ = stats.Min(values)
	cs.Max, _ = stats.Max(values)
	cs.Mean, _ = stats.Mean(values)
	cs.Sum, _ = stats.Sum(values)
	return cs
}

// NumericColumns returns the columns inferred as numeric, in header order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Summarize().Details {
		if c.Kind == KindNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// CategoricalColumns returns the columns inferred as categorical, in header order.
func (t *Table) CategoricalColumns() []string {
	var out []string
	for _, c := range t.Summarize().Details {
		if c.Kind == KindCategorical {
			out = append(out, c.Name)
		}
	}
	return out
}
