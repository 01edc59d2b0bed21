package table

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/rampboard/pkg/errors"
)

func scenarioTable() *Table {
	return New(
		[]string{"region", "q1", "q2"},
		[][]string{
			{"A", "10", "30"},
			{"A", "5", "5"},
			{"B", "0", "0"},
		},
	)
}

func TestNewTrimsAndPads(t *testing.T) {
	tbl := New([]string{" region ", "q1"}, [][]string{{" A ", " 1 "}, {"B"}})

	if !slices.Equal(tbl.Columns, []string{"region", "q1"}) {
		t.Fatalf("Columns = %v", tbl.Columns)
	}
	if tbl.Rows[0]["region"] != "A" || tbl.Rows[0]["q1"] != "1" {
		t.Errorf("row 0 = %v", tbl.Rows[0])
	}
	if v, ok := tbl.Rows[1]["q1"]; !ok || v != "" {
		t.Errorf("short record not padded: %v", tbl.Rows[1])
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestKeyValues(t *testing.T) {
	tbl := New([]string{"k"}, [][]string{{"b"}, {"a"}, {"b"}, {""}, {"c"}})
	got := tbl.KeyValues("k")
	want := []string{"b", "a", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("KeyValues() = %v, want %v", got, want)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	tbl := scenarioTable()
	again := New(tbl.Columns, tbl.Records())
	if !slices.Equal(again.Columns, tbl.Columns) || again.Len() != tbl.Len() {
		t.Fatalf("round trip changed shape")
	}
	for i := range tbl.Rows {
		for _, c := range tbl.Columns {
			if again.Rows[i][c] != tbl.Rows[i][c] {
				t.Errorf("row %d col %s = %q, want %q", i, c, again.Rows[i][c], tbl.Rows[i][c])
			}
		}
	}
}

func TestHead(t *testing.T) {
	tbl := scenarioTable()
	tests := []struct {
		n    int
		want int
	}{
		{2, 2},
		{200, 3},
		{0, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := tbl.Head(tt.n).Len(); got != tt.want {
			t.Errorf("Head(%d).Len() = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	p := scenarioTable().Preview(2)
	if !slices.Equal(p.Columns, []string{"region", "q1", "q2"}) {
		t.Errorf("columns = %v", p.Columns)
	}
	if len(p.Rows) != 2 || !slices.Equal(p.Rows[0], []string{"A", "10", "30"}) {
		t.Errorf("rows = %v", p.Rows)
	}
}

func TestValidate(t *testing.T) {
	tbl := scenarioTable()

	typed, err := tbl.Validate(Schema{Key: "region", Values: []string{"q1", "q2"}})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !slices.Equal(typed.Keys, []string{"A", "A", "B"}) {
		t.Errorf("Keys = %v", typed.Keys)
	}
	if typed.Cells[0][0] != 10 || typed.Cells[0][1] != 30 {
		t.Errorf("Cells[0] = %v", typed.Cells[0])
	}
}

func TestValidateMarksMissingCells(t *testing.T) {
	tbl := New([]string{"k", "v"}, [][]string{{"a", "n/a"}, {"a", "oops"}, {"", "3"}})

	typed, err := tbl.Validate(Schema{Key: "k", Values: []string{"v"}})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(typed.Keys) != 2 {
		t.Fatalf("rows with missing key should be dropped, got %d rows", len(typed.Keys))
	}
	for i, cells := range typed.Cells {
		if !math.IsNaN(cells[0]) {
			t.Errorf("Cells[%d][0] = %v, want NaN", i, cells[0])
		}
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		table  *Table
		schema Schema
		code   errors.Code
	}{
		{
			name:   "missing key column",
			table:  scenarioTable(),
			schema: Schema{Key: "country", Values: []string{"q1"}},
			code:   errors.ErrCodeSchema,
		},
		{
			name:   "no value columns",
			table:  scenarioTable(),
			schema: Schema{Key: "region"},
			code:   errors.ErrCodeSchema,
		},
		{
			name:   "missing value column",
			table:  scenarioTable(),
			schema: Schema{Key: "region", Values: []string{"q1", "q9"}},
			code:   errors.ErrCodeSchema,
		},
		{
			name:   "zero rows",
			table:  New([]string{"region", "q1"}, nil),
			schema: Schema{Key: "region", Values: []string{"q1"}},
			code:   errors.ErrCodeEmptyInput,
		},
		{
			name:   "every key missing",
			table:  New([]string{"region", "q1"}, [][]string{{"", "1"}}),
			schema: Schema{Key: "region", Values: []string{"q1"}},
			code:   errors.ErrCodeEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.table.Validate(tt.schema)
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
