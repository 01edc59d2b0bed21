package proportion

import (
	"math"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/table"
)

const tolerance = 1e-9

func scenarioTable() *table.Table {
	return table.New(
		[]string{"region", "q1", "q2"},
		[][]string{
			{"A", "10", "30"},
			{"A", "5", "5"},
			{"B", "0", "0"},
		},
	)
}

func TestComputeScenario(t *testing.T) {
	g, err := Compute(scenarioTable(), "region", []string{"q1", "q2"})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if len(g.Groups) != 2 || g.Groups[0].Key != "A" || g.Groups[1].Key != "B" {
		t.Fatalf("groups = %+v, want keys A, B", g.Groups)
	}

	a, _ := g.Lookup("A")
	if math.Abs(a.Entries[0].Proportion-0.30) > tolerance || math.Abs(a.Entries[1].Proportion-0.70) > tolerance {
		t.Errorf("A = %+v, want q1=0.30 q2=0.70", a.Entries)
	}
	if a.Entries[0].Column != "q1" || a.Entries[1].Column != "q2" {
		t.Errorf("A entries out of column order: %+v", a.Entries)
	}

	b, _ := g.Lookup("B")
	for _, e := range b.Entries {
		if e.Proportion != 0 {
			t.Errorf("B.%s = %v, want 0", e.Column, e.Proportion)
		}
	}
}

func TestComputeIgnoresBadCells(t *testing.T) {
	tbl := table.New(
		[]string{"k", "a", "b"},
		[][]string{
			{"x", "1", "oops"},
			{"x", "", "3"},
			{"x", "-5", "0"},
		},
	)
	g, err := Compute(tbl, "k", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	x, _ := g.Lookup("x")
	if math.Abs(x.Entries[0].Proportion-0.25) > tolerance || math.Abs(x.Entries[1].Proportion-0.75) > tolerance {
		t.Errorf("x = %+v, want a=0.25 b=0.75", x.Entries)
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name   string
		table  *table.Table
		key    string
		values []string
		code   errors.Code
	}{
		{"missing key", scenarioTable(), "country", []string{"q1"}, errors.ErrCodeSchema},
		{"no values", scenarioTable(), "region", nil, errors.ErrCodeSchema},
		{"unknown value", scenarioTable(), "region", []string{"q3"}, errors.ErrCodeSchema},
		{"empty table", table.New([]string{"region", "q1"}, nil), "region", []string{"q1"}, errors.ErrCodeEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.table, tt.key, tt.values)
			if !errors.Is(err, tt.code) {
				t.Errorf("Compute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestComputeDoesNotModifyInput(t *testing.T) {
	tbl := scenarioTable()
	before := tbl.Records()
	if _, err := Compute(tbl, "region", []string{"q1", "q2"}); err != nil {
		t.Fatal(err)
	}
	after := tbl.Records()
	for i := range before {
		if !slices.Equal(before[i], after[i]) {
			t.Errorf("row %d changed: %v -> %v", i, before[i], after[i])
		}
	}
}

// randomTable builds a table with a few keys and non-negative integer cells,
// some of them zero so that all-zero groups appear.
func randomTable(rng *rand.Rand, rows, cols int) (*table.Table, []string) {
	header := []string{"key"}
	var values []string
	for c := 0; c < cols; c++ {
		name := "v" + strconv.Itoa(c)
		header = append(header, name)
		values = append(values, name)
	}
	records := make([][]string, rows)
	for r := range records {
		rec := []string{"k" + strconv.Itoa(rng.Intn(5))}
		for c := 0; c < cols; c++ {
			n := 0
			if rng.Intn(3) > 0 {
				n = rng.Intn(1000)
			}
			rec = append(rec, strconv.Itoa(n))
		}
		records[r] = rec
	}
	return table.New(header, records), values
}

func TestComputeProportionsSumToOneOrZero(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		tbl, values := randomTable(rng, 1+rng.Intn(20), 1+rng.Intn(6))
		g, err := Compute(tbl, "key", values)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		for _, grp := range g.Groups {
			if len(grp.Entries) != len(values) {
				t.Fatalf("trial %d: group %s has %d entries, want %d", trial, grp.Key, len(grp.Entries), len(values))
			}
			sum := grp.Sum()
			if math.Abs(sum-1) > tolerance && sum != 0 {
				t.Errorf("trial %d: group %s sums to %v", trial, grp.Key, sum)
			}
			for _, e := range grp.Entries {
				if e.Proportion < 0 {
					t.Errorf("trial %d: negative proportion %v", trial, e.Proportion)
				}
			}
		}
	}
}

func TestComputeNearFloatLimit(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    []float64
	}{
		{"overflowing cell", [][]string{{"A", "1e308", "1e308"}, {"A", "1e308", "1"}}, []float64{0.5, 0.5}},
		{"overflowing total", [][]string{{"A", "1.5e308", "1.5e308"}}, []float64{0.5, 0.5}},
		{"one large column", [][]string{{"A", "1e308", "0"}}, []float64{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New([]string{"key", "q1", "q2"}, tt.records)
			g, err := Compute(tbl, "key", []string{"q1", "q2"})
			if err != nil {
				t.Fatalf("Compute() error: %v", err)
			}
			entries := g.Groups[0].Entries
			for i, e := range entries {
				if math.IsNaN(e.Proportion) || math.IsInf(e.Proportion, 0) {
					t.Fatalf("%s = %v, want finite", e.Column, e.Proportion)
				}
				if math.Abs(e.Proportion-tt.want[i]) > tolerance {
					t.Errorf("%s = %v, want %v", e.Column, e.Proportion, tt.want[i])
				}
			}
		})
	}
}

func TestGroupedRanked(t *testing.T) {
	g, err := Compute(scenarioTable(), "region", []string{"q1", "q2"})
	if err != nil {
		t.Fatal(err)
	}

	r, err := g.Ranked("A", DefaultPalette)
	if err != nil {
		t.Fatalf("Ranked() error: %v", err)
	}
	if r.Key != "A" || r.Entries[0].Column != "q2" {
		t.Errorf("Ranked(A) = %+v", r)
	}

	if _, err := g.Ranked("Z", DefaultPalette); !errors.Is(err, errors.ErrCodeKeyNotFound) {
		t.Errorf("Ranked(Z) error = %v, want KEY_NOT_FOUND", err)
	}
}
