package proportion

import (
	"math"
	"slices"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/table"
)

// Entry is one value column's share within a group.
type Entry struct {
	Column     string  `json:"column"`
	Proportion float64 `json:"proportion"`
}

// Group holds the proportions of one key value, in value-column order.
type Group struct {
	Key     string  `json:"key"`
	Entries []Entry `json:"entries"`
}

// Sum returns the total of the group's proportions: 1 for a non-empty
// group, 0 for a group whose values summed to zero.
func (g Group) Sum() float64 {
	var s float64
	for _, e := range g.Entries {
		s += e.Proportion
	}
	return s
}

// Grouped maps each key value to its proportion vector. Groups keep the
// first-seen order of keys in the source table.
type Grouped struct {
	KeyColumn string   `json:"key_column"`
	Columns   []string `json:"columns"`
	Groups    []Group  `json:"groups"`
}

// Lookup returns the group for key.
func (g *Grouped) Lookup(key string) (Group, bool) {
	for _, grp := range g.Groups {
		if grp.Key == key {
			return grp, true
		}
	}
	return Group{}, false
}

// Ranked looks up key and ranks its entries with palette.
func (g *Grouped) Ranked(key string, palette Palette) (Ranked, error) {
	grp, ok := g.Lookup(key)
	if !ok {
		return Ranked{}, errors.New(errors.ErrCodeKeyNotFound, "no group %q in column %q", key, g.KeyColumn)
	}
	r, err := Rank(grp.Entries, palette)
	if err != nil {
		return Ranked{}, err
	}
	r.Key = key
	return r, nil
}

// Compute groups t by keyColumn, sums every value column within each group
// and divides each sum by the group's total across all value columns.
// A group whose total is zero gets zero for every column.
//
// Missing, non-numeric and negative cells contribute nothing, so every
// proportion is non-negative. Compute does not modify t.
func Compute(t *table.Table, keyColumn string, valueColumns []string) (*Grouped, error) {
	typed, err := t.Validate(table.Schema{Key: keyColumn, Values: valueColumns})
	if err != nil {
		return nil, err
	}
	return FromTyped(typed), nil
}

// FromTyped normalizes an already validated table.
func FromTyped(typed *table.Typed) *Grouped {
	cols := typed.Schema.Values
	index := make(map[string]int)
	var order []string
	var sums [][]float64

	for r, key := range typed.Keys {
		i, ok := index[key]
		if !ok {
			i = len(order)
			index[key] = i
			order = append(order, key)
			sums = append(sums, make([]float64, len(cols)))
		}
		for c, v := range typed.Cells[r] {
			// A cell that would overflow the running sum is treated as missing.
			if !math.IsNaN(v) && v > 0 && !math.IsInf(sums[i][c]+v, 1) {
				sums[i][c] += v
			}
		}
	}

	out := &Grouped{
		KeyColumn: typed.Schema.Key,
		Columns:   append([]string(nil), cols...),
		Groups:    make([]Group, len(order)),
	}
	for i, key := range order {
		out.Groups[i] = Group{Key: key, Entries: normalize(cols, sums[i])}
	}
	return out
}

// normalize divides each sum by the total. When the total overflows, sums
// are scaled by their maximum first.
func normalize(cols []string, sums []float64) []Entry {
	scale := 1.0
	total := 0.0
	for _, v := range sums {
		total += v
	}
	if math.IsInf(total, 1) {
		scale = slices.Max(sums)
		total = 0
		for _, v := range sums {
			total += v / scale
		}
	}
	entries := make([]Entry, len(cols))
	for i, c := range cols {
		p := 0.0
		if total != 0 {
			p = sums[i] / scale / total
		}
		entries[i] = Entry{Column: c, Proportion: p}
	}
	return entries
}
