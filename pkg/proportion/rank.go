package proportion

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/rampboard/pkg/errors"
)

const (
	// FadeStep is how much visual weight each rank below the top loses.
	FadeStep = 0.12

	// FadeFloor keeps low-ranked bars visible.
	FadeFloor = 0.12
)

// FadeFactor returns the opacity applied to the secondary color at rank.
// Rank 0 is the highlight and always has full weight.
func FadeFactor(rank int) float64 {
	if rank <= 0 {
		return 1
	}
	f := 1 - FadeStep*float64(rank)
	// Round away float noise so rank 1 is exactly 0.88.
	f = math.Round(f*1e9) / 1e9
	return max(FadeFloor, f)
}

// RankedEntry is an entry with its rank and assigned color.
type RankedEntry struct {
	Entry
	Rank   int     `json:"rank"`
	Factor float64 `json:"factor"`
	Color  Color   `json:"color"`
}

// Ranked is one key's entries in descending proportion order.
type Ranked struct {
	Key     string        `json:"key,omitempty"`
	Entries []RankedEntry `json:"entries"`
}

// Rank sorts entries by proportion, largest first, keeping the input order
// among equal values, and colors them: rank 0 gets palette.Highlight, later
// ranks get palette.Secondary faded by [FadeFactor].
//
// Entries need only be comparable, not normalized. Rank does not modify its
// input.
func Rank(entries []Entry, palette Palette) (Ranked, error) {
	if len(entries) == 0 {
		return Ranked{}, errors.New(errors.ErrCodeEmptyInput, "nothing to rank")
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(b.Proportion, a.Proportion)
	})

	out := Ranked{Entries: make([]RankedEntry, len(sorted))}
	for i, e := range sorted {
		f := FadeFactor(i)
		out.Entries[i] = RankedEntry{
			Entry:  e,
			Rank:   i,
			Factor: f,
			Color:  palette.ColorAt(i),
		}
	}
	return out, nil
}
