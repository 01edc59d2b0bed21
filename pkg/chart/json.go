package chart

import (
	"encoding/json"

	"github.com/matzehuels/rampboard/pkg/proportion"
)

// Series is the plotting-ready form of a ranking: parallel arrays that chart
// libraries accept directly.
type Series struct {
	Title      string    `json:"title,omitempty"`
	Key        string    `json:"key,omitempty"`
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
	Colors     []string  `json:"colors"`
	Labels     []string  `json:"labels"`
}

// NewSeries flattens r. Colors use the CSS rgba() form; labels are
// percentages when percent is set and raw proportions otherwise.
func NewSeries(r proportion.Ranked, title string, percent bool) Series {
	s := Series{
		Title:      title,
		Key:        r.Key,
		Categories: make([]string, len(r.Entries)),
		Values:     make([]float64, len(r.Entries)),
		Colors:     make([]string, len(r.Entries)),
		Labels:     make([]string, len(r.Entries)),
	}
	for i, e := range r.Entries {
		s.Categories[i] = e.Column
		s.Values[i] = e.Proportion
		s.Colors[i] = e.Color.RGBA()
		s.Labels[i] = FormatValue(e.Proportion, percent)
	}
	return s
}

// RenderJSON encodes [NewSeries] of r.
func RenderJSON(r proportion.Ranked, title string, percent bool) ([]byte, error) {
	return json.MarshalIndent(NewSeries(r, title, percent), "", "  ")
}
