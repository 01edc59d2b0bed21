package chart

import (
	"fmt"
	"math"

	"github.com/matzehuels/rampboard/pkg/proportion"
)

const (
	DefaultWidth  = 720.0
	DefaultHeight = 420.0

	marginTop    = 48.0
	marginRight  = 24.0
	marginBottom = 64.0
	marginLeft   = 56.0

	barFill  = 0.7
	numTicks = 5
)

// Bar is one ranked entry placed in chart coordinates. X and Y are the
// top-left corner of the bar.
type Bar struct {
	Column     string
	Proportion float64
	Rank       int
	Color      proportion.Color
	Label      string
	X, Y, W, H float64
}

// Tick is a y-axis gridline.
type Tick struct {
	Value float64
	Y     float64
	Label string
}

// Layout is a vertical bar chart ready to draw.
type Layout struct {
	Width, Height float64
	PlotLeft      float64
	PlotTop       float64
	PlotWidth     float64
	PlotHeight    float64
	Max           float64
	Bars          []Bar
	Ticks         []Tick
}

// Baseline is the y coordinate of the zero line.
func (l Layout) Baseline() float64 { return l.PlotTop + l.PlotHeight }

// ComputeLayout places r's entries as bars in rank order. The y axis runs
// from zero to the largest proportion; an all-zero ranking is drawn against
// an axis of 1 so that every bar is flat.
func ComputeLayout(r proportion.Ranked, width, height float64, percent bool) Layout {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	l := Layout{
		Width:      width,
		Height:     height,
		PlotLeft:   marginLeft,
		PlotTop:    marginTop,
		PlotWidth:  math.Max(1, width-marginLeft-marginRight),
		PlotHeight: math.Max(1, height-marginTop-marginBottom),
	}

	for _, e := range r.Entries {
		l.Max = math.Max(l.Max, e.Proportion)
	}
	if l.Max <= 0 {
		l.Max = 1
	}

	for i := 0; i <= numTicks; i++ {
		v := l.Max * float64(i) / numTicks
		l.Ticks = append(l.Ticks, Tick{
			Value: v,
			Y:     l.Baseline() - v/l.Max*l.PlotHeight,
			Label: FormatValue(v, percent),
		})
	}

	if len(r.Entries) == 0 {
		return l
	}
	band := l.PlotWidth / float64(len(r.Entries))
	w := band * barFill
	for i, e := range r.Entries {
		h := e.Proportion / l.Max * l.PlotHeight
		l.Bars = append(l.Bars, Bar{
			Column:     e.Column,
			Proportion: e.Proportion,
			Rank:       e.Rank,
			Color:      e.Color,
			Label:      FormatValue(e.Proportion, percent),
			X:          l.PlotLeft + float64(i)*band + (band-w)/2,
			Y:          l.Baseline() - h,
			W:          w,
			H:          h,
		})
	}
	return l
}

// FormatValue renders a proportion as "70.0%" or, without percent, "0.700".
func FormatValue(p float64, percent bool) string {
	if percent {
		return fmt.Sprintf("%.1f%%", p*100)
	}
	return fmt.Sprintf("%.3f", p)
}
