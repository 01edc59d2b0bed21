package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/rampboard/pkg/proportion"
)

const (
	textColor = "#333333"
	gridColor = "#e8e8e8"
	fontSize  = 12
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title   string
	width   float64
	height  float64
	percent bool
}

// WithTitle sets the heading drawn above the plot.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithSize sets the viewport in pixels. Defaults are [DefaultWidth] and
// [DefaultHeight].
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithPercentLabels labels bars as percentages (the default) or, when off,
// as raw proportions.
func WithPercentLabels(on bool) SVGOption { return func(r *svgRenderer) { r.percent = on } }

// RenderSVG draws r as a vertical bar chart, one bar per entry in rank order,
// each filled with its rank color.
func RenderSVG(r proportion.Ranked, opts ...SVGOption) []byte {
	s := svgRenderer{width: DefaultWidth, height: DefaultHeight, percent: true}
	for _, opt := range opts {
		opt(&s)
	}
	l := ComputeLayout(r, s.width, s.height, s.percent)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, `  <rect width="%.0f" height="%.0f" fill="#ffffff"/>`+"\n", l.Width, l.Height)

	if s.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="28" font-size="16" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`+"\n",
			l.Width/2, textColor, escape(s.title))
	}

	renderTicks(&buf, l)
	renderBars(&buf, l)

	fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
		l.PlotLeft, l.Baseline(), l.PlotLeft+l.PlotWidth, l.Baseline(), textColor)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderTicks(buf *bytes.Buffer, l Layout) {
	for _, t := range l.Ticks {
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
			l.PlotLeft, t.Y, l.PlotLeft+l.PlotWidth, t.Y, gridColor)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`+"\n",
			l.PlotLeft-6, t.Y+4, fontSize-1, textColor, escape(t.Label))
	}
}

func renderBars(buf *bytes.Buffer, l Layout) {
	for _, b := range l.Bars {
		fmt.Fprintf(buf, `  <rect class="bar" data-rank="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="%s"><title>%s: %s</title></rect>`+"\n",
			b.Rank, b.X, b.Y, b.W, b.H, b.Color.Hex(), alpha(b.Color), escape(b.Column), escape(b.Label))
		cx := b.X + b.W/2
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s</text>`+"\n",
			cx, b.Y-6, fontSize, textColor, escape(b.Label))
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s</text>`+"\n",
			cx, l.Baseline()+18, fontSize, textColor, escape(b.Column))
	}
}

func alpha(c proportion.Color) string {
	return fmt.Sprintf("%.2f", c.A)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
