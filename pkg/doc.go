// Package pkg holds the rampboard libraries.
//
// # Overview
//
// rampboard turns a CSV of counts into per-group proportions and draws the
// selected group as a ranked bar chart whose top bar is highlighted and whose
// remaining bars fade with rank. The pkg directory is organized as:
//
//  1. [table], [io] - loading: encoding fallback, coercion, summaries
//  2. [proportion], [chart] - the computation and its plotting-ready output
//  3. [cache], [session], [config] - infrastructure
//  4. [pipeline] - orchestration (load → compute → render)
//
// # Data flow
//
//	CSV bytes (utf-8, cp949, euc-kr, latin1, ...)
//	         ↓
//	    [io] ReadTable (first encoding that decodes and parses)
//	         ↓
//	    [table] Validate (schema check, numeric coercion)
//	         ↓
//	    [proportion] Compute, Rank (normalize, sort, color ramp)
//	         ↓
//	    [chart] SVG / JSON, [io] CSV export
//
// # Quick Start
//
//	t, _, err := io.ImportCSV("survey.csv", nil)
//	g, err := proportion.Compute(t, "region", []string{"q1", "q2"})
//	r, err := g.Ranked("Seoul", proportion.DefaultPalette)
//	svg := chart.RenderSVG(r, chart.WithTitle("Seoul"))
package pkg
