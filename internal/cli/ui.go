package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/rampboard/pkg/chart"
	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/proportion"
	tbl "github.com/matzehuels/rampboard/pkg/table"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	barGlyph    = "█"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// PrintError prints err with its hint. Data errors print their message
// without the code prefix.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
	if hint := errors.Hint(err); hint != "" {
		fmt.Fprintln(w, "  "+StyleDim.Render(hint))
	}
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints table statistics on a single line.
func printStats(w io.Writer, rows, groups int, cached bool) {
	parts := []string{fmt.Sprintf("%d rows", rows), fmt.Sprintf("%d groups", groups)}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line+StyleDim.Render(" · ")+statusStyle.Render(status))
}

// =============================================================================
// Charts and Tables
// =============================================================================

// terminalBackground is what ramp colors are blended over, since terminals
// have no alpha channel.
func terminalBackground() proportion.Color {
	if lipgloss.HasDarkBackground() {
		return proportion.RGB(0, 0, 0)
	}
	return proportion.RGB(255, 255, 255)
}

// renderBars draws one horizontal bar per entry, scaled so the top entry
// spans width cells, in the entry's color blended over bg.
func renderBars(r proportion.Ranked, width int, percent bool, bg proportion.Color) string {
	if len(r.Entries) == 0 {
		return ""
	}
	labelWidth := 0
	for _, e := range r.Entries {
		labelWidth = max(labelWidth, lipgloss.Width(e.Column))
	}
	top := r.Entries[0].Proportion
	labelStyle := lipgloss.NewStyle().Width(labelWidth).Foreground(colorGray)

	var b strings.Builder
	for _, e := range r.Entries {
		n := 0
		if top > 0 {
			n = int(math.Round(e.Proportion / top * float64(width)))
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.Blend(bg).Hex())).
			Render(strings.Repeat(barGlyph, n))
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render(e.Column), bar, StyleValue.Render(chart.FormatValue(e.Proportion, percent)))
	}
	return b.String()
}

// renderRankTable lists rank, column, proportion and color.
func renderRankTable(r proportion.Ranked, percent bool) string {
	rows := make([][]string, len(r.Entries))
	for i, e := range r.Entries {
		rows[i] = []string{
			strconv.Itoa(e.Rank + 1),
			e.Column,
			chart.FormatValue(e.Proportion, percent),
			e.Color.RGBA(),
		}
	}
	return newTable("#", "Column", "Share", "Color").Rows(rows...).Render()
}

// renderSummaryTable lists per-column kind, missing count and range.
func renderSummaryTable(s tbl.Summary) string {
	rows := make([][]string, len(s.Details))
	for i, c := range s.Details {
		detail := fmt.Sprintf("%d distinct", c.Distinct)
		if c.Kind == tbl.KindNumeric {
			detail = fmt.Sprintf("min %s  max %s  mean %s", formatNumber(c.Min), formatNumber(c.Max), formatNumber(c.Mean))
		}
		rows[i] = []string{c.Name, string(c.Kind), strconv.Itoa(c.Missing), detail}
	}
	return newTable("Column", "Kind", "Missing", "Values").Rows(rows...).Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
