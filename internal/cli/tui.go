package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/proportion"
	"github.com/matzehuels/rampboard/pkg/session"
	"github.com/matzehuels/rampboard/pkg/table"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - Interactive key and column selection
// =============================================================================

// BrowseModel is the bubbletea model behind "rampboard browse". Up and down
// change the key value, left and right move between value columns, space
// toggles the column under the cursor. Every change recomputes the
// proportions and the ranking.
type BrowseModel struct {
	Table     *table.Table
	KeyColumn string
	Columns   []string
	Selected  []bool
	Keys      []string
	KeyCursor int
	ColCursor int
	Palette   proportion.Palette
	Percent   bool
	BarWidth  int

	background proportion.Color
	ranked     proportion.Ranked
	err        error
}

// NewBrowseModel creates a model over t. columns are the candidate value
// columns; sel preselects columns and the key value.
func NewBrowseModel(t *table.Table, columns []string, sel session.Selection, palette proportion.Palette, percent bool) BrowseModel {
	m := BrowseModel{
		Table:      t,
		KeyColumn:  sel.KeyColumn,
		Columns:    columns,
		Selected:   make([]bool, len(columns)),
		Keys:       t.KeyValues(sel.KeyColumn),
		Palette:    palette,
		Percent:    percent,
		BarWidth:   40,
		background: terminalBackground(),
	}
	for i, c := range columns {
		m.Selected[i] = slices.Contains(sel.ValueColumns, c)
	}
	if i := slices.Index(m.Keys, sel.KeyValue); i >= 0 {
		m.KeyCursor = i
	}
	m.recompute()
	return m
}

// Selection returns the current key column, value columns and key value.
func (m BrowseModel) Selection() session.Selection {
	sel := session.Selection{KeyColumn: m.KeyColumn}
	if len(m.Keys) > 0 {
		sel.KeyValue = m.Keys[m.KeyCursor]
	}
	for i, c := range m.Columns {
		if m.Selected[i] {
			sel.ValueColumns = append(sel.ValueColumns, c)
		}
	}
	return sel
}

// Ranked returns the ranking for the current selection.
func (m BrowseModel) Ranked() (proportion.Ranked, error) {
	return m.ranked, m.err
}

func (m *BrowseModel) recompute() {
	sel := m.Selection()
	g, err := proportion.Compute(m.Table, sel.KeyColumn, sel.ValueColumns)
	if err != nil {
		m.ranked, m.err = proportion.Ranked{}, err
		return
	}
	m.ranked, m.err = g.Ranked(sel.KeyValue, m.Palette)
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.KeyCursor > 0 {
				m.KeyCursor--
			}
		case "down", "j":
			if m.KeyCursor < len(m.Keys)-1 {
				m.KeyCursor++
			}
		case "left", "h":
			if m.ColCursor > 0 {
				m.ColCursor--
			}
			return m, nil
		case "right", "l":
			if m.ColCursor < len(m.Columns)-1 {
				m.ColCursor++
			}
			return m, nil
		case " ":
			if len(m.Columns) > 0 {
				m.Selected = slices.Clone(m.Selected)
				m.Selected[m.ColCursor] = !m.Selected[m.ColCursor]
			}
		case "a":
			selected := make([]bool, len(m.Columns))
			for i := range selected {
				selected[i] = true
			}
			m.Selected = selected
		case "p":
			m.Percent = !m.Percent
			return m, nil
		default:
			return m, nil
		}
		m.recompute()
	case tea.WindowSizeMsg:
		m.BarWidth = max(10, msg.Width-40)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	key := "-"
	if len(m.Keys) > 0 {
		key = m.Keys[m.KeyCursor]
	}
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s: %s", m.KeyColumn, key)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.KeyCursor+1, len(m.Keys))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ key  ←/→ column  space toggle  a all  p percent  q quit"))
	b.WriteString("\n\n")

	for i, c := range m.Columns {
		box := "[ ]"
		if m.Selected[i] {
			box = "[x]"
		}
		item := box + " " + c
		switch {
		case i == m.ColCursor:
			b.WriteString(listSelectedStyle.Render(item))
		case m.Selected[i]:
			b.WriteString(listNormalStyle.Render(item))
		default:
			b.WriteString(listDimStyle.Render(item))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err))
		if hint := errors.Hint(m.err); hint != "" {
			b.WriteString("\n  " + StyleDim.Render(hint))
		}
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(renderBars(m.ranked, m.BarWidth, m.Percent, m.background))
	return b.String()
}
