package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/proportion"
	"github.com/matzehuels/rampboard/pkg/session"
	"github.com/matzehuels/rampboard/pkg/table"
)

func newTestBrowseModel(t *testing.T) BrowseModel {
	t.Helper()
	tbl := table.New([]string{"region", "q1", "q2"}, [][]string{
		{"A", "10", "30"},
		{"A", "5", "5"},
		{"B", "8", "2"},
	})
	return NewBrowseModel(tbl, []string{"q1", "q2"}, session.Selection{
		KeyColumn:    "region",
		ValueColumns: []string{"q1", "q2"},
		KeyValue:     "A",
	}, proportion.DefaultPalette, true)
}

func press(m BrowseModel, keys ...tea.KeyMsg) BrowseModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(BrowseModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func topColumn(t *testing.T, m BrowseModel) string {
	t.Helper()
	r, err := m.Ranked()
	if err != nil {
		t.Fatalf("Ranked() error: %v", err)
	}
	if len(r.Entries) == 0 {
		t.Fatal("empty ranking")
	}
	return r.Entries[0].Column
}

func TestBrowseModelInitial(t *testing.T) {
	m := newTestBrowseModel(t)
	if got := topColumn(t, m); got != "q2" {
		t.Errorf("top column = %q, want q2", got)
	}
	if !slices.Equal(m.Keys, []string{"A", "B"}) {
		t.Errorf("keys = %v", m.Keys)
	}
}

func TestBrowseModelChangeKey(t *testing.T) {
	m := press(newTestBrowseModel(t), keyDown)
	if sel := m.Selection(); sel.KeyValue != "B" {
		t.Errorf("key value = %q, want B", sel.KeyValue)
	}
	if got := topColumn(t, m); got != "q1" {
		t.Errorf("top column for B = %q, want q1", got)
	}

	// The cursor stops at both ends.
	m = press(m, keyDown, keyDown)
	if m.KeyCursor != 1 {
		t.Errorf("cursor = %d past the last key", m.KeyCursor)
	}
	m = press(m, keyUp, keyUp, keyUp)
	if m.KeyCursor != 0 {
		t.Errorf("cursor = %d past the first key", m.KeyCursor)
	}
}

func TestBrowseModelToggleColumns(t *testing.T) {
	m := press(newTestBrowseModel(t), keyRight, keySpace)
	if sel := m.Selection(); !slices.Equal(sel.ValueColumns, []string{"q1"}) {
		t.Fatalf("value columns = %v, want [q1]", sel.ValueColumns)
	}
	r, _ := m.Ranked()
	if len(r.Entries) != 1 || r.Entries[0].Proportion != 1 {
		t.Errorf("ranking = %+v, want q1 at 1", r.Entries)
	}

	m = press(m, runeKey('a'))
	if sel := m.Selection(); len(sel.ValueColumns) != 2 {
		t.Errorf("after select all: %v", sel.ValueColumns)
	}
}

func TestBrowseModelEmptySelection(t *testing.T) {
	m := press(newTestBrowseModel(t), keySpace, keyRight, keySpace)
	_, err := m.Ranked()
	if !errors.Is(err, errors.ErrCodeSchema) {
		t.Fatalf("Ranked() error = %v, want SCHEMA_ERROR", err)
	}
	if view := m.View(); !strings.Contains(view, errors.UserMessage(err)) {
		t.Errorf("view does not show the error:\n%s", view)
	}
}

func TestBrowseModelPercentToggle(t *testing.T) {
	m := newTestBrowseModel(t)
	if !strings.Contains(m.View(), "70.0%") {
		t.Errorf("percent view missing 70.0%%:\n%s", m.View())
	}
	m = press(m, runeKey('p'))
	if !strings.Contains(m.View(), "0.700") {
		t.Errorf("raw view missing 0.700:\n%s", m.View())
	}
}

func TestBrowseModelQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyEnter}} {
		_, cmd := newTestBrowseModel(t).Update(k)
		if cmd == nil {
			t.Errorf("%s: no quit command", k)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not quit", k)
		}
	}
}
