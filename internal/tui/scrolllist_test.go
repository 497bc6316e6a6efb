package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineItem is a fixed-height item for list tests.
type lineItem struct {
	id    string
	lines int
}

func (l lineItem) ID() string  { return l.id }
func (l lineItem) Height() int { return l.lines }
func (l lineItem) Render(width int) string {
	out := make([]string, l.lines)
	for i := range out {
		out[i] = l.id
	}
	return strings.Join(out, "\n")
}

func items(ids ...string) []ScrollItem {
	out := make([]ScrollItem, len(ids))
	for i, id := range ids {
		out[i] = lineItem{id: id, lines: 2}
	}
	return out
}

func TestScrollList_Empty(t *testing.T) {
	l := NewScrollList(20, 10)
	assert.Equal(t, -1, l.SelectedIdx())
	_, ok := l.Selected()
	assert.False(t, ok)
	assert.Empty(t, l.View())

	l.Move(1)
	assert.Equal(t, -1, l.SelectedIdx())
}

func TestScrollList_SelectsFirstItem(t *testing.T) {
	l := NewScrollList(20, 10)
	l.SetItems(items("a", "b", "c"))

	require.Equal(t, 0, l.SelectedIdx())
	item, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", item.ID())
}

func TestScrollList_KeepsSelectionByID(t *testing.T) {
	l := NewScrollList(20, 10)
	l.SetItems(items("a", "b", "c"))
	l.Move(2)
	require.Equal(t, "c", mustSelected(t, l))

	// A new item on top shifts indices; the selection follows the ID
	l.SetItems(items("z", "a", "b", "c"))
	assert.Equal(t, 3, l.SelectedIdx())
	assert.Equal(t, "c", mustSelected(t, l))

	// Selected item gone: back to the top
	l.SetItems(items("x", "y"))
	assert.Equal(t, 0, l.SelectedIdx())
}

func TestScrollList_MoveClamps(t *testing.T) {
	l := NewScrollList(20, 10)
	l.SetItems(items("a", "b", "c"))

	l.Move(-5)
	assert.Equal(t, 0, l.SelectedIdx())
	l.Move(10)
	assert.Equal(t, 2, l.SelectedIdx())
}

func TestScrollList_UpdateOnlyWhenFocused(t *testing.T) {
	l := NewScrollList(20, 10)
	l.SetItems(items("a", "b", "c"))

	l.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	assert.Equal(t, 0, l.SelectedIdx())

	l.SetFocused(true)
	l.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	assert.Equal(t, 1, l.SelectedIdx())
	l.Update(tea.KeyPressMsg{Code: 'G', Text: "G"})
	assert.Equal(t, 2, l.SelectedIdx())
	l.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	assert.Equal(t, 0, l.SelectedIdx())
}

func TestScrollList_ScrollsSelectionIntoView(t *testing.T) {
	// Two-line items with a blank separator: two items fit in five rows
	l := NewScrollList(20, 5)
	l.SetItems(items("a", "b", "c", "d"))
	l.SetFocused(true)

	l.Move(3)
	view := ansi.Strip(l.View())
	assert.Contains(t, view, "d")
	assert.NotContains(t, view, "a")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), 5)

	l.Move(-3)
	view = ansi.Strip(l.View())
	assert.True(t, strings.HasPrefix(view, "▸ a"))
}

func TestScrollList_ScrollPercent(t *testing.T) {
	l := NewScrollList(20, 10)
	assert.Equal(t, 1.0, l.ScrollPercent())

	l.SetItems(items("a", "b", "c"))
	assert.Equal(t, 0.0, l.ScrollPercent())
	l.Move(1)
	assert.Equal(t, 0.5, l.ScrollPercent())
}

func mustSelected(t *testing.T, l *ScrollList) string {
	t.Helper()
	item, ok := l.Selected()
	require.True(t, ok)
	return item.ID()
}
