package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/reportu/reportu/internal/tui/theme"
)

// ScrollItem is a single entry in a ScrollList.
type ScrollItem interface {
	// ID returns the unique identifier for this item.
	ID() string
	// Render returns the rendered string representation at the given width.
	Render(width int) string
	// Height returns the number of lines this item occupies (0 if not yet rendered).
	Height() int
}

// ScrollList is a selectable list of multi-line items. Only the items
// inside the viewport are rendered, and the selection is always kept in
// view.
type ScrollList struct {
	items       []ScrollItem
	offsetIdx   int // Index of the first visible item
	width       int
	height      int
	focused     bool
	selectedIdx int // -1 when the list is empty
}

// NewScrollList creates a new ScrollList with the given width and height.
func NewScrollList(width, height int) *ScrollList {
	return &ScrollList{
		width:       width,
		height:      height,
		selectedIdx: -1,
	}
}

// SetItems replaces all items, keeping the selection on the same ID when it
// is still present.
func (s *ScrollList) SetItems(items []ScrollItem) {
	var selectedID string
	if s.selectedIdx >= 0 && s.selectedIdx < len(s.items) {
		selectedID = s.items[s.selectedIdx].ID()
	}
	s.items = items
	s.selectedIdx = -1
	for i, item := range items {
		if item.ID() == selectedID {
			s.selectedIdx = i
			break
		}
	}
	if s.selectedIdx < 0 && len(items) > 0 {
		s.selectedIdx = 0
		s.offsetIdx = 0
	}
	s.ensureVisible()
}

// Len returns the number of items.
func (s *ScrollList) Len() int {
	return len(s.items)
}

// SetSize updates the viewport dimensions.
func (s *ScrollList) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.ensureVisible()
}

// SetFocused sets the focus state of the list.
func (s *ScrollList) SetFocused(focused bool) {
	s.focused = focused
}

// Focused reports whether the list has keyboard focus.
func (s *ScrollList) Focused() bool {
	return s.focused
}

// SelectedIdx returns the current selected item index (-1 if no selection).
func (s *ScrollList) SelectedIdx() int {
	return s.selectedIdx
}

// Selected returns the selected item.
func (s *ScrollList) Selected() (ScrollItem, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.items) {
		return nil, false
	}
	return s.items[s.selectedIdx], true
}

// Move shifts the selection by delta, clamped to the list.
func (s *ScrollList) Move(delta int) {
	if len(s.items) == 0 {
		return
	}
	s.selectedIdx += delta
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
	if s.selectedIdx >= len(s.items) {
		s.selectedIdx = len(s.items) - 1
	}
	s.ensureVisible()
}

func (s *ScrollList) itemHeight(i int) int {
	h := s.items[i].Height()
	if h == 0 {
		s.items[i].Render(s.width - 2)
		h = s.items[i].Height()
	}
	return h
}

// ensureVisible scrolls so the selected item fits in the viewport.
func (s *ScrollList) ensureVisible() {
	if s.selectedIdx < 0 {
		s.offsetIdx = 0
		return
	}
	if s.selectedIdx < s.offsetIdx {
		s.offsetIdx = s.selectedIdx
		return
	}
	for s.offsetIdx < s.selectedIdx {
		lines := 0
		for i := s.offsetIdx; i <= s.selectedIdx; i++ {
			lines += s.itemHeight(i)
			if i > s.offsetIdx {
				lines++ // blank separator
			}
		}
		if lines <= s.height {
			return
		}
		s.offsetIdx++
	}
}

// View returns the rendered view of visible items.
func (s *ScrollList) View() string {
	if len(s.items) == 0 || s.height <= 0 {
		return ""
	}

	st := theme.Current().S()
	var lines []string
	for i := s.offsetIdx; i < len(s.items) && len(lines) < s.height; i++ {
		if i > s.offsetIdx {
			lines = append(lines, "")
		}
		marker := "  "
		if i == s.selectedIdx && s.focused {
			marker = st.Selected.Render("▸") + " "
		}
		for j, line := range strings.Split(s.items[i].Render(s.width-2), "\n") {
			if j == 0 {
				lines = append(lines, marker+line)
			} else {
				lines = append(lines, "  "+line)
			}
		}
	}
	if len(lines) > s.height {
		lines = lines[:s.height]
	}
	return strings.Join(lines, "\n")
}

// ScrollPercent returns how far through the list the selection is (0.0 to 1.0).
func (s *ScrollList) ScrollPercent() float64 {
	if len(s.items) <= 1 || s.selectedIdx < 0 {
		return 1.0
	}
	return float64(s.selectedIdx) / float64(len(s.items)-1)
}

// Update handles navigation keys. Only processes keyboard events when focused.
func (s *ScrollList) Update(msg tea.Msg) tea.Cmd {
	if !s.focused {
		return nil
	}
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "up", "k":
		s.Move(-1)
	case "down", "j":
		s.Move(1)
	case "pgup":
		s.Move(-s.pageSize())
	case "pgdown":
		s.Move(s.pageSize())
	case "home", "g":
		s.Move(-len(s.items))
	case "end", "G":
		s.Move(len(s.items))
	}
	return nil
}

// pageSize estimates how many items fit in the viewport.
func (s *ScrollList) pageSize() int {
	if len(s.items) == 0 {
		return 1
	}
	per := s.itemHeight(0) + 1
	if n := s.height / per; n > 1 {
		return n
	}
	return 1
}
