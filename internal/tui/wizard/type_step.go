package wizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/reportu/reportu/internal/report"
	"github.com/reportu/reportu/internal/tui/theme"
)

// TypeStep lets the user pick one incident category.
type TypeStep struct {
	machine     *report.Machine
	categories  []report.Category
	selectedIdx int
	width       int
}

// NewTypeStep creates the category picker.
func NewTypeStep(m *report.Machine) *TypeStep {
	return &TypeStep{
		machine:    m,
		categories: report.Categories(),
		width:      60,
	}
}

// SetSize updates the available width.
func (s *TypeStep) SetSize(width, height int) {
	s.width = width
}

// Sync moves the cursor onto the chosen category, if any.
func (s *TypeStep) Sync(snap report.Snapshot) {
	for i, c := range s.categories {
		if c == snap.Category {
			s.selectedIdx = i
			return
		}
	}
}

// Update handles navigation. Enter or space chooses the highlighted
// category; enter also asks the wizard to move on.
func (s *TypeStep) Update(msg tea.Msg) (tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil, false
	}
	switch keyMsg.String() {
	case "up", "k":
		if s.selectedIdx > 0 {
			s.selectedIdx--
		}
	case "down", "j":
		if s.selectedIdx < len(s.categories)-1 {
			s.selectedIdx++
		}
	case "space", " ":
		_ = s.machine.SelectReportType(s.categories[s.selectedIdx])
	case "enter":
		_ = s.machine.SelectReportType(s.categories[s.selectedIdx])
		return nil, true
	}
	return nil, false
}

// View renders the category list.
func (s *TypeStep) View(snap report.Snapshot) string {
	st := theme.Current().S()
	var b strings.Builder

	for i, c := range s.categories {
		mark := "○"
		if c == snap.Category {
			mark = "●"
		}
		line := mark + " " + string(c)
		if i == s.selectedIdx {
			b.WriteString(st.Selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + st.Text.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"↑↓/j/k", "navigate",
		"space", "choose",
		"enter", "choose & continue",
		"esc", "quit",
	))
	return b.String()
}
