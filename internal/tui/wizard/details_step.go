package wizard

import (
	"os"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/report"
	"github.com/reportu/reportu/internal/tui/theme"
)

// DetailsStep collects the free-text incident description.
type DetailsStep struct {
	machine  *report.Machine
	textarea textarea.Model
	loaded   string // description the textarea was last filled from
	width    int
	err      string
}

// NewDetailsStep creates the description step.
func NewDetailsStep(m *report.Machine) *DetailsStep {
	ta := textarea.New()
	ta.Placeholder = "Please provide as much detail as possible about the incident..."
	ta.SetHeight(8)
	ta.SetWidth(60)

	return &DetailsStep{
		machine:  m,
		textarea: ta,
		width:    60,
	}
}

// SetSize updates the dimensions for the textarea.
func (s *DetailsStep) SetSize(width, height int) {
	s.width = width
	s.textarea.SetWidth(width - 4)
	h := height - 6
	if h < 4 {
		h = 4
	}
	if h > 12 {
		h = 12
	}
	s.textarea.SetHeight(h)
}

// Focus gives the textarea keyboard focus.
func (s *DetailsStep) Focus() tea.Cmd {
	return s.textarea.Focus()
}

// Blur releases keyboard focus.
func (s *DetailsStep) Blur() {
	s.textarea.Blur()
}

// Sync loads the machine's description into the textarea when it changed
// outside the textarea. The textarea expands tabs, so its value can differ
// from the description it was loaded from.
func (s *DetailsStep) Sync(snap report.Snapshot) {
	if snap.Description == s.loaded {
		return
	}
	s.loaded = snap.Description
	if s.textarea.Value() != snap.Description {
		s.textarea.SetValue(snap.Description)
	}
}

// Update forwards input to the textarea and mirrors its value into the
// machine only when the input edited it. ctrl+d asks the wizard to continue.
func (s *DetailsStep) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+d":
			return nil, true
		case "ctrl+e":
			return s.openEditor(), false
		}
	case DescriptionEditedMsg:
		if msg.Err != nil {
			s.err = "editor failed: " + msg.Err.Error()
			return nil, false
		}
		s.err = ""
		content := strings.TrimSuffix(msg.Content, "\n")
		s.loaded = content
		s.textarea.SetValue(content)
		_ = s.machine.SetDescription(content)
		return nil, false
	}

	before := s.textarea.Value()
	var cmd tea.Cmd
	s.textarea, cmd = s.textarea.Update(msg)
	if v := s.textarea.Value(); v != before {
		s.loaded = v
		_ = s.machine.SetDescription(v)
	}
	return cmd, false
}

// openEditor launches $EDITOR on a temp file holding the description.
func (s *DetailsStep) openEditor() tea.Cmd {
	tmp, err := os.CreateTemp("", "reportu_description_*.md")
	if err != nil {
		s.err = "could not create temp file"
		return nil
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(s.textarea.Value()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(path)
		return nil
	}
	_ = tmp.Close()

	cmd, err := editor.Command("reportu", path)
	if err != nil {
		_ = os.Remove(path)
		s.err = "no editor available"
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			logger.Warn("Editor exited with error: %v", err)
			return DescriptionEditedMsg{Err: err}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return DescriptionEditedMsg{Err: err}
		}
		return DescriptionEditedMsg{Content: string(content)}
	})
}

// View renders the description step.
func (s *DetailsStep) View(snap report.Snapshot) string {
	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(st.Text.Render("Incident Description"))
	b.WriteString("\n")

	box := st.Input
	if s.textarea.Focused() {
		box = st.InputFocused
	}
	b.WriteString(box.Render(s.textarea.View()))
	b.WriteString("\n")

	if s.err != "" {
		b.WriteString(st.Error.Render("✗ " + s.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"ctrl+d", "continue",
		"ctrl+e", "open editor",
		"tab", "buttons",
		"esc", "back",
	))
	return b.String()
}
