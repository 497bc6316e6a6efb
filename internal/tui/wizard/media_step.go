package wizard

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"
	"github.com/reportu/reportu/internal/media"
	"github.com/reportu/reportu/internal/report"
	"github.com/reportu/reportu/internal/tui/theme"
)

// MediaStep shows the attached previews and opens a file picker to add
// more. Attaching is optional.
type MediaStep struct {
	machine     *report.Machine
	picker      *FilePicker
	startDir    string
	browsing    bool
	selectedIdx int
	width       int
	height      int
	err         string
}

// NewMediaStep creates the media step. The picker opens in startDir.
func NewMediaStep(m *report.Machine, startDir string) *MediaStep {
	return &MediaStep{
		machine:  m,
		startDir: startDir,
		width:    60,
		height:   20,
	}
}

// SetSize updates the dimensions for the step and its picker.
func (s *MediaStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	if s.picker != nil {
		s.picker.SetSize(width, height)
	}
}

// Browsing reports whether the file picker is open. The wizard routes esc
// here while it is.
func (s *MediaStep) Browsing() bool {
	return s.browsing
}

// Sync keeps the cursor inside the attachment list.
func (s *MediaStep) Sync(snap report.Snapshot) {
	if s.selectedIdx >= len(snap.Attachments) {
		s.selectedIdx = max(len(snap.Attachments)-1, 0)
	}
}

// Blur closes the picker.
func (s *MediaStep) Blur() {
	s.browsing = false
}

func (s *MediaStep) openPicker() {
	if s.picker == nil {
		s.picker = NewFilePicker(s.startDir)
		s.picker.SetSize(s.width, s.height)
	}
	s.browsing = true
}

// Update handles the attachment list and the picker. Enter on the list asks
// the wizard to continue.
func (s *MediaStep) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case FilesChosenMsg:
		s.browsing = false
		s.attach(msg.Paths)
		return nil, false

	case tea.KeyPressMsg:
		if s.browsing {
			if msg.String() == "esc" {
				s.browsing = false
				return nil, false
			}
			return s.picker.Update(msg), false
		}

		count := len(s.machine.Snapshot().Attachments)
		switch msg.String() {
		case "a", "+":
			s.err = ""
			s.openPicker()
		case "up", "k":
			if s.selectedIdx > 0 {
				s.selectedIdx--
			}
		case "down", "j":
			if s.selectedIdx < count-1 {
				s.selectedIdx++
			}
		case "d", "x", "delete":
			if count == 0 {
				return nil, false
			}
			if err := s.machine.RemoveAttachment(s.selectedIdx); err != nil {
				s.err = err.Error()
			}
			if s.selectedIdx >= count-1 && s.selectedIdx > 0 {
				s.selectedIdx--
			}
		case "enter":
			return nil, true
		}
	}
	return nil, false
}

func (s *MediaStep) attach(paths []string) {
	sources := make([]media.Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, media.Source{Path: p})
	}
	before := len(s.machine.Snapshot().Attachments)
	err := s.machine.AddAttachments(sources...)
	s.err = ""
	if err != nil {
		s.err = err.Error()
		if errors.Is(err, report.ErrAttachmentRejected) {
			// errors.Join output has one rejection per line
			prefix := report.ErrAttachmentRejected.Error() + ": "
			lines := strings.Split(s.err, "\n")
			for i, line := range lines {
				lines[i] = "skipped " + strings.TrimPrefix(line, prefix)
			}
			s.err = strings.Join(lines, "\n✗ ")
		}
	}
	if after := len(s.machine.Snapshot().Attachments); after > before {
		s.selectedIdx = after - 1
	}
}

// View renders the step.
func (s *MediaStep) View(snap report.Snapshot) string {
	if s.browsing {
		return s.picker.View()
	}

	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(st.Muted.Render("Add photos or videos of the incident (optional)."))
	b.WriteString("\n\n")

	if len(snap.Attachments) == 0 {
		b.WriteString(st.Subtle.Render("No files attached. Press a to browse."))
		b.WriteString("\n")
	}
	for i, a := range snap.Attachments {
		kind := "photo"
		if strings.HasPrefix(a.MIMEType, "video/") {
			kind = "video"
		}
		line := fmt.Sprintf("%d. %s  %s, %s", i+1, a.Name, kind, humanize.Bytes(uint64(a.Size)))
		if i == s.selectedIdx {
			b.WriteString(st.Selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + st.Text.Render(line))
		}
		b.WriteString("\n")
	}

	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(st.Error.Render("✗ " + s.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"a", "add files",
		"d", "remove",
		"enter", "continue",
		"tab", "buttons",
		"esc", "back",
	))
	return b.String()
}
