package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"github.com/dustin/go-humanize"
	"github.com/reportu/reportu/internal/report"
	"github.com/reportu/reportu/internal/tui/theme"
)

// ReviewStep shows the whole draft as rendered markdown before submission.
type ReviewStep struct {
	viewport viewport.Model
	content  string // markdown for the last synced snapshot
	width    int
	height   int
}

// NewReviewStep creates the review step.
func NewReviewStep() *ReviewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &ReviewStep{
		viewport: vp,
		width:    60,
		height:   20,
	}
}

// renderMarkdown renders markdown with glamour, falling back to the raw
// text when rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// reviewMarkdown lays out the draft as a markdown summary.
func reviewMarkdown(snap report.Snapshot) string {
	var b strings.Builder
	b.WriteString("## Review your report\n\n")
	fmt.Fprintf(&b, "**Report Type:** %s\n\n", snap.Category)
	fmt.Fprintf(&b, "**Location:** %s\n\n", snap.Report().Location())
	b.WriteString("**Description:**\n\n")
	for _, line := range strings.Split(snap.Description, "\n") {
		b.WriteString("> " + line + "\n")
	}
	b.WriteString("\n")

	if len(snap.Attachments) == 0 {
		b.WriteString("**Evidence:** none\n")
		return b.String()
	}
	fmt.Fprintf(&b, "**Evidence:** %d file(s)\n\n", len(snap.Attachments))
	for _, a := range snap.Attachments {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", a.Name, a.MIMEType, humanize.Bytes(uint64(a.Size)))
	}
	return b.String()
}

// SetSize updates the viewport and re-renders the summary.
func (s *ReviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.SetWidth(width)
	// Reserve rows for the error and hint lines
	vh := height - 4
	if vh < 5 {
		vh = 5
	}
	s.viewport.SetHeight(vh)
	if s.content != "" {
		s.viewport.SetContent(renderMarkdown(s.content, width))
	}
}

// Sync re-renders the summary when the draft changed.
func (s *ReviewStep) Sync(snap report.Snapshot) {
	content := reviewMarkdown(snap)
	if content == s.content {
		return
	}
	s.content = content
	s.viewport.SetContent(renderMarkdown(content, s.width))
	s.viewport.GotoTop()
}

// Update scrolls the summary. Enter asks the wizard to submit.
func (s *ReviewStep) Update(msg tea.Msg) (tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() == "enter" {
		return nil, true
	}
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd, false
}

// View renders the summary, plus the last failure if the draft came back
// from a failed submission.
func (s *ReviewStep) View(snap report.Snapshot) string {
	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(s.viewport.View())
	b.WriteString("\n")

	if snap.Err != nil {
		msg := "Submission failed: " + snap.Err.Error()
		if errors.Is(snap.Err, context.Canceled) {
			msg = "Submission cancelled."
		}
		b.WriteString(st.Error.Render("✗ " + msg))
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("Your report is unchanged. Press enter to try again."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"↑↓", "scroll",
		"enter", "submit",
		"tab", "buttons",
		"esc", "back",
	))
	return b.String()
}
