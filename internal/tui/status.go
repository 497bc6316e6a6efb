package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/dustin/go-humanize"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/tui/theme"
)

// StatusBar shows feed loading progress (left) and the intake source (right).
type StatusBar struct {
	width      int
	source     string
	loading    bool
	ticking    bool // Whether the spinner tick chain has been started
	err        error
	latest     time.Time
	now        time.Time
	layoutMode LayoutMode
	spinner    Spinner
}

// NewStatusBar creates a new StatusBar component. source names where
// reports are read from, e.g. "jetstream".
func NewStatusBar(source string) *StatusBar {
	return &StatusBar{
		source:  source,
		spinner: NewDefaultSpinner(),
	}
}

// Draw renders the status bar to the screen.
func (s *StatusBar) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return nil
	}
	DrawStyled(scr, area, theme.Current().S().StatusBar, spread(s.buildLeft(), s.buildRight(), area.Dx()-2))
	return nil
}

func (s *StatusBar) buildLeft() string {
	st := theme.Current().S()
	switch {
	case s.loading:
		return s.spinner.View() + " " + st.Muted.Render("Loading reports...")
	case s.err != nil:
		return st.Error.Render("✗ " + s.err.Error())
	case s.latest.IsZero():
		return st.Muted.Render("No reports yet")
	}
	return st.Muted.Render("Latest report " + humanize.RelTime(s.latest, s.now, "ago", "from now"))
}

func (s *StatusBar) buildRight() string {
	t := theme.Current()
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Render("●")
	if s.err != nil {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Render("○")
	}
	if s.layoutMode == LayoutCompact {
		return dot
	}
	return dot + " " + t.S().Muted.Render(s.source)
}

// SetSize updates the component dimensions.
func (s *StatusBar) SetSize(width, height int) {
	s.width = width
}

// SetFeed records the newest submission time.
func (s *StatusBar) SetFeed(feed *intake.Feed, now time.Time) {
	s.now = now
	s.latest = time.Time{}
	if feed == nil {
		return
	}
	if recent := feed.Recent(1); len(recent) > 0 {
		s.latest = recent[0].SubmittedAt
	}
}

// SetLoading toggles the loading indicator.
func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
	if !loading {
		s.ticking = false
	}
}

// SetError records the last load failure, or clears it with nil.
func (s *StatusBar) SetError(err error) {
	s.err = err
}

// SetLayoutMode updates the layout mode (desktop/compact).
func (s *StatusBar) SetLayoutMode(mode LayoutMode) {
	s.layoutMode = mode
}

// Tick starts the spinner chain once per loading period.
func (s *StatusBar) Tick() tea.Cmd {
	if !s.loading || s.ticking {
		return nil
	}
	s.ticking = true
	return s.spinner.Tick()
}

// Update drives the spinner while a load is in progress.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if !s.loading {
		return nil
	}
	return s.spinner.Update(msg)
}

// Compile-time interface checks
var _ FullComponent = (*StatusBar)(nil)
