package tui

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/tui/theme"
)

// Header renders the top bar with the product name and feed totals.
type Header struct {
	width      int
	total      int
	resolved   int
	layoutMode LayoutMode
}

// NewHeader creates a new Header component.
func NewHeader() *Header {
	return &Header{}
}

// Draw renders the header to the screen at the given area.
func (h *Header) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dy() < 1 {
		return nil
	}
	s := theme.Current().S()

	left := theme.ApplyGradient("ReportU", theme.Current().Primary, theme.Current().Secondary)
	var right string
	if h.layoutMode == LayoutCompact {
		right = s.HeaderInfo.Render(fmt.Sprintf("%d/%d resolved", h.resolved, h.total))
	} else {
		left += s.HeaderSeparator.Render(" | ") + s.HeaderInfo.Render("Report incidents to the authorities")
		right = s.HeaderInfo.Render(fmt.Sprintf("%d reports", h.total)) +
			s.HeaderSeparator.Render(" | ") +
			s.HeaderInfo.Render(fmt.Sprintf("%d resolved", h.resolved))
	}

	DrawStyled(scr, area, s.StatusBar, spread(left, right, area.Dx()-2))
	return nil
}

// SetSize updates the header width.
func (h *Header) SetSize(width, height int) {
	h.width = width
}

// SetFeed recounts the totals.
func (h *Header) SetFeed(feed *intake.Feed, now time.Time) {
	h.total, h.resolved = 0, 0
	if feed == nil {
		return
	}
	for _, e := range feed.Recent(0) {
		h.total++
		if e.Status == intake.StatusResolved {
			h.resolved++
		}
	}
}

// SetLayoutMode updates the layout mode (desktop/compact).
func (h *Header) SetLayoutMode(mode LayoutMode) {
	h.layoutMode = mode
}

// Update handles messages. Header is static.
func (h *Header) Update(msg tea.Msg) tea.Cmd {
	return nil
}

// Compile-time interface checks
var _ FullComponent = (*Header)(nil)
