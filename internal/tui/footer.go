package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/reportu/reportu/internal/tui/theme"
)

// FooterAction represents a clickable action in the footer.
type FooterAction string

const (
	FooterActionNew     FooterAction = "new"
	FooterActionRefresh FooterAction = "refresh"
	FooterActionSwitch  FooterAction = "switch"
	FooterActionQuit    FooterAction = "quit"
)

// footerButton tracks the hit region for a clickable footer button.
type footerButton struct {
	action FooterAction
	startX int // inclusive
	endX   int // exclusive
}

// Footer renders the bottom bar with the home screen actions.
type Footer struct {
	width      int
	layoutMode LayoutMode
	area       uv.Rectangle
	buttons    []footerButton
}

// NewFooter creates a new Footer component.
func NewFooter() *Footer {
	return &Footer{layoutMode: LayoutDesktop}
}

// Draw renders the footer to the screen at the given area.
func (f *Footer) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dy() < 1 {
		return nil
	}
	f.area = area
	DrawStyled(scr, area, theme.Current().S().Footer, f.buildFooterContent(area.Dx()))
	return nil
}

// buildFooterContent lays out the buttons and records their hit regions.
func (f *Footer) buildFooterContent(availableWidth int) string {
	s := theme.Current().S()
	type buttonPart struct {
		rendered string
		action   FooterAction
	}
	button := func(key, label string, action FooterAction) buttonPart {
		return buttonPart{
			rendered: s.FooterKey.Render("["+key+"]") + " " + s.FooterLabel.Render(label),
			action:   action,
		}
	}

	switchLabel := "Switch panel"
	if f.layoutMode == LayoutCompact {
		switchLabel = "Recent/Resolved"
	}
	left := []buttonPart{
		button(KeyNew, "New report", FooterActionNew),
		button(KeyRefresh, "Refresh", FooterActionRefresh),
		button(KeyTab, switchLabel, FooterActionSwitch),
	}
	right := []buttonPart{button(KeyQuit, "Quit", FooterActionQuit)}

	join := func(parts []buttonPart) string {
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = p.rendered
		}
		return strings.Join(out, "  ")
	}
	leftText, rightText := join(left), join(right)

	padding := availableWidth - lipgloss.Width(leftText) - lipgloss.Width(rightText) - 2 // side padding
	if padding < 2 {
		f.buttons = nil
		return s.FooterKey.Render("[n]") + " " + s.FooterKey.Render("[r]") + " " + s.FooterKey.Render("[q]")
	}

	// Hit regions start after the 1-char left padding of the footer style
	f.buttons = nil
	x := f.area.Min.X + 1
	for _, b := range left {
		w := lipgloss.Width(b.rendered)
		f.buttons = append(f.buttons, footerButton{action: b.action, startX: x, endX: x + w})
		x += w + 2
	}
	x = f.area.Min.X + 1 + lipgloss.Width(leftText) + padding
	for _, b := range right {
		w := lipgloss.Width(b.rendered)
		f.buttons = append(f.buttons, footerButton{action: b.action, startX: x, endX: x + w})
		x += w + 2
	}

	return leftText + strings.Repeat(" ", padding) + rightText
}

// ActionAtPosition returns the footer action at the given screen coordinates, or empty string if none.
func (f *Footer) ActionAtPosition(x, y int) FooterAction {
	if y < f.area.Min.Y || y >= f.area.Max.Y {
		return ""
	}
	for _, b := range f.buttons {
		if x >= b.startX && x < b.endX {
			return b.action
		}
	}
	return ""
}

// SetSize updates the footer width.
func (f *Footer) SetSize(width, height int) {
	f.width = width
}

// SetLayoutMode updates the layout mode (desktop/compact).
func (f *Footer) SetLayoutMode(mode LayoutMode) {
	f.layoutMode = mode
}

// Update handles messages. Footer is static.
func (f *Footer) Update(msg tea.Msg) tea.Cmd {
	return nil
}

// Compile-time interface check
var _ Component = (*Footer)(nil)
