package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/reportu/reportu/internal/tui/theme"
)

// DrawText renders plain text at a position
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders lipgloss-styled content at a position
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// DrawPanel renders a panel with a title header and returns the inner content area.
// The header shows "Title ────────" with a trailing rule line.
// Focus is indicated by the header color.
func DrawPanel(scr uv.Screen, area uv.Rectangle, title string, focused bool) uv.Rectangle {
	headerHeight := 0

	if title != "" {
		headerHeight = 1
		s := theme.Current().S()
		titleStyle := s.PanelTitle
		ruleStyle := s.PanelRule
		if focused {
			titleStyle = s.PanelTitleFocused
			ruleStyle = s.PanelRuleFocused
		}

		styledTitle := titleStyle.Render(title)
		ruleWidth := area.Dx() - lipgloss.Width(styledTitle) - 1
		if ruleWidth < 0 {
			ruleWidth = 0
		}
		headerText := styledTitle + " " + ruleStyle.Render(strings.Repeat("─", ruleWidth))

		titleArea := uv.Rectangle{
			Min: uv.Position{X: area.Min.X, Y: area.Min.Y},
			Max: uv.Position{X: area.Max.X, Y: area.Min.Y + 1},
		}
		uv.NewStyledString(headerText).Draw(scr, titleArea)
	}

	innerHeight := area.Dy() - headerHeight
	if innerHeight < 0 {
		innerHeight = 0
	}

	return uv.Rectangle{
		Min: uv.Position{X: area.Min.X, Y: area.Min.Y + headerHeight},
		Max: uv.Position{X: area.Max.X, Y: area.Min.Y + headerHeight + innerHeight},
	}
}

// spread places left and right on one line of the given width.
func spread(left, right string, width int) string {
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}
