package tui

import (
	"strings"

	"github.com/reportu/reportu/internal/tui/theme"
)

// Standard key representations for consistent hints across the home screen.
const (
	KeyEsc     = "esc"
	KeyTab     = "tab"
	KeyNew     = "n"
	KeyRefresh = "r"
	KeyQuit    = "q"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Example: RenderHintBar("↑↓", "scroll", "esc", "close")
// Returns: "↑↓ scroll • esc close"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, RenderHint(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, " "+s.HintSeparator.Render("•")+" ")
}

// HintDetail returns the hints for the report detail overlay.
func HintDetail() string {
	return RenderHintBar(KeyEsc, "close", KeyNew, "new report")
}
