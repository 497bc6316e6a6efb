package wizard

import (
	"strings"

	"github.com/reportu/reportu/internal/tui/theme"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "select", "esc", "back")
// Returns: "↑↓ navigate • enter select • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}

// renderProgress draws the five entry steps as a segmented bar.
func renderProgress(position, total, width int) string {
	if total <= 0 {
		return ""
	}
	s := theme.Current().S()
	seg := (width - (total - 1)) / total
	if seg < 2 {
		seg = 2
	}
	parts := make([]string, total)
	for i := 0; i < total; i++ {
		bar := strings.Repeat("━", seg)
		if i < position {
			parts[i] = s.ProgressDone.Render(bar)
		} else {
			parts[i] = s.ProgressPending.Render(bar)
		}
	}
	return strings.Join(parts, " ")
}
