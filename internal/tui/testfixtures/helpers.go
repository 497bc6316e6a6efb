package testfixtures

import (
	"errors"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

func init() {
	// Plain output keeps screen assertions independent of the terminal
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// ErrFeedUnavailable is returned by a failing loader.
var ErrFeedUnavailable = errors.New("intake unavailable")

// Screen renders into a TestTermWidth x TestTermHeight buffer and returns
// the text with styling removed.
func Screen(renderFn func(canvas uv.ScreenBuffer)) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	renderFn(canvas)
	return ansi.Strip(canvas.Render())
}

// Lines splits rendered output and trims trailing blanks from each line.
func Lines(s string) []string {
	lines := strings.Split(ansi.Strip(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}
