package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestCatppuccinMocha_ColorPalette(t *testing.T) {
	th := Current()
	assert.Equal(t, "catppuccin-mocha", th.Name)

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Primary (Mauve)", th.Primary, "#cba6f7"},
		{"Secondary (Blue)", th.Secondary, "#89b4fa"},
		{"Tertiary (Lavender)", th.Tertiary, "#b4befe"},
		{"BgBase", th.BgBase, "#1e1e2e"},
		{"FgBase (Text)", th.FgBase, "#cdd6f4"},
		{"Success (Green)", th.Success, "#a6e3a1"},
		{"Warning (Yellow)", th.Warning, "#f9e2af"},
		{"Error (Red)", th.Error, "#f38ba8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0))
	assert.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1))
	assert.Equal(t, "#7f7f7f", InterpolateColor("#000000", "#ffffff", 0.5))
	assert.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 7))
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	assert.Equal(t, [3]uint8{0xcb, 0xa6, 0xf7}, [3]uint8{r, g, b})

	r, g, b = ParseHexColor("bogus")
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestApplyGradient_KeepsText(t *testing.T) {
	out := ApplyGradient("ab c\nxyz", "#cba6f7", "#89b4fa")
	assert.Equal(t, "ab c\nxyz", ansi.Strip(out))
	assert.Len(t, strings.Split(out, "\n"), 2)
}

func TestSetCurrent(t *testing.T) {
	orig := Current()
	defer SetCurrent(orig)

	custom := NewCatppuccinMocha()
	custom.Name = "custom"
	SetCurrent(custom)
	assert.Equal(t, "custom", Current().Name)

	SetCurrent(nil)
	assert.Equal(t, "custom", Current().Name)
	assert.NotNil(t, Current().S())
}
