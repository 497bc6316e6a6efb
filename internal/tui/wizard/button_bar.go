package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/reportu/reportu/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// ButtonID identifies what a button does.
type ButtonID int

const (
	ButtonBack ButtonID = iota
	ButtonNext
)

// Button represents a single button in the button bar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling and keyboard
// focus. Disabled buttons can be seen but never focused.
type ButtonBar struct {
	buttons []Button
	focus   int // -1 when the bar does not have focus
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focus:   -1,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// SetButtons replaces the buttons, keeping focus on the same ID when it is
// still enabled.
func (b *ButtonBar) SetButtons(buttons []Button) {
	var focused ButtonID = -1
	if b.focus >= 0 && b.focus < len(b.buttons) {
		focused = b.buttons[b.focus].ID
	}
	b.buttons = buttons
	if b.focus < 0 {
		return
	}
	b.focus = -1
	for i, btn := range buttons {
		if btn.ID == focused && btn.State != ButtonDisabled {
			b.focus = i
			return
		}
	}
	b.FocusLast()
}

// Focused reports whether the bar holds keyboard focus.
func (b *ButtonBar) Focused() bool {
	return b.focus >= 0
}

// FocusLast focuses the last enabled button, which is the forward action.
func (b *ButtonBar) FocusLast() bool {
	for i := len(b.buttons) - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focus = i
			return true
		}
	}
	b.focus = -1
	return false
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() bool {
	for i, btn := range b.buttons {
		if btn.State != ButtonDisabled {
			b.focus = i
			return true
		}
	}
	b.focus = -1
	return false
}

// Blur removes focus from the bar.
func (b *ButtonBar) Blur() {
	b.focus = -1
}

// Move shifts focus by delta, skipping disabled buttons.
func (b *ButtonBar) Move(delta int) {
	if b.focus < 0 || len(b.buttons) == 0 {
		return
	}
	for i := b.focus + delta; i >= 0 && i < len(b.buttons); i += delta {
		if b.buttons[i].State != ButtonDisabled {
			b.focus = i
			return
		}
	}
}

// Selected returns the focused button's ID.
func (b *ButtonBar) Selected() (ButtonID, bool) {
	if b.focus < 0 || b.focus >= len(b.buttons) {
		return 0, false
	}
	return b.buttons[b.focus].ID, true
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for i, btn := range b.buttons {
		switch {
		case btn.State == ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case i == b.focus:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates standard Back/Next button set.
// nextEnabled is false while the current step's requirements are unmet.
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	nextState := ButtonNormal
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	return []Button{
		{ID: ButtonBack, Label: "← Back", State: backState},
		{ID: ButtonNext, Label: nextLabel, State: nextState},
	}
}
