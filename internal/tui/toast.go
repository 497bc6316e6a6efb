package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/reportu/reportu/internal/tui/theme"
)

// toastDuration is how long a toast stays on screen.
const toastDuration = 4 * time.Second

// ToastDismissMsg is sent when a toast should be dismissed. Gen ties the
// message to the Show call that scheduled it.
type ToastDismissMsg struct {
	Gen int
}

// ShowToastMsg is sent to show a toast notification.
type ShowToastMsg struct {
	Text string
}

// Toast is a one-line notification drawn in the bottom-right corner of the
// content area.
type Toast struct {
	message   string
	visible   bool
	gen       int
	dismissAt time.Time
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays msg and schedules its dismissal. A later Show replaces the
// message and restarts the timer.
func (t *Toast) Show(msg string) tea.Cmd {
	t.message = msg
	t.visible = true
	t.gen++
	t.dismissAt = time.Now().Add(toastDuration)
	gen := t.gen
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{Gen: gen}
	})
}

// Update hides the toast when its own dismissal arrives.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(ToastDismissMsg); ok && m.Gen == t.gen {
		t.visible = false
		t.message = ""
	}
	return nil
}

// View renders the toast box, or "" when hidden.
func (t *Toast) View(maxWidth int) string {
	if !t.visible || t.message == "" {
		return ""
	}
	style := theme.Current().S().Toast
	content := style.Render(t.message)
	if lipgloss.Width(content) > maxWidth && maxWidth > 2 {
		content = style.Width(maxWidth).Render(t.message)
	}
	return content
}

// Draw places the toast in the bottom-right corner of area.
func (t *Toast) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	content := t.View(area.Dx() - 2)
	if content == "" {
		return nil
	}
	w, h := lipgloss.Width(content), lipgloss.Height(content)
	box := uv.Rectangle{
		Min: uv.Position{X: area.Max.X - w - 1, Y: area.Max.Y - h},
		Max: uv.Position{X: area.Max.X - 1, Y: area.Max.Y},
	}
	uv.NewStyledString(content).Draw(scr, box)
	return nil
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// GetMessage returns the current toast message (empty if not visible).
func (t *Toast) GetMessage() string {
	if !t.visible {
		return ""
	}
	return t.message
}
