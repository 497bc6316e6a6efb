package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/reportu/reportu/internal/intake"
)

// Drawable components render to a screen rectangle
type Drawable interface {
	Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor
}

// Updateable components handle messages
type Updateable interface {
	Update(tea.Msg) tea.Cmd
}

// Component combines Drawable and Updateable
type Component interface {
	Drawable
	Updateable
}

// Sizable components track their dimensions
type Sizable interface {
	SetSize(width, height int)
}

// FeedAware components receive the activity feed after every load
type FeedAware interface {
	SetFeed(feed *intake.Feed, now time.Time)
}

// FullComponent combines Drawable, Updateable, Sizable, and FeedAware
type FullComponent interface {
	Component
	Sizable
	FeedAware
}
