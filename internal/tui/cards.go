package tui

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/tui/theme"
)

// StatusBadge renders a report status as a colored pill.
func StatusBadge(status intake.Status) string {
	s := theme.Current().S()
	switch status {
	case intake.StatusResolved:
		return s.BadgeResolved.Render(string(status))
	case intake.StatusInvestigating:
		return s.BadgeInvestigating.Render(string(status))
	case intake.StatusDismissed:
		return s.BadgeDismissed.Render(string(status))
	}
	return s.BadgePending.Render(string(intake.StatusPending))
}

func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, width, "…")
}

// ReportCard is one report in the recent activity list.
type ReportCard struct {
	entry  intake.Entry
	now    time.Time
	height int
}

// NewReportCard creates a card for entry with ages relative to now.
func NewReportCard(entry intake.Entry, now time.Time) *ReportCard {
	return &ReportCard{entry: entry, now: now}
}

// ID returns the report reference.
func (c *ReportCard) ID() string { return c.entry.Reference }

// Entry returns the report shown on the card.
func (c *ReportCard) Entry() intake.Entry { return c.entry }

// Height returns the rendered height, 0 before the first Render.
func (c *ReportCard) Height() int { return c.height }

// Render draws the card at width.
func (c *ReportCard) Render(width int) string {
	s := theme.Current().S()
	inner := width - 2 // card border and padding

	head := ansi.Truncate(spread(s.Text.Bold(true).Render(c.entry.Reference), StatusBadge(c.entry.Status), inner), inner, "…")
	where := string(c.entry.Category)
	if c.entry.Location != "" {
		where += " · " + c.entry.Location
	}
	lines := []string{
		head,
		s.Muted.Render(truncate(where, inner)),
		s.Text.Render(truncate(c.entry.Description, inner)),
		s.Subtle.Render(c.entry.Age(c.now)),
	}

	out := s.Card.Render(strings.Join(lines, "\n"))
	c.height = lipgloss.Height(out)
	return out
}

// SuccessItem is one resolved case in the successes list.
type SuccessItem struct {
	entry  intake.Entry
	now    time.Time
	height int
}

// NewSuccessItem creates a success card for entry.
func NewSuccessItem(entry intake.Entry, now time.Time) *SuccessItem {
	return &SuccessItem{entry: entry, now: now}
}

// ID returns the report reference.
func (c *SuccessItem) ID() string { return c.entry.Reference }

// Entry returns the report shown on the card.
func (c *SuccessItem) Entry() intake.Entry { return c.entry }

// Height returns the rendered height, 0 before the first Render.
func (c *SuccessItem) Height() int { return c.height }

// Render draws the card at width, wrapping the outcome.
func (c *SuccessItem) Render(width int) string {
	s := theme.Current().S()
	inner := width - 2

	title := s.Success.Render("✓ "+c.entry.Reference) + s.Muted.Render(" · "+string(c.entry.Category))
	outcome := lipgloss.NewStyle().Width(inner).Render(c.entry.Outcome)
	lines := []string{
		ansi.Truncate(title, inner, "…"),
		s.Text.Render(outcome),
		s.Subtle.Render(truncate("Resolved "+c.entry.ResolvedAge(c.now)+" · "+string(c.entry.Country), inner)),
	}

	out := s.SuccessCard.Render(strings.Join(lines, "\n"))
	c.height = lipgloss.Height(out)
	return out
}

// entryItem is implemented by both card kinds.
type entryItem interface {
	ScrollItem
	Entry() intake.Entry
}

var (
	_ entryItem = (*ReportCard)(nil)
	_ entryItem = (*SuccessItem)(nil)
)
