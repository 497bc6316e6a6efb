package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgGutter   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Borders
	BorderDefault string
	BorderFocused string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	currentMu sync.RWMutex
	current   = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	if t == nil {
		return
	}
	currentMu.Lock()
	current = t
	currentMu.Unlock()
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderFocused)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true).
			Align(lipgloss.Center),
		Text:   lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Muted:  lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		Subtle: lipgloss.NewStyle().Foreground(c(t.BgOverlay)).Italic(true),
		Selected: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Background(c(t.BgSurface0)).
			Bold(true),
		Error:   lipgloss.NewStyle().Foreground(c(t.Error)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(c(t.Success)).Bold(true),
		Input: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderDefault)),
		InputFocused: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderFocused)),
		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),
		ButtonNormal: lipgloss.NewStyle().
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)).
			Padding(0, 2).
			MarginLeft(1).
			MarginRight(1),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(c(t.BgOverlay)).
			Background(c(t.BgMantle)).
			Padding(0, 2).
			MarginLeft(1).
			MarginRight(1),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Tertiary)).
			Bold(true).
			Padding(0, 2).
			MarginLeft(1).
			MarginRight(1),
		ProgressDone:    lipgloss.NewStyle().Foreground(c(t.Primary)),
		ProgressPending: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(c(t.Secondary)).
			PaddingLeft(1),
		SuccessCard: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(c(t.Success)).
			PaddingLeft(1),
		BadgeResolved:      lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Success)).Padding(0, 1),
		BadgeInvestigating: lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Secondary)).Padding(0, 1),
		BadgePending:       lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Warning)).Padding(0, 1),
		BadgeDismissed:     lipgloss.NewStyle().Foreground(c(t.FgBase)).Background(c(t.BgSurface1)).Padding(0, 1),

		PanelTitle:        lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		PanelTitleFocused: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		PanelRule:         lipgloss.NewStyle().Foreground(c(t.BorderDefault)),
		PanelRuleFocused:  lipgloss.NewStyle().Foreground(c(t.BorderFocused)),
		HeaderInfo:        lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HeaderSeparator:   lipgloss.NewStyle().Foreground(c(t.BgSurface2)),
		StatusBar:         lipgloss.NewStyle().Foreground(c(t.FgMuted)).Padding(0, 1),
		Footer:            lipgloss.NewStyle().Foreground(c(t.FgMuted)).Padding(0, 1),
		FooterKey:         lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		FooterLabel:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		Toast: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Success)).
			Padding(0, 1).
			Bold(true),
	}
}
