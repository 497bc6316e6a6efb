package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle    lipgloss.Style
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style

	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	ProgressDone    lipgloss.Style
	ProgressPending lipgloss.Style

	// Activity feed
	Card               lipgloss.Style
	SuccessCard        lipgloss.Style
	BadgeResolved      lipgloss.Style
	BadgeInvestigating lipgloss.Style
	BadgePending       lipgloss.Style
	BadgeDismissed     lipgloss.Style

	// Home screen chrome
	PanelTitle        lipgloss.Style
	PanelTitleFocused lipgloss.Style
	PanelRule         lipgloss.Style
	PanelRuleFocused  lipgloss.Style
	HeaderInfo        lipgloss.Style
	HeaderSeparator   lipgloss.Style
	StatusBar         lipgloss.Style
	Footer            lipgloss.Style
	FooterKey         lipgloss.Style
	FooterLabel       lipgloss.Style
	Toast             lipgloss.Style
}
