package tui

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/tui/testfixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, loader *testfixtures.MockLoader, opts Options) *App {
	t.Helper()
	opts.Now = testfixtures.Now
	a := NewApp(context.Background(), loader.Load, opts)
	a.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return a
}

func loadedApp(t *testing.T, feed *intake.Feed) *App {
	t.Helper()
	a := newTestApp(t, testfixtures.NewMockLoader(feed), Options{})
	a.Update(feedLoadedMsg{feed: feed})
	return a
}

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func screenOf(a *App) string {
	return ansi.Strip(a.Render())
}

// findFeedLoaded runs cmd and any batched commands until the feed load result
// appears.
func findFeedLoaded(cmd tea.Cmd) (feedLoadedMsg, bool) {
	if cmd == nil {
		return feedLoadedMsg{}, false
	}
	switch msg := cmd().(type) {
	case feedLoadedMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if m, ok := findFeedLoaded(c); ok {
				return m, true
			}
		}
	}
	return feedLoadedMsg{}, false
}

func TestApp_InitLoadsFeed(t *testing.T) {
	loader := testfixtures.NewMockLoader(testfixtures.FeedWithReports())
	a := newTestApp(t, loader, Options{})

	cmd := a.Init()
	assert.Contains(t, screenOf(a), "Loading reports...")

	msg, ok := findFeedLoaded(cmd)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, 1, loader.Calls())

	a.Update(msg)
	screen := screenOf(a)
	assert.NotContains(t, screen, "Loading reports...")
	assert.Contains(t, screen, "Latest report 2 hours ago")
}

func TestApp_RendersPanels(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())
	screen := screenOf(a)

	assert.Contains(t, screen, "ReportU")
	assert.Contains(t, screen, "3 reports")
	assert.Contains(t, screen, "1 resolved")
	assert.Contains(t, screen, "Recent Activity")
	assert.Contains(t, screen, "Successful Cases")
	for _, ref := range []string{"REP-000001", "REP-000002", "REP-000003"} {
		assert.Contains(t, screen, ref)
	}
	assert.Contains(t, screen, "Under Investigation")
	assert.Contains(t, screen, "Goods seized, vendor fined")
	assert.Contains(t, screen, "[n] New report")
}

func TestApp_EmptyFeed(t *testing.T) {
	a := loadedApp(t, testfixtures.EmptyFeed())
	screen := screenOf(a)

	assert.Contains(t, screen, "No reports yet. Press n to file the first one.")
	assert.Contains(t, screen, "No resolved cases yet.")
	assert.Contains(t, screen, "0 reports")
}

func TestApp_LoadErrorShownInStatus(t *testing.T) {
	loader := testfixtures.NewMockLoader(nil)
	loader.SetError(testfixtures.ErrFeedUnavailable)
	a := newTestApp(t, loader, Options{})

	msg, ok := findFeedLoaded(a.Init())
	require.True(t, ok)
	a.Update(msg)

	assert.Contains(t, screenOf(a), "✗ intake unavailable")
}

func TestApp_RefreshIgnoredWhileLoading(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())

	_, cmd := a.Update(keyPress("r"))
	require.NotNil(t, cmd)
	assert.True(t, a.loading)

	_, cmd = a.Update(keyPress("r"))
	assert.Nil(t, cmd)
}

func TestApp_NewReportChoice(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())

	_, cmd := a.Update(keyPress("n"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ChoiceNewReport, a.Choice())
}

func TestApp_QuitChoice(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())

	_, cmd := a.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ChoiceQuit, a.Choice())
}

func TestApp_TabSwitchesFocus(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())
	require.Equal(t, FocusRecent, a.focus)
	assert.True(t, a.recent.Focused())

	a.Update(keyPress("tab"))
	assert.Equal(t, FocusSuccesses, a.focus)
	assert.True(t, a.successes.Focused())
	assert.False(t, a.recent.Focused())

	a.Update(keyPress("tab"))
	assert.Equal(t, FocusRecent, a.focus)
}

func TestApp_DetailOverlay(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())

	// Newest first: move to the second card
	a.Update(keyPress("down"))
	a.Update(keyPress("enter"))
	require.NotNil(t, a.detail)
	assert.Equal(t, "REP-000002", a.detail.Reference)

	screen := screenOf(a)
	assert.Contains(t, screen, "Location: Clarke Quay, Singapore")
	assert.Contains(t, screen, "Loud music past midnight")
	assert.Contains(t, screen, "esc close")

	a.Update(keyPress("esc"))
	assert.Nil(t, a.detail)
	assert.Equal(t, ChoiceQuit, a.Choice())
	assert.False(t, a.quitting)
}

func TestApp_DetailShowsOutcome(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())

	a.Update(keyPress("tab"))
	a.Update(keyPress("enter"))
	require.NotNil(t, a.detail)
	assert.Equal(t, "REP-000001", a.detail.Reference)
	assert.Contains(t, screenOf(a), "Outcome")
}

func TestApp_CompactShowsFocusedPanel(t *testing.T) {
	a := loadedApp(t, testfixtures.FeedWithReports())
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	screen := screenOf(a)
	assert.Contains(t, screen, "Recent Activity")
	assert.NotContains(t, screen, "Successful Cases")
	assert.Contains(t, screen, "1/3 resolved")

	a.Update(keyPress("tab"))
	screen = screenOf(a)
	assert.Contains(t, screen, "Successful Cases")
	assert.NotContains(t, screen, "Recent Activity")
}

func TestApp_NoticeToast(t *testing.T) {
	loader := testfixtures.NewMockLoader(testfixtures.FeedWithReports())
	a := newTestApp(t, loader, Options{Notice: "Report REP-000004 submitted"})

	a.Init()
	assert.True(t, a.toast.IsVisible())
	assert.Contains(t, screenOf(a), "Report REP-000004 submitted")
}
