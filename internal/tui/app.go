// Package tui is the ReportU home screen: recent activity and resolved cases
// read from the intake feed, with a key to start a new report.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/dustin/go-humanize"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/tui/theme"
)

// Choice is what the user left the home screen to do.
type Choice int

const (
	ChoiceQuit Choice = iota
	ChoiceNewReport
)

// FeedLoader reads the current activity feed.
type FeedLoader func(ctx context.Context) (*intake.Feed, error)

// Options configures the home screen.
type Options struct {
	Source       string           // intake label shown in the status bar
	Notice       string           // toast shown when the screen opens
	RecentLimit  int              // cards in recent activity; 20 when zero
	SuccessLimit int              // cards in successful cases; 10 when zero
	Now          func() time.Time // clock for relative ages; time.Now when nil
}

// FocusPanel identifies which list has keyboard focus.
type FocusPanel int

const (
	FocusRecent FocusPanel = iota
	FocusSuccesses
)

// feedLoadedMsg carries the result of a feed load.
type feedLoadedMsg struct {
	feed *intake.Feed
	err  error
}

// App is the home screen model.
type App struct {
	ctx  context.Context
	load FeedLoader
	opts Options

	feed    *intake.Feed
	loading bool

	header    *Header
	status    *StatusBar
	footer    *Footer
	toast     *Toast
	recent    *ScrollList
	successes *ScrollList
	focus     FocusPanel
	detail    *intake.Entry

	layout      Layout
	layoutDirty bool
	width       int
	height      int

	choice   Choice
	quitting bool
}

// NewApp creates the home screen. load is called on open and on refresh.
func NewApp(ctx context.Context, load FeedLoader, opts Options) *App {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 20
	}
	if opts.SuccessLimit <= 0 {
		opts.SuccessLimit = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Source == "" {
		opts.Source = "local intake"
	}

	a := &App{
		ctx:         ctx,
		load:        load,
		opts:        opts,
		header:      NewHeader(),
		status:      NewStatusBar(opts.Source),
		footer:      NewFooter(),
		toast:       NewToast(),
		recent:      NewScrollList(60, 10),
		successes:   NewScrollList(40, 10),
		width:       80,
		height:      24,
		layoutDirty: true,
	}
	a.recent.SetFocused(true)
	return a
}

// Run shows the home screen until the user quits or asks for a new report.
func Run(ctx context.Context, load FeedLoader, opts Options) (Choice, error) {
	a := NewApp(ctx, load, opts)
	p := tea.NewProgram(a, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return ChoiceQuit, fmt.Errorf("home screen failed: %w", err)
	}
	return a.choice, nil
}

// Choice returns what the user picked.
func (a *App) Choice() Choice {
	return a.choice
}

// Init starts the first feed load.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.refresh()}
	if a.opts.Notice != "" {
		cmds = append(cmds, a.toast.Show(a.opts.Notice))
	}
	return tea.Batch(cmds...)
}

func (a *App) refresh() tea.Cmd {
	a.loading = true
	a.status.SetLoading(true)
	ctx, load := a.ctx, a.load
	return tea.Batch(
		func() tea.Msg {
			feed, err := load(ctx)
			return feedLoadedMsg{feed: feed, err: err}
		},
		a.status.Tick(),
	)
}

// Update handles messages for the home screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layoutDirty = true
		return a, nil

	case feedLoadedMsg:
		a.loading = false
		a.status.SetLoading(false)
		a.status.SetError(msg.err)
		if msg.err != nil {
			logger.Warn("Failed to load feed: %v", msg.err)
			return a, nil
		}
		a.setFeed(msg.feed)
		return a, nil

	case spinner.TickMsg:
		return a, a.status.Update(msg)

	case ToastDismissMsg:
		return a, a.toast.Update(msg)

	case ShowToastMsg:
		return a, a.toast.Show(msg.Text)

	case tea.KeyPressMsg:
		return a, a.handleKeyPress(msg)

	case tea.MouseClickMsg:
		return a, a.handleMouse(msg)

	case tea.MouseWheelMsg:
		a.handleMouseWheel(msg)
		return a, nil
	}
	return a, nil
}

func (a *App) setFeed(feed *intake.Feed) {
	a.feed = feed
	now := a.opts.Now()
	for _, c := range []FeedAware{a.header, a.status} {
		c.SetFeed(feed, now)
	}

	var recent, successes []ScrollItem
	for _, e := range feed.Recent(a.opts.RecentLimit) {
		recent = append(recent, NewReportCard(e, now))
	}
	for _, e := range feed.Successes(a.opts.SuccessLimit) {
		successes = append(successes, NewSuccessItem(e, now))
	}
	a.recent.SetItems(recent)
	a.successes.SetItems(successes)
}

func (a *App) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return a.quit(ChoiceQuit)
	}

	if a.detail != nil {
		switch msg.String() {
		case "esc", "enter":
			a.detail = nil
		case "n":
			return a.quit(ChoiceNewReport)
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		return a.quit(ChoiceQuit)
	case "n":
		return a.quit(ChoiceNewReport)
	case "r":
		if a.loading {
			return nil
		}
		return a.refresh()
	case "tab", "shift+tab":
		a.toggleFocus()
		return nil
	case "enter":
		a.openDetail()
		return nil
	}
	return a.focusedList().Update(msg)
}

func (a *App) handleMouse(msg tea.MouseClickMsg) tea.Cmd {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return nil
	}
	if a.detail != nil {
		a.detail = nil
		return nil
	}

	switch a.footer.ActionAtPosition(mouse.X, mouse.Y) {
	case FooterActionNew:
		return a.quit(ChoiceNewReport)
	case FooterActionRefresh:
		if !a.loading {
			return a.refresh()
		}
		return nil
	case FooterActionSwitch:
		a.toggleFocus()
		return nil
	case FooterActionQuit:
		return a.quit(ChoiceQuit)
	}

	if a.layout.Mode != LayoutDesktop {
		return nil
	}
	switch {
	case inRect(mouse.X, mouse.Y, a.layout.Sidebar):
		a.setFocus(FocusSuccesses)
	case inRect(mouse.X, mouse.Y, a.layout.Main):
		a.setFocus(FocusRecent)
	}
	return nil
}

func inRect(x, y int, r uv.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

func (a *App) handleMouseWheel(msg tea.MouseWheelMsg) {
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		a.focusedList().Move(-1)
	case tea.MouseWheelDown:
		a.focusedList().Move(1)
	}
}

func (a *App) focusedList() *ScrollList {
	if a.focus == FocusSuccesses {
		return a.successes
	}
	return a.recent
}

func (a *App) toggleFocus() {
	if a.focus == FocusRecent {
		a.setFocus(FocusSuccesses)
	} else {
		a.setFocus(FocusRecent)
	}
}

func (a *App) setFocus(p FocusPanel) {
	a.focus = p
	a.recent.SetFocused(p == FocusRecent)
	a.successes.SetFocused(p == FocusSuccesses)
}

func (a *App) openDetail() {
	item, ok := a.focusedList().Selected()
	if !ok {
		return
	}
	if e, ok := item.(entryItem); ok {
		entry := e.Entry()
		a.detail = &entry
	}
}

func (a *App) quit(choice Choice) tea.Cmd {
	a.choice = choice
	a.quitting = true
	return tea.Quit
}

// View renders the home screen.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if a.quitting {
		view.AltScreen = false
		view.MouseMode = 0
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	view.Cursor = a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// Render draws the screen into a fresh buffer and returns it as a string.
func (a *App) Render() string {
	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	return canvas.Render()
}

func (a *App) propagateSizes() {
	a.layout = CalculateLayout(a.width, a.height)
	a.header.SetLayoutMode(a.layout.Mode)
	a.status.SetLayoutMode(a.layout.Mode)
	a.footer.SetLayoutMode(a.layout.Mode)
	a.header.SetSize(a.layout.Header.Dx(), a.layout.Header.Dy())
	a.status.SetSize(a.layout.Status.Dx(), a.layout.Status.Dy())
	a.footer.SetSize(a.layout.Footer.Dx(), a.layout.Footer.Dy())

	// Panels lose one row to their title
	a.recent.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy()-1)
	if a.layout.Mode == LayoutDesktop {
		a.successes.SetSize(a.layout.Sidebar.Dx(), a.layout.Sidebar.Dy()-1)
	} else {
		a.successes.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy()-1)
	}
	a.layoutDirty = false
}

// Draw renders every component to scr.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if a.layoutDirty {
		a.propagateSizes()
	}

	a.header.Draw(scr, a.layout.Header)
	if a.layout.Mode == LayoutDesktop {
		a.drawRecent(scr, a.layout.Main)
		a.drawSuccesses(scr, a.layout.Sidebar)
	} else if a.focus == FocusSuccesses {
		a.drawSuccesses(scr, a.layout.Main)
	} else {
		a.drawRecent(scr, a.layout.Main)
	}
	a.status.Draw(scr, a.layout.Status)
	a.footer.Draw(scr, a.layout.Footer)

	if a.detail != nil {
		a.drawDetail(scr, area)
	}
	a.toast.Draw(scr, a.layout.Content)
	return nil
}

func (a *App) drawRecent(scr uv.Screen, area uv.Rectangle) {
	inner := DrawPanel(scr, area, "Recent Activity", a.focus == FocusRecent)
	if a.recent.Len() == 0 {
		DrawText(scr, inner, a.emptyText("No reports yet. Press n to file the first one."))
		return
	}
	DrawText(scr, inner, a.recent.View())
}

func (a *App) drawSuccesses(scr uv.Screen, area uv.Rectangle) {
	inner := DrawPanel(scr, area, "Successful Cases", a.focus == FocusSuccesses)
	if a.successes.Len() == 0 {
		DrawText(scr, inner, a.emptyText("No resolved cases yet."))
		return
	}
	DrawText(scr, inner, a.successes.View())
}

func (a *App) emptyText(text string) string {
	if a.loading && a.feed == nil {
		return ""
	}
	return "  " + theme.Current().S().Subtle.Render(text)
}

// drawDetail overlays the selected report in a centered modal.
func (a *App) drawDetail(scr uv.Screen, area uv.Rectangle) {
	s := theme.Current().S()
	e := a.detail
	now := a.opts.Now()

	width := 70
	if area.Dx()-4 < width {
		width = area.Dx() - 4
	}
	inner := width - 6 // border and padding

	var b strings.Builder
	b.WriteString(spread(s.ModalTitle.Render(e.Reference), StatusBadge(e.Status), inner))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", s.Muted.Render("Type:"), s.Text.Render(string(e.Category)))
	fmt.Fprintf(&b, "%s %s\n", s.Muted.Render("Location:"), s.Text.Render(e.Location))
	fmt.Fprintf(&b, "%s %s\n\n", s.Muted.Render("Filed:"), s.Text.Render(e.Age(now)))
	b.WriteString(lipgloss.NewStyle().Width(inner).Render(e.Description))
	b.WriteString("\n")
	if len(e.Evidence) > 0 {
		b.WriteString("\n" + s.Muted.Render("Evidence:") + "\n")
		for _, ev := range e.Evidence {
			fmt.Fprintf(&b, "  %s %s\n", ev.Name, s.Subtle.Render("("+humanize.Bytes(uint64(ev.Size))+")"))
		}
	}
	if e.Outcome != "" {
		b.WriteString("\n" + s.Success.Render("Outcome") + "\n")
		b.WriteString(lipgloss.NewStyle().Width(inner).Render(e.Outcome))
		b.WriteString("\n")
	}
	b.WriteString("\n" + HintDetail())

	modal := s.ModalContainer.Width(width).Render(b.String())
	w, h := lipgloss.Width(modal), lipgloss.Height(modal)
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	if y < area.Min.Y {
		y = area.Min.Y
	}
	uv.NewStyledString(modal).Draw(scr, uv.Rect(x, y, w, h))
}
