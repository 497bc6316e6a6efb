// Package wizard is the interactive report wizard: five entry steps, a
// submitting screen and a success screen, all driven by a report.Machine.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/report"
	"github.com/reportu/reportu/internal/tui/theme"
)

// modalWidth is the outer width of the wizard modal.
const modalWidth = 76

// stepComponent is the contract every entry step implements. Update returns
// true when the step wants the wizard to advance.
type stepComponent interface {
	Update(msg tea.Msg) (tea.Cmd, bool)
	View(snap report.Snapshot) string
	SetSize(width, height int)
	Sync(snap report.Snapshot)
}

type focuser interface {
	Focus() tea.Cmd
}

type blurrer interface {
	Blur()
}

var stepTitles = map[report.Step]string{
	report.StepType:     "Report Type",
	report.StepDetails:  "Incident Details",
	report.StepLocation: "Location",
	report.StepMedia:    "Evidence",
	report.StepReview:   "Review",
}

// Options configures the wizard.
type Options struct {
	MediaDir string // where the file picker opens; working directory when empty
}

// Model is the BubbleTea model for the report wizard.
type Model struct {
	ctx         context.Context
	machine     *report.Machine
	unsubscribe func()

	snap  report.Snapshot
	shown report.Step // step whose component was last focused

	steps   map[report.Step]stepComponent
	media   *MediaStep
	buttons *ButtonBar
	spinner spinner.Model

	cancelSubmit context.CancelFunc
	receipts     []report.Receipt
	quitting     bool

	width  int
	height int
}

// New creates a wizard bound to machine. The wizard observes the machine and
// re-renders from its snapshots.
func New(ctx context.Context, machine *report.Machine, opts Options) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	media := NewMediaStep(machine, opts.MediaDir)
	m := &Model{
		ctx:     ctx,
		machine: machine,
		snap:    machine.Snapshot(),
		shown:   -1,
		steps: map[report.Step]stepComponent{
			report.StepType:     NewTypeStep(machine),
			report.StepDetails:  NewDetailsStep(machine),
			report.StepLocation: NewLocationStep(machine),
			report.StepMedia:    media,
			report.StepReview:   NewReviewStep(),
		},
		media:   media,
		buttons: NewButtonBar(nil),
		spinner: sp,
		width:   80,
		height:  24,
	}
	m.unsubscribe = machine.Subscribe(func(snap report.Snapshot) {
		m.snap = snap
	})
	m.updateSizes()
	return m
}

// Run starts a standalone program for the wizard and returns the receipts of
// every report submitted before the user quit.
func Run(ctx context.Context, machine *report.Machine, opts Options) ([]report.Receipt, error) {
	m := New(ctx, machine, opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()

	// Interrupted programs never see quit, so release here too
	m.stopSubmit()
	if cerr := machine.Close(); cerr != nil {
		logger.Warn("Failed to release attachments: %v", cerr)
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return m.receipts, fmt.Errorf("wizard failed: %w", err)
	}
	wizModel, ok := finalModel.(*Model)
	if !ok {
		return m.receipts, fmt.Errorf("unexpected model type")
	}
	return wizModel.receipts, nil
}

// Receipts returns the receipts collected so far.
func (m *Model) Receipts() []report.Receipt {
	return m.receipts
}

// Init focuses the first step.
func (m *Model) Init() tea.Cmd {
	return m.syncStep()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.syncStep())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return nil

	case submitDoneMsg:
		m.stopSubmit()
		if err := m.machine.Resolve(msg.result); err != nil {
			if errors.Is(err, report.ErrStaleSubmission) {
				return nil
			}
			logger.Warn("Could not apply submission result: %v", err)
			return nil
		}
		if msg.result.Err == nil {
			m.receipts = append(m.receipts, msg.result.Receipt)
		}
		return nil

	case spinner.TickMsg:
		if m.snap.Step != report.StepSubmitting {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.snap.Step {
		case report.StepSubmitting:
			return m.updateSubmitting(msg)
		case report.StepSuccess:
			return m.updateSuccess(msg)
		}
		return m.updateEntryKey(msg)
	}

	// Editor results and picker selections go to the step that asked for them
	if comp, ok := m.steps[m.snap.Step]; ok {
		cmd, advance := comp.Update(msg)
		if advance {
			return tea.Batch(cmd, m.advance())
		}
		return cmd
	}
	return nil
}

func (m *Model) updateEntryKey(msg tea.KeyPressMsg) tea.Cmd {
	comp := m.steps[m.snap.Step]

	if m.buttons.Focused() {
		switch msg.String() {
		case "left", "shift+tab":
			m.buttons.Move(-1)
		case "right":
			m.buttons.Move(1)
		case "tab", "esc":
			m.buttons.Blur()
			return m.focusContent()
		case "enter", "space", " ":
			id, ok := m.buttons.Selected()
			if !ok {
				return nil
			}
			m.buttons.Blur()
			if id == ButtonBack {
				m.machine.Retreat()
				return nil
			}
			return m.advance()
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		if m.snap.Step == report.StepMedia && m.media.Browsing() {
			cmd, _ := comp.Update(msg)
			return cmd
		}
		if m.snap.Step == report.StepType {
			return m.quit()
		}
		m.machine.Retreat()
		return nil
	case "tab", "shift+tab":
		if m.snap.Step == report.StepMedia && m.media.Browsing() {
			return nil
		}
		m.refreshButtons()
		if msg.String() == "tab" {
			if !m.buttons.FocusLast() {
				return nil
			}
		} else if !m.buttons.FocusFirst() {
			return nil
		}
		if b, ok := comp.(blurrer); ok {
			b.Blur()
		}
		return nil
	}

	cmd, advance := comp.Update(msg)
	if advance {
		return tea.Batch(cmd, m.advance())
	}
	return cmd
}

func (m *Model) updateSubmitting(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() != "esc" {
		return nil
	}
	m.stopSubmit()
	if err := m.machine.Abort(); err != nil {
		logger.Warn("Abort failed: %v", err)
	}
	return nil
}

func (m *Model) updateSuccess(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "n":
		if err := m.machine.Reset(); err != nil {
			logger.Warn("Reset failed: %v", err)
		}
		return nil
	case "q", "esc":
		return m.quit()
	}
	return nil
}

// advance moves the machine forward. Leaving Review starts delivery.
func (m *Model) advance() tea.Cmd {
	from := m.snap.Step
	if err := m.machine.Advance(); err != nil {
		logger.Debug("Advance from %s refused: %v", from, err)
		return nil
	}
	if m.machine.Step() != report.StepSubmitting {
		return nil
	}

	sub, ok := m.machine.Pending()
	if !ok {
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelSubmit = cancel
	machine := m.machine
	deliver := func() tea.Msg {
		return submitDoneMsg{result: machine.Deliver(ctx, sub)}
	}
	return tea.Batch(deliver, m.spinner.Tick)
}

func (m *Model) stopSubmit() {
	if m.cancelSubmit != nil {
		m.cancelSubmit()
		m.cancelSubmit = nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.stopSubmit()
	m.quitting = true
	if err := m.machine.Close(); err != nil {
		logger.Warn("Failed to release attachments: %v", err)
	}
	return tea.Quit
}

// syncStep refreshes the step components from the latest snapshot and moves
// focus when the step changed.
func (m *Model) syncStep() tea.Cmd {
	if m.quitting {
		return nil
	}
	if comp, ok := m.steps[m.snap.Step]; ok {
		comp.Sync(m.snap)
	}
	m.refreshButtons()
	if m.snap.Step == m.shown {
		return nil
	}

	if prev, ok := m.steps[m.shown]; ok {
		if b, ok := prev.(blurrer); ok {
			b.Blur()
		}
	}
	m.shown = m.snap.Step
	m.buttons.Blur()
	return m.focusContent()
}

func (m *Model) focusContent() tea.Cmd {
	if comp, ok := m.steps[m.snap.Step]; ok {
		if f, ok := comp.(focuser); ok {
			return f.Focus()
		}
	}
	return nil
}

func (m *Model) refreshButtons() {
	if !m.snap.Step.Valid() || m.snap.Step.Position() > len(report.EntrySteps) {
		m.buttons.SetButtons(nil)
		return
	}
	label := "Next →"
	if m.snap.Step == report.StepReview {
		label = "Submit Report"
	}
	m.buttons.SetButtons(CreateBackNextButtons(
		m.snap.Step != report.StepType,
		m.snap.CanAdvance,
		label,
	))
}

func (m *Model) contentSize() (int, int) {
	width := modalWidth - 6
	height := m.height - 12
	if height < 8 {
		height = 8
	}
	if height > 30 {
		height = 30
	}
	return width, height
}

func (m *Model) updateSizes() {
	w, h := m.contentSize()
	for _, comp := range m.steps {
		comp.SetSize(w, h)
	}
	m.buttons.SetWidth(w)
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 || m.quitting {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.render())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render draws the modal for the current step.
func (m *Model) render() string {
	st := theme.Current().S()
	var body string
	switch m.snap.Step {
	case report.StepSubmitting:
		body = m.renderSubmitting()
	case report.StepSuccess:
		body = m.renderSuccess()
	default:
		body = m.renderEntry()
	}
	return st.ModalContainer.Width(modalWidth).Render(body)
}

func (m *Model) renderEntry() string {
	st := theme.Current().S()
	w, _ := m.contentSize()
	total := len(report.EntrySteps)
	pos := m.snap.Step.Position()

	title := fmt.Sprintf("Step %d of %d: %s", pos, total, stepTitles[m.snap.Step])
	sections := []string{
		st.ModalTitle.Render(title),
		renderProgress(pos, total, w),
		"",
	}
	if comp, ok := m.steps[m.snap.Step]; ok {
		sections = append(sections, comp.View(m.snap))
	}
	if !(m.snap.Step == report.StepMedia && m.media.Browsing()) {
		sections = append(sections, "", m.buttons.Render())
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderSubmitting() string {
	st := theme.Current().S()
	return strings.Join([]string{
		st.ModalTitle.Render("Submitting Report"),
		"",
		m.spinner.View() + " " + st.Text.Render("Sending your report to the authorities..."),
		"",
		renderHintBar("esc", "cancel"),
	}, "\n")
}

func (m *Model) renderSuccess() string {
	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(st.Success.Render("✓ Report Submitted Successfully!"))
	b.WriteString("\n\n")

	if r := m.snap.Receipt; r != nil {
		card := fmt.Sprintf("Reference: %s\n\nYour report has been submitted to the appropriate authorities in %s.",
			r.Reference, r.Country)
		if r.Duplicate {
			card += "\nThis report was already received, so it was not filed twice."
		}
		b.WriteString(st.SuccessCard.Width(modalWidth - 8).Render(card))
		b.WriteString("\n\n")
	}

	b.WriteString(st.Muted.Render("Keep the reference to follow up on your report."))
	b.WriteString("\n\n")
	b.WriteString(renderHintBar(
		"enter", "submit another report",
		"q", "quit",
	))
	return b.String()
}
