package wizard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/reportu/reportu/internal/media"
	"github.com/reportu/reportu/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitFunc func(ctx context.Context, sub report.Submission) (report.Receipt, error)

func okSubmitter(ctx context.Context, sub report.Submission) (report.Receipt, error) {
	return report.Receipt{
		Reference:   "REP-123456",
		Country:     sub.Report.Country,
		SubmittedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

func newTestWizard(t *testing.T, submit submitFunc) (*Model, *report.Machine) {
	t.Helper()
	stager, err := media.NewStager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stager.Close() })

	machine := report.New(stager, report.Options{
		Submitter:      report.SubmitterFunc(submit),
		MaxAttachments: 2,
	})
	t.Cleanup(func() { _ = machine.Close() })

	m := New(context.Background(), machine, Options{MediaDir: t.TempDir()})
	t.Cleanup(m.unsubscribe)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, machine
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case "ctrl+d":
		return tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}
	}
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// findSubmitDone runs cmd, expanding batches, and returns the submission
// result it produced.
func findSubmitDone(t *testing.T, cmd tea.Cmd) submitDoneMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case submitDoneMsg:
			return msg
		}
	}
	t.Fatal("no submission was started")
	return submitDoneMsg{}
}

func fillDraft(t *testing.T, machine *report.Machine) {
	t.Helper()
	require.NoError(t, machine.SelectReportType(report.CategoryTrafficViolation))
	require.NoError(t, machine.Advance())
	require.NoError(t, machine.SetDescription("Car ran a red light"))
	require.NoError(t, machine.Advance())
	require.NoError(t, machine.SetCountry(report.CountryMalaysia))
	require.NoError(t, machine.SetLocationDetails("Jalan Ampang, KL"))
	require.NoError(t, machine.Advance())
	require.NoError(t, machine.Advance())
	require.Equal(t, report.StepReview, machine.Step())
}

func screen(m *Model) string {
	return ansi.Strip(m.render())
}

func TestWizard_StartsOnTypeStep(t *testing.T) {
	m, _ := newTestWizard(t, okSubmitter)

	out := screen(m)
	assert.Contains(t, out, "Step 1 of 5: Report Type")
	for _, c := range report.Categories() {
		assert.Contains(t, out, string(c))
	}
}

func TestWizard_EnterChoosesCategoryAndAdvances(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)

	press(m, "down", "enter")

	snap := machine.Snapshot()
	assert.Equal(t, report.CategoryPublicDisturbance, snap.Category)
	assert.Equal(t, report.StepDetails, snap.Step)
	assert.Contains(t, screen(m), "Step 2 of 5: Incident Details")
}

func TestWizard_DescriptionGate(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	press(m, "enter")

	press(m, "ctrl+d")
	assert.Equal(t, report.StepDetails, machine.Step(), "empty description must not advance")

	typeText(m, "Loud music")
	assert.Equal(t, "Loud music", machine.Snapshot().Description)

	press(m, "ctrl+d")
	assert.Equal(t, report.StepLocation, machine.Step())
}

func TestWizard_EditorDescriptionKeptVerbatim(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	press(m, "enter")
	require.Equal(t, report.StepDetails, machine.Step())

	long := strings.Repeat("a", 6000) + "\tend"
	m.Update(DescriptionEditedMsg{Content: long + "\n"})
	assert.Equal(t, long, machine.Snapshot().Description)

	press(m, "down")
	assert.Equal(t, long, machine.Snapshot().Description)
	assert.Len(t, machine.Snapshot().Description, 6004)

	// Typing edits the full text, not a truncated copy
	typeText(m, "!")
	assert.Contains(t, machine.Snapshot().Description, "!")
	assert.Greater(t, len(machine.Snapshot().Description), 6004)
}

func TestWizard_LocationStep(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	require.NoError(t, machine.SelectReportType(report.CategoryOther))
	require.NoError(t, machine.Advance())
	require.NoError(t, machine.SetDescription("Blocked drain"))
	press(m, "ctrl+d")
	require.Equal(t, report.StepLocation, machine.Step())

	press(m, "s")
	assert.Equal(t, report.CountrySingapore, machine.Snapshot().Country)

	press(m, "down")
	typeText(m, "Orchard")
	assert.Equal(t, "Orchard", machine.Snapshot().LocationDetails)

	press(m, "enter")
	assert.Equal(t, report.StepMedia, machine.Step())
	assert.Contains(t, screen(m), "Step 4 of 5: Evidence")
}

func TestWizard_EscRetreatsAndQuitsFromType(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	press(m, "enter")
	require.Equal(t, report.StepDetails, machine.Step())

	press(m, "esc")
	assert.Equal(t, report.StepType, machine.Step())

	cmd := press(m, "esc")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, machine.Snapshot().Closed)
}

func TestWizard_ButtonBar(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	require.NoError(t, machine.SelectReportType(report.CategoryOther))
	press(m, "enter")
	require.Equal(t, report.StepDetails, machine.Step())

	// Next is disabled, so tab lands on Back
	press(m, "tab")
	require.True(t, m.buttons.Focused())
	id, _ := m.buttons.Selected()
	assert.Equal(t, ButtonBack, id)
	press(m, "tab")
	assert.False(t, m.buttons.Focused())

	require.NoError(t, machine.SetDescription("Stall selling fake bags"))
	press(m, "tab")
	id, _ = m.buttons.Selected()
	assert.Equal(t, ButtonNext, id)

	press(m, "enter")
	assert.Equal(t, report.StepLocation, machine.Step())
	assert.False(t, m.buttons.Focused())
}

func TestWizard_MediaAttachAndRemove(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	fillDraft(t, machine)
	require.True(t, machine.Retreat())
	m.Update(nil)
	require.Equal(t, report.StepMedia, machine.Step())

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.png", "b.mp4", "c.jpg"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("data"), 0o644))
		paths = append(paths, p)
	}

	m.Update(FilesChosenMsg{Paths: paths})

	snap := machine.Snapshot()
	require.Len(t, snap.Attachments, 2)
	out := screen(m)
	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "b.mp4")
	assert.Contains(t, out, "skipped c.jpg")

	press(m, "d")
	snap = machine.Snapshot()
	require.Len(t, snap.Attachments, 1)
	assert.Equal(t, "a.png", snap.Attachments[0].Name)
}

func TestWizard_SubmitSuccess(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	fillDraft(t, machine)
	m.Update(nil)
	assert.Contains(t, screen(m), "Step 5 of 5: Review")

	cmd := press(m, "enter")
	require.Equal(t, report.StepSubmitting, machine.Step())
	assert.Contains(t, screen(m), "Submitting Report")

	m.Update(findSubmitDone(t, cmd))

	require.Equal(t, report.StepSuccess, machine.Step())
	out := screen(m)
	assert.Contains(t, out, "Report Submitted Successfully!")
	assert.Contains(t, out, "REP-123456")
	assert.Contains(t, out, "Malaysia")
	require.Len(t, m.Receipts(), 1)
	assert.Equal(t, "REP-123456", m.Receipts()[0].Reference)

	press(m, "enter")
	assert.Equal(t, report.StepType, machine.Step())
	assert.Empty(t, machine.Snapshot().Description)
}

func TestWizard_SubmitFailureReturnsToReview(t *testing.T) {
	m, machine := newTestWizard(t, func(ctx context.Context, sub report.Submission) (report.Receipt, error) {
		return report.Receipt{}, errors.New("network down")
	})
	fillDraft(t, machine)

	cmd := press(m, "enter")
	m.Update(findSubmitDone(t, cmd))

	require.Equal(t, report.StepReview, machine.Step())
	assert.Contains(t, screen(m), "Submission failed: network down")
	assert.Equal(t, "Car ran a red light", machine.Snapshot().Description)
	assert.Empty(t, m.Receipts())
}

func TestWizard_EscCancelsSubmission(t *testing.T) {
	m, machine := newTestWizard(t, func(ctx context.Context, sub report.Submission) (report.Receipt, error) {
		<-ctx.Done()
		return report.Receipt{}, ctx.Err()
	})
	fillDraft(t, machine)

	cmd := press(m, "enter")
	require.Equal(t, report.StepSubmitting, machine.Step())

	press(m, "esc")
	require.Equal(t, report.StepReview, machine.Step())
	assert.Contains(t, screen(m), "Submission cancelled.")

	// The late result belongs to the abandoned attempt
	m.Update(findSubmitDone(t, cmd))
	assert.Equal(t, report.StepReview, machine.Step())
	assert.Empty(t, m.Receipts())
}

func TestWizard_CtrlCQuitsAnywhere(t *testing.T) {
	m, machine := newTestWizard(t, okSubmitter)
	fillDraft(t, machine)

	cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, machine.Snapshot().Closed)
}
