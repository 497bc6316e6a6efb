package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reportu/reportu/internal/media"
	"github.com/reportu/reportu/internal/nats"
	"github.com/reportu/reportu/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *nats.Broker) {
	t.Helper()
	b, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return FromBroker(b), b
}

func submission(key string) report.Submission {
	return report.Submission{
		Seq: 1,
		Key: key,
		Report: report.Report{
			Category:        report.CategoryTrafficViolation,
			Description:     "Car ran a red light",
			Country:         report.CountryMalaysia,
			LocationDetails: "Jalan Ampang",
		},
	}
}

func TestSubmit_AssignsReferenceAndFeedEntry(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	receipt, err := store.Submit(ctx, submission("key-1"))
	require.NoError(t, err)
	assert.Equal(t, "REP-000001", receipt.Reference)
	assert.Equal(t, report.CountryMalaysia, receipt.Country)
	assert.False(t, receipt.Duplicate)
	assert.False(t, receipt.SubmittedAt.IsZero())

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, feed.Len())

	entry, ok := feed.Lookup("rep-000001")
	require.True(t, ok)
	assert.Equal(t, report.CategoryTrafficViolation, entry.Category)
	assert.Equal(t, "Car ran a red light", entry.Description)
	assert.Equal(t, "Jalan Ampang, Malaysia", entry.Location)
	assert.Equal(t, StatusPending, entry.Status)
}

func TestSubmit_DuplicateKeyReturnsOriginalReference(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	first, err := store.Submit(ctx, submission("same-key"))
	require.NoError(t, err)
	second, err := store.Submit(ctx, submission("same-key"))
	require.NoError(t, err)

	assert.Equal(t, first.Reference, second.Reference)
	assert.True(t, second.Duplicate)
	assert.WithinDuration(t, first.SubmittedAt, second.SubmittedAt, time.Second)

	third, err := store.Submit(ctx, submission("other-key"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Reference, third.Reference)

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.Len())
}

func TestSubmit_Validation(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.Submit(ctx, submission(""))
	assert.ErrorIs(t, err, ErrMissingKey)

	sub := submission("k")
	sub.Report.Country = ""
	_, err = store.Submit(ctx, sub)
	assert.ErrorIs(t, err, report.ErrInvalidCountry)

	sub = submission("k")
	sub.Report.Category = "Jaywalking"
	_, err = store.Submit(ctx, sub)
	assert.ErrorIs(t, err, report.ErrInvalidCategory)
}

func TestSubmit_UploadsEvidence(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	path := filepath.Join(t.TempDir(), "plate.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0644))

	sub := submission("with-evidence")
	sub.Report.Attachments = []report.Attachment{
		{Name: "plate.jpg", MIMEType: "image/jpeg", Size: 10, Path: path},
	}
	receipt, err := store.Submit(ctx, sub)
	require.NoError(t, err)

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	entry, ok := feed.Lookup(receipt.Reference)
	require.True(t, ok)
	require.Len(t, entry.Evidence, 1)
	assert.Equal(t, "with-evidence/0-plate.jpg", entry.Evidence[0].Object)
	assert.Equal(t, "image/jpeg", entry.Evidence[0].MIMEType)

	data, err := store.Evidence(ctx, entry.Evidence[0].Object)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestSubmit_MissingAttachmentFails(t *testing.T) {
	store, _ := newStore(t)
	sub := submission("gone")
	sub.Report.Attachments = []report.Attachment{{Name: "gone.jpg", Path: filepath.Join(t.TempDir(), "gone.jpg")}}

	_, err := store.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.jpg")
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	receipt, err := store.Submit(ctx, submission("k"))
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, "REP-999999", StatusResolved, "")
	assert.ErrorIs(t, err, ErrUnknownReference)

	_, err = store.UpdateStatus(ctx, receipt.Reference, "Closed", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = store.UpdateStatus(ctx, receipt.Reference, StatusInvestigating, "Fine issued")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	entry, err := store.UpdateStatus(ctx, receipt.Reference, StatusInvestigating, "")
	require.NoError(t, err)
	assert.Equal(t, StatusInvestigating, entry.Status)

	_, err = store.UpdateStatus(ctx, receipt.Reference, StatusResolved, "Fine issued: RM300")
	require.NoError(t, err)

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	got, ok := feed.Lookup(receipt.Reference)
	require.True(t, ok)
	assert.Equal(t, StatusResolved, got.Status)
	assert.Equal(t, "Fine issued: RM300", got.Outcome)
	assert.True(t, got.UpdatedAt.After(got.SubmittedAt) || got.UpdatedAt.Equal(got.SubmittedAt))

	successes := feed.Successes(0)
	require.Len(t, successes, 1)
	assert.Equal(t, receipt.Reference, successes[0].Reference)
}

func TestSeed_OnlyIntoEmptyLog(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	n, err := store.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(demoReports), n)

	n, err = store.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(demoReports), feed.Len())

	recent := feed.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "REP-000001", recent[0].Reference)
	assert.Equal(t, "Orchard Road, Singapore", recent[0].Location)
	assert.Equal(t, StatusResolved, recent[0].Status)
	assert.Equal(t, "REP-000002", recent[1].Reference)
	assert.Equal(t, StatusInvestigating, recent[1].Status)
	assert.Equal(t, "Bukit Bintang, Kuala Lumpur", recent[1].Location)

	successes := feed.Successes(5)
	require.Len(t, successes, 5)
	assert.Equal(t, "Marina Bay, Singapore", successes[0].Location)
	assert.Equal(t, "Fine issued: $300", successes[0].Outcome)
	assert.Equal(t, "Woodlands Checkpoint", successes[4].Location)

	pending, ok := feed.Lookup("REP-000005")
	require.True(t, ok)
	assert.Equal(t, "KLCC, Kuala Lumpur", pending.Location)
	assert.Equal(t, StatusPending, pending.Status)
}

func TestSeed_NeverShadowsLaterSubmissions(t *testing.T) {
	ctx := context.Background()
	store, b := newStore(t)

	_, err := store.Seed(ctx)
	require.NoError(t, err)

	// Fill the log so the next report lands on sequence 1122.
	for {
		info, err := b.Stream.Info(ctx)
		require.NoError(t, err)
		if info.State.LastSeq >= 1121 {
			break
		}
		_, err = store.PublishEvent(ctx, nats.SubjectForStatus("REP-999999"), Event{
			Reference: "REP-999999",
			Type:      nats.EventTypeStatus,
			Action:    ActionUpdate,
		})
		require.NoError(t, err)
	}

	sub := submission("real")
	sub.Report.Description = "my real report"
	receipt, err := store.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "REP-001122", receipt.Reference)

	_, err = store.UpdateStatus(ctx, receipt.Reference, StatusInvestigating, "")
	require.NoError(t, err)

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(demoReports)+1, feed.Len())

	mine, ok := feed.Lookup(receipt.Reference)
	require.True(t, ok)
	assert.Equal(t, "my real report", mine.Description)
	assert.Equal(t, StatusInvestigating, mine.Status)

	var taman []Entry
	for _, e := range feed.Recent(0) {
		if e.Location == "Taman Negara, Malaysia" {
			taman = append(taman, e)
		}
	}
	require.Len(t, taman, 1)
	assert.NotEqual(t, receipt.Reference, taman[0].Reference)
	assert.Equal(t, StatusResolved, taman[0].Status)
	assert.Equal(t, "Company fined $5,000", taman[0].Outcome)
}

func TestFeed_ReferenceComesFromSequence(t *testing.T) {
	f := NewFeed()
	f.Apply(Event{
		Type:   nats.EventTypeReport,
		Action: ActionSubmitted,
		Meta:   []byte(`{"reference":"REP-001122","category":"Other","country":"Malaysia","location":"Ipoh"}`),
	}, 3)
	f.Apply(Event{
		Type:   nats.EventTypeReport,
		Action: ActionSubmitted,
		Meta:   []byte(`{"category":"Other","country":"Malaysia","location":"Penang"}`),
	}, 3)

	assert.Equal(t, 1, f.Len())
	_, ok := f.Lookup("REP-001122")
	assert.False(t, ok)
	entry, ok := f.Lookup("REP-000003")
	require.True(t, ok)
	assert.Equal(t, "Ipoh", entry.Location)
}

func TestSeed_SkipsNonEmptyLog(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	_, err := store.Submit(ctx, submission("k"))
	require.NoError(t, err)

	n, err := store.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadFeed_SkipsMalformedEvents(t *testing.T) {
	ctx := context.Background()
	store, b := newStore(t)

	_, err := b.JS.Publish(ctx, nats.SubjectForReport("Malaysia", "Other"), []byte("not json"))
	require.NoError(t, err)
	_, err = store.Submit(ctx, submission("k"))
	require.NoError(t, err)

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Len())
	_, ok := feed.Lookup("REP-000002")
	assert.True(t, ok)
}

func TestMachineSubmitsThroughStore(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	stager, err := media.NewStager(t.TempDir())
	require.NoError(t, err)
	defer stager.Close()

	m := report.New(stager, report.Options{Submitter: store, SubmitTimeout: 5 * time.Second})
	defer m.Close()

	require.NoError(t, m.SelectReportType(report.CategoryEnvironmentalIssue))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetDescription("Oil dumped in the river"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetCountry(report.CountrySingapore))
	require.NoError(t, m.SetLocationDetails("Kallang River"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.AddAttachments(media.Source{Name: "river.mp4", Data: []byte("video")}))
	require.NoError(t, m.Advance())

	receipt, err := m.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "REP-000001", receipt.Reference)
	assert.Equal(t, report.StepSuccess, m.Step())
	assert.Zero(t, stager.Live())

	feed, err := store.LoadFeed(ctx)
	require.NoError(t, err)
	entry, ok := feed.Lookup(receipt.Reference)
	require.True(t, ok)
	assert.Equal(t, "Kallang River, Singapore", entry.Location)
	require.Len(t, entry.Evidence, 1)
	assert.Equal(t, "video/mp4", entry.Evidence[0].MIMEType)
}

func TestFabricated(t *testing.T) {
	receipt, err := Fabricated{}.Submit(context.Background(), submission("k"))
	require.NoError(t, err)
	assert.Equal(t, FabricatedReference, receipt.Reference)
	assert.Equal(t, report.CountryMalaysia, receipt.Country)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Fabricated{Delay: time.Hour}.Submit(ctx, submission("k"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntry_Age(t *testing.T) {
	now := time.Now()
	e := Entry{SubmittedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-3 * 24 * time.Hour)}
	assert.Equal(t, "2 hours ago", e.Age(now))
	assert.Equal(t, "3 days ago", e.ResolvedAge(now))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"pending", StatusPending, true},
		{"Under Investigation", StatusInvestigating, true},
		{"investigating", StatusInvestigating, true},
		{" RESOLVED ", StatusResolved, true},
		{"dismissed", StatusDismissed, true},
		{"closed", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
