package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/nats"
	"github.com/reportu/reportu/internal/report"
	"golang.org/x/sync/errgroup"
)

// evidenceUploads bounds concurrent object store writes per submission.
const evidenceUploads = 4

// ReferenceFor formats the public reference for a stream sequence.
func ReferenceFor(seq uint64) string {
	return fmt.Sprintf("REP-%06d", seq)
}

// EvidenceRef points at one uploaded attachment in the evidence bucket.
type EvidenceRef struct {
	Object   string `json:"object"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type submittedMeta struct {
	Category        string        `json:"category"`
	Country         string        `json:"country"`
	LocationDetails string        `json:"location_details"`
	Location        string        `json:"location"`
	Evidence        []EvidenceRef `json:"evidence,omitempty"`
}

// Submit records a report and returns its receipt. The submission key is
// used as the JetStream message ID, so resubmitting the same key inside the
// duplicate window returns the original reference instead of a new report.
func (s *Store) Submit(ctx context.Context, sub report.Submission) (report.Receipt, error) {
	if sub.Key == "" {
		return report.Receipt{}, ErrMissingKey
	}
	r := sub.Report
	if !r.Category.Valid() {
		return report.Receipt{}, fmt.Errorf("%w: %q", report.ErrInvalidCategory, r.Category)
	}
	if !r.Country.Valid() {
		return report.Receipt{}, fmt.Errorf("%w: %q", report.ErrInvalidCountry, r.Country)
	}

	evidence, err := s.storeEvidence(ctx, sub.Key, r.Attachments)
	if err != nil {
		return report.Receipt{}, err
	}

	meta, err := json.Marshal(submittedMeta{
		Category:        string(r.Category),
		Country:         string(r.Country),
		LocationDetails: r.LocationDetails,
		Location:        r.Location(),
		Evidence:        evidence,
	})
	if err != nil {
		return report.Receipt{}, fmt.Errorf("failed to marshal report: %w", err)
	}

	now := time.Now()
	ack, err := s.PublishEvent(ctx, nats.SubjectForReport(string(r.Country), string(r.Category)), Event{
		ID:        sub.Key,
		Timestamp: now,
		Type:      nats.EventTypeReport,
		Action:    ActionSubmitted,
		Meta:      meta,
		Data:      r.Description,
	}, jetstream.WithMsgID(sub.Key))
	if err != nil {
		return report.Receipt{}, err
	}

	receipt := report.Receipt{
		Reference:   ReferenceFor(ack.Sequence),
		Country:     r.Country,
		SubmittedAt: now,
		Duplicate:   ack.Duplicate,
	}
	if ack.Duplicate {
		// Report the time of the original submission
		if raw, err := s.stream.GetMsg(ctx, ack.Sequence); err == nil {
			receipt.SubmittedAt = raw.Time
		}
		logger.Info("Duplicate submission %s resolved to %s", sub.Key, receipt.Reference)
	}
	return receipt, nil
}

func (s *Store) storeEvidence(ctx context.Context, key string, attachments []report.Attachment) ([]EvidenceRef, error) {
	refs := make([]EvidenceRef, len(attachments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(evidenceUploads)
	for i, a := range attachments {
		object := fmt.Sprintf("%s/%d-%s", key, i, a.Name)
		refs[i] = EvidenceRef{
			Object:   object,
			Name:     a.Name,
			MIMEType: a.MIMEType,
			Size:     a.Size,
		}
		g.Go(func() error {
			return s.putEvidence(gctx, object, a)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *Store) putEvidence(ctx context.Context, object string, a report.Attachment) error {
	f, err := os.Open(a.Path)
	if err != nil {
		return fmt.Errorf("reading attachment %s: %w", a.Name, err)
	}
	defer f.Close()

	_, err = s.evidence.Put(ctx, jetstream.ObjectMeta{
		Name:        object,
		Description: a.MIMEType,
	}, f)
	if err != nil {
		return fmt.Errorf("uploading attachment %s: %w", a.Name, err)
	}
	logger.Debug("Uploaded evidence %s (%d bytes)", object, a.Size)
	return nil
}

// Evidence returns the bytes of an uploaded attachment.
func (s *Store) Evidence(ctx context.Context, object string) ([]byte, error) {
	return s.evidence.GetBytes(ctx, object)
}
