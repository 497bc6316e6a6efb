package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName     = "reportu_reports"
	EvidenceBucket = "reportu_evidence"

	// DuplicateWindow is how long JetStream remembers a submission key.
	DuplicateWindow = 24 * time.Hour

	// Event types
	EventTypeReport = "report"
	EventTypeStatus = "status"
)

// AllSubjects matches every reportu event.
const AllSubjects = "reportu.>"

// SubjectForReport returns the subject a submitted report is filed under.
// Example: "reportu.report.singapore.traffic-violation"
func SubjectForReport(country, category string) string {
	return fmt.Sprintf("reportu.%s.%s.%s", EventTypeReport, token(country), token(category))
}

// SubjectForStatus returns the subject for status changes of one report.
// Example: "reportu.status.rep-000042"
func SubjectForStatus(reference string) string {
	return fmt.Sprintf("reportu.%s.%s", EventTypeStatus, token(reference))
}

// token turns free text into a single subject token.
func token(s string) string {
	t := slug.Make(s)
	if t == "" {
		return "unknown"
	}
	return t
}

// SetupStream creates or updates the JetStream stream for report events.
// The duplicate window backs submission idempotency.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{AllSubjects},
		Storage:    jetstream.FileStorage,
		MaxAge:     365 * 24 * time.Hour,
		Duplicates: DuplicateWindow,
	})
}

// SetupEvidenceStore creates or updates the object store holding
// attachment bytes.
func SetupEvidenceStore(ctx context.Context, js jetstream.JetStream) (jetstream.ObjectStore, error) {
	return js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      EvidenceBucket,
		Description: "Photos and videos attached to reports",
		Storage:     jetstream.FileStorage,
	})
}

// ReplayIdleTimeout is how long an unused replay consumer lives on the server.
const ReplayIdleTimeout = 30 * time.Second

// CreateReplayConsumer creates an ephemeral consumer that reads every
// reportu event from the beginning of the stream. The server removes it
// once it has been idle for ReplayIdleTimeout.
func CreateReplayConsumer(ctx context.Context, stream jetstream.Stream) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     AllSubjects,
		AckPolicy:         jetstream.AckExplicitPolicy,
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		InactiveThreshold: ReplayIdleTimeout,
	})
}
