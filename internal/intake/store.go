// Package intake records submitted reports in the JetStream event log and
// rebuilds the public activity feed from it.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/nats"
)

var (
	ErrUnknownReference = errors.New("unknown report reference")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrMissingKey       = errors.New("submission has no idempotency key")
)

// Event is one entry in the report event log. Reports are never mutated;
// status changes are appended as further events and reduced into the feed.
type Event struct {
	ID        string          `json:"id"`                  // Submission key or generated ID
	Timestamp time.Time       `json:"timestamp"`           // When the event occurred
	Reference string          `json:"reference,omitempty"` // Set on status events
	Type      string          `json:"type"`                // report, status
	Action    string          `json:"action"`              // submitted, update
	Meta      json.RawMessage `json:"meta"`                // Action-specific metadata
	Data      string          `json:"data"`                // Description or outcome text
}

const (
	ActionSubmitted = "submitted"
	ActionUpdate    = "update"
)

// Store publishes report events and reads them back.
type Store struct {
	js       jetstream.JetStream
	stream   jetstream.Stream
	evidence jetstream.ObjectStore
}

// NewStore creates a Store over an existing stream and evidence bucket.
func NewStore(js jetstream.JetStream, stream jetstream.Stream, evidence jetstream.ObjectStore) *Store {
	return &Store{
		js:       js,
		stream:   stream,
		evidence: evidence,
	}
}

// FromBroker creates a Store over the resources of an opened broker.
func FromBroker(b *nats.Broker) *Store {
	return NewStore(b.JS, b.Stream, b.Evidence)
}

// PublishEvent appends an event to the log under subject.
func (s *Store) PublishEvent(ctx context.Context, subject string, event Event, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	logger.Debug("Publishing event: subject=%s type=%s action=%s", subject, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data, opts...)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug("Event published: seq=%d duplicate=%t", ack.Sequence, ack.Duplicate)
	return ack, nil
}

// LoadFeed reads every event from the start of the log and reduces it
// into a Feed.
func (s *Store) LoadFeed(ctx context.Context) (*Feed, error) {
	consumer, err := nats.CreateReplayConsumer(ctx, s.stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	feed := NewFeed()

	const batchSize = 1000
	malformed := 0
	total := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			total++
			meta, _ := msg.Metadata()
			var seq uint64
			if meta != nil {
				seq = meta.Sequence.Stream
			}

			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				logger.Warn("Skipping malformed event (seq=%d): %v", seq, err)
				_ = msg.Ack()
				continue
			}

			feed.Apply(event, seq)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		fmt.Fprintf(os.Stderr, "Warning: Skipped %d malformed events while loading the feed\n", malformed)
	}
	logger.Debug("Feed loaded: %d events, %d reports", total, feed.Len())
	return feed, nil
}
