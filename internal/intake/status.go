package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reportu/reportu/internal/nats"
)

// UpdateStatus records a new handling status for a filed report. An outcome
// may only accompany Resolved.
func (s *Store) UpdateStatus(ctx context.Context, reference string, status Status, outcome string) (Entry, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	status, err := ParseStatus(string(status))
	if err != nil {
		return Entry{}, err
	}
	outcome = strings.TrimSpace(outcome)
	if outcome != "" && status != StatusResolved {
		return Entry{}, fmt.Errorf("%w: an outcome can only be recorded for %s reports", ErrInvalidStatus, StatusResolved)
	}

	feed, err := s.LoadFeed(ctx)
	if err != nil {
		return Entry{}, err
	}
	entry, ok := feed.Lookup(reference)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownReference, reference)
	}

	meta, _ := json.Marshal(statusMeta{Status: status, Outcome: outcome})
	now := time.Now()
	_, err = s.PublishEvent(ctx, nats.SubjectForStatus(reference), Event{
		ID:        uuid.NewString(),
		Timestamp: now,
		Reference: reference,
		Type:      nats.EventTypeStatus,
		Action:    ActionUpdate,
		Meta:      meta,
		Data:      outcome,
	})
	if err != nil {
		return Entry{}, err
	}

	entry.Status = status
	entry.Outcome = outcome
	entry.UpdatedAt = now
	return entry, nil
}
