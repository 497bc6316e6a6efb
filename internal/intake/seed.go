package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/nats"
	"github.com/reportu/reportu/internal/report"
)

type demoReport struct {
	category report.Category
	country  report.Country
	location string
	status   Status
	outcome  string
	age      time.Duration
}

const (
	hour = time.Hour
	day  = 24 * time.Hour
)

// demoReports is the activity shown on a fresh install.
var demoReports = []demoReport{
	{report.CategoryTrafficViolation, report.CountrySingapore, "Orchard Road, Singapore", StatusResolved, "", 2 * hour},
	{report.CategoryPublicDisturbance, report.CountryMalaysia, "Bukit Bintang, Kuala Lumpur", StatusInvestigating, "", 5 * hour},
	{report.CategoryCounterfeitGoods, report.CountrySingapore, "Chinatown, Singapore", StatusResolved, "", day},
	{report.CategoryEnvironmentalIssue, report.CountrySingapore, "Sentosa Island, Singapore", StatusResolved, "", 2 * day},
	{report.CategoryConsumerComplaint, report.CountryMalaysia, "KLCC, Kuala Lumpur", StatusPending, "", 3 * day},

	{report.CategoryTrafficViolation, report.CountrySingapore, "Marina Bay, Singapore", StatusResolved, "Fine issued: $300", day},
	{report.CategoryCounterfeitGoods, report.CountryMalaysia, "Petaling Street, Kuala Lumpur", StatusResolved, "Goods seized, vendor fined", 3 * day},
	{report.CategoryPublicDisturbance, report.CountrySingapore, "Clarke Quay, Singapore", StatusResolved, "Warning issued", 5 * day},
	{report.CategoryEnvironmentalIssue, report.CountryMalaysia, "Taman Negara, Malaysia", StatusResolved, "Company fined $5,000", 7 * day},
	{report.CategoryTrafficViolation, report.CountrySingapore, "Woodlands Checkpoint", StatusResolved, "License suspended", 14 * day},
}

// Seed publishes the demo activity when the log is empty and returns how
// many reports it added. A log with any history is left alone.
func (s *Store) Seed(ctx context.Context) (int, error) {
	info, err := s.stream.Info(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading stream info: %w", err)
	}
	if info.State.Msgs > 0 {
		return 0, nil
	}

	// Demo reports are numbered by the stream like any other, so they can
	// never shadow a real submission.
	now := time.Now()
	refs := make([]string, len(demoReports))
	for i, d := range demoReports {
		meta, _ := json.Marshal(submittedMeta{
			Category: string(d.category),
			Country:  string(d.country),
			Location: d.location,
		})
		id := fmt.Sprintf("seed-%d", i)
		ack, err := s.PublishEvent(ctx, nats.SubjectForReport(string(d.country), string(d.category)), Event{
			ID:        id,
			Timestamp: now.Add(-d.age),
			Type:      nats.EventTypeReport,
			Action:    ActionSubmitted,
			Meta:      meta,
		}, jetstream.WithMsgID(id))
		if err != nil {
			return 0, err
		}
		refs[i] = ReferenceFor(ack.Sequence)
	}

	for i, d := range demoReports {
		if d.status == StatusPending {
			continue
		}
		status, _ := json.Marshal(statusMeta{Status: d.status, Outcome: d.outcome})
		_, err := s.PublishEvent(ctx, nats.SubjectForStatus(refs[i]), Event{
			ID:        "seed-status-" + refs[i],
			Timestamp: now.Add(-d.age),
			Reference: refs[i],
			Type:      nats.EventTypeStatus,
			Action:    ActionUpdate,
			Meta:      status,
			Data:      d.outcome,
		})
		if err != nil {
			return 0, err
		}
	}

	logger.Info("Seeded %d demo reports", len(demoReports))
	return len(demoReports), nil
}
