// Package testfixtures builds deterministic activity feeds for TUI tests.
package testfixtures

import (
	"encoding/json"
	"time"

	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/nats"
	"github.com/reportu/reportu/internal/report"
)

// FixedTime is "now" for every fixture, so relative ages are stable.
var FixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Now returns FixedTime; pass it wherever a clock is expected.
func Now() time.Time { return FixedTime }

// EmptyFeed returns a feed with no reports.
func EmptyFeed() *intake.Feed {
	return intake.NewFeed()
}

// Submitted builds a report/submitted event. The feed names the report
// after the sequence it is applied at, so id is only the event ID.
func Submitted(id string, category report.Category, country report.Country, location, description string, at time.Time) intake.Event {
	meta, _ := json.Marshal(map[string]string{
		"category": string(category),
		"country":  string(country),
		"location": location,
	})
	return intake.Event{
		ID:        id,
		Timestamp: at,
		Type:      nats.EventTypeReport,
		Action:    intake.ActionSubmitted,
		Meta:      meta,
		Data:      description,
	}
}

// StatusChanged builds a status/update event.
func StatusChanged(ref string, status intake.Status, outcome string, at time.Time) intake.Event {
	meta, _ := json.Marshal(map[string]string{
		"status":  string(status),
		"outcome": outcome,
	})
	return intake.Event{
		ID:        ref + "-" + string(status),
		Timestamp: at,
		Reference: ref,
		Type:      nats.EventTypeStatus,
		Action:    intake.ActionUpdate,
		Meta:      meta,
	}
}

// FeedWithReports returns three reports: one pending, one under
// investigation and one resolved with an outcome.
func FeedWithReports() *intake.Feed {
	f := intake.NewFeed()
	events := []intake.Event{
		Submitted("REP-000001", report.CategoryCounterfeitGoods, report.CountryMalaysia,
			"Petaling Street, Kuala Lumpur", "Stall selling fake designer bags", FixedTime.Add(-72*time.Hour)),
		Submitted("REP-000002", report.CategoryPublicDisturbance, report.CountrySingapore,
			"Clarke Quay, Singapore", "Loud music past midnight", FixedTime.Add(-24*time.Hour)),
		Submitted("REP-000003", report.CategoryTrafficViolation, report.CountryMalaysia,
			"Jalan Ampang, Kuala Lumpur", "Car ran a red light", FixedTime.Add(-2*time.Hour)),
		StatusChanged("REP-000001", intake.StatusResolved, "Goods seized, vendor fined", FixedTime.Add(-24*time.Hour)),
		StatusChanged("REP-000002", intake.StatusInvestigating, "", FixedTime.Add(-12*time.Hour)),
	}
	for i, e := range events {
		f.Apply(e, uint64(i+1))
	}
	return f
}
