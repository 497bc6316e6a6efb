package intake

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/nats"
	"github.com/reportu/reportu/internal/report"
)

// Status is the handling state of a filed report.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusInvestigating Status = "Under Investigation"
	StatusResolved      Status = "Resolved"
	StatusDismissed     Status = "Dismissed"
)

// Statuses lists the valid statuses in workflow order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInvestigating, StatusResolved, StatusDismissed}
}

// ParseStatus accepts a status label in any case, or its short form
// ("investigating").
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "investigating") {
		return StatusInvestigating, nil
	}
	for _, st := range Statuses() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Entry is one report as seen in the activity feed.
type Entry struct {
	Reference   string
	Category    report.Category
	Description string
	Country     report.Country
	Location    string
	Status      Status
	Outcome     string
	Evidence    []EvidenceRef
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Age renders how long ago the report was filed, e.g. "2 hours ago".
func (e Entry) Age(now time.Time) string {
	return humanize.RelTime(e.SubmittedAt, now, "ago", "from now")
}

// ResolvedAge renders how long ago the report last changed status.
func (e Entry) ResolvedAge(now time.Time) string {
	return humanize.RelTime(e.UpdatedAt, now, "ago", "from now")
}

// Success reports whether the entry counts as a successfully resolved case.
func (e Entry) Success() bool {
	return e.Status == StatusResolved && e.Outcome != ""
}

// Feed is the reduced view of the report log.
type Feed struct {
	entries []*Entry
	byRef   map[string]*Entry
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{byRef: make(map[string]*Entry)}
}

// Len returns the number of reports.
func (f *Feed) Len() int { return len(f.entries) }

// Apply reduces one event into the feed. seq is the event's stream sequence,
// which is the only source of report references.
func (f *Feed) Apply(event Event, seq uint64) {
	switch event.Type {
	case nats.EventTypeReport:
		f.applyReport(event, seq)
	case nats.EventTypeStatus:
		f.applyStatus(event)
	}
}

func (f *Feed) applyReport(event Event, seq uint64) {
	if event.Action != ActionSubmitted {
		return
	}
	var meta submittedMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		logger.Warn("Skipping report event with bad metadata (seq=%d): %v", seq, err)
		return
	}

	ref := ReferenceFor(seq)
	if _, exists := f.byRef[ref]; exists {
		logger.Warn("Skipping report event reusing %s (seq=%d)", ref, seq)
		return
	}

	e := &Entry{
		Reference:   ref,
		Category:    report.Category(meta.Category),
		Description: event.Data,
		Country:     report.Country(meta.Country),
		Location:    meta.Location,
		Status:      StatusPending,
		Evidence:    meta.Evidence,
		SubmittedAt: event.Timestamp,
		UpdatedAt:   event.Timestamp,
	}
	f.entries = append(f.entries, e)
	f.byRef[ref] = e
}

type statusMeta struct {
	Status  Status `json:"status"`
	Outcome string `json:"outcome,omitempty"`
}

func (f *Feed) applyStatus(event Event) {
	if event.Action != ActionUpdate {
		return
	}
	e, ok := f.byRef[event.Reference]
	if !ok {
		return
	}
	var meta statusMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		return
	}
	e.Status = meta.Status
	e.Outcome = meta.Outcome
	e.UpdatedAt = event.Timestamp
}

// Lookup finds a report by reference, ignoring case.
func (f *Feed) Lookup(reference string) (Entry, bool) {
	e, ok := f.byRef[strings.ToUpper(strings.TrimSpace(reference))]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Recent returns up to n reports, newest first. n <= 0 returns all.
func (f *Feed) Recent(n int) []Entry {
	out := f.sorted(func(*Entry) bool { return true }, func(e *Entry) time.Time { return e.SubmittedAt })
	return limit(out, n)
}

// Successes returns up to n resolved reports that carry an outcome, most
// recently resolved first.
func (f *Feed) Successes(n int) []Entry {
	out := f.sorted(func(e *Entry) bool { return e.Success() }, func(e *Entry) time.Time { return e.UpdatedAt })
	return limit(out, n)
}

func (f *Feed) sorted(keep func(*Entry) bool, at func(*Entry) time.Time) []Entry {
	out := make([]Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return at(&out[i]).After(at(&out[j]))
	})
	return out
}

func limit(entries []Entry, n int) []Entry {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}
