package report

import (
	"context"
	"time"
)

// Attachment describes one staged file inside a frozen Report. Path points at
// the preview copy and stays readable until the submission resolves.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Path     string `json:"-"`
}

// Report is the assembled report handed to the intake.
type Report struct {
	Category        Category     `json:"type"`
	Description     string       `json:"description"`
	Country         Country      `json:"country"`
	LocationDetails string       `json:"location_details"`
	Attachments     []Attachment `json:"attachments,omitempty"`
}

// Location joins the details and country the way the feed displays them.
func (r Report) Location() string {
	if r.LocationDetails == "" {
		return string(r.Country)
	}
	if r.Country == "" {
		return r.LocationDetails
	}
	return r.LocationDetails + ", " + string(r.Country)
}

// Submission is one attempt to deliver a Report. Key is an idempotency key:
// retrying an unchanged draft reuses it so the intake can drop duplicates.
type Submission struct {
	Seq    uint64
	Key    string
	Report Report
}

// Receipt is what the intake returns on success.
type Receipt struct {
	Reference   string
	Country     Country
	SubmittedAt time.Time
	Duplicate   bool // the intake had already recorded this key
}

// Result pairs a submission with its outcome so the owner can resolve it.
type Result struct {
	Seq     uint64
	Receipt Receipt
	Err     error
}

// Submitter delivers a report to an intake service.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, sub Submission) (Receipt, error)

func (f SubmitterFunc) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	return f(ctx, sub)
}
