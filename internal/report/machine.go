// Package report holds the incident report wizard: a step machine that owns
// the draft fields, gates forward navigation on each step's required input,
// and drives one submission at a time.
//
// A Machine is owned by one goroutine (the TUI update loop or a single MCP
// tool call). Only Deliver may run elsewhere, since it touches nothing but the
// Submitter.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/media"
)

// Stager turns a picked file into a preview handle.
type Stager interface {
	Stage(src media.Source) (*media.Handle, error)
}

// Options configures a Machine. Zero limits mean unbounded.
type Options struct {
	Submitter          Submitter
	MaxAttachments     int
	MaxAttachmentBytes int64
	SubmitTimeout      time.Duration
}

// Machine is the report wizard state.
type Machine struct {
	stager Stager
	opts   Options

	step            Step
	category        Category
	description     string
	country         Country
	locationDetails string
	attachments     []*media.Handle

	key     string // idempotency key for the current draft; empty after any edit
	seq     uint64
	pending *Submission
	lastErr error
	receipt *Receipt
	closed  bool

	observers    map[int]func(Snapshot)
	nextObserver int
}

// New returns a Machine at the Type step with an empty draft.
func New(stager Stager, opts Options) *Machine {
	return &Machine{
		stager:    stager,
		opts:      opts,
		step:      StepType,
		observers: make(map[int]func(Snapshot)),
	}
}

// Step returns the current step.
func (m *Machine) Step() Step { return m.step }

// Subscribe registers fn to be called with a fresh Snapshot after every
// state change. The returned func unsubscribes.
func (m *Machine) Subscribe(fn func(Snapshot)) func() {
	id := m.nextObserver
	m.nextObserver++
	m.observers[id] = fn
	return func() { delete(m.observers, id) }
}

func (m *Machine) notify() {
	if len(m.observers) == 0 {
		return
	}
	snap := m.Snapshot()
	ids := make([]int, 0, len(m.observers))
	for id := range m.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := m.observers[id]; ok {
			fn(snap)
		}
	}
}

// editable guards field mutations. Any accepted edit invalidates the
// idempotency key so a changed draft is never deduplicated against an
// earlier attempt.
func (m *Machine) editable() error {
	if m.closed {
		return ErrClosed
	}
	if m.step == StepSubmitting || m.step == StepSuccess {
		return fmt.Errorf("%w: %s", ErrLocked, m.step)
	}
	return nil
}

// UseKey sets the idempotency key for the current draft instead of minting
// one on submit, so a caller retrying the same report can reuse its key.
// Any later edit clears it.
func (m *Machine) UseKey(key string) error {
	if err := m.editable(); err != nil {
		return err
	}
	m.key = key
	return nil
}

func (m *Machine) edited() {
	m.key = ""
	m.notify()
}

// SelectReportType records the chosen category. Choosing again replaces it.
func (m *Machine) SelectReportType(c Category) error {
	if err := m.editable(); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	m.category = c
	m.edited()
	return nil
}

// SetDescription stores text verbatim. Whitespace-only text counts as
// non-empty for gating.
func (m *Machine) SetDescription(text string) error {
	if err := m.editable(); err != nil {
		return err
	}
	m.description = text
	m.edited()
	return nil
}

func (m *Machine) SetCountry(c Country) error {
	if err := m.editable(); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCountry, c)
	}
	m.country = c
	m.edited()
	return nil
}

func (m *Machine) SetLocationDetails(text string) error {
	if err := m.editable(); err != nil {
		return err
	}
	m.locationDetails = text
	m.edited()
	return nil
}

// AddAttachments stages each source and appends it in order. Files refused by
// the limits or that fail to stage are reported together in the returned
// error; the accepted ones are kept.
func (m *Machine) AddAttachments(srcs ...media.Source) error {
	if err := m.editable(); err != nil {
		return err
	}
	if len(srcs) == 0 {
		return nil
	}

	var errs []error
	added := 0
	for _, src := range srcs {
		name := src.Name
		if name == "" {
			name = src.Path
		}
		if m.opts.MaxAttachments > 0 && len(m.attachments) >= m.opts.MaxAttachments {
			errs = append(errs, fmt.Errorf("%w: %s: at most %d files", ErrAttachmentRejected, name, m.opts.MaxAttachments))
			continue
		}
		h, err := m.stager.Stage(src)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrAttachmentRejected, name, err))
			continue
		}
		if m.opts.MaxAttachmentBytes > 0 && h.Size() > m.opts.MaxAttachmentBytes {
			if err := h.Release(); err != nil {
				logger.Warn("Failed to release oversized preview %s: %v", h.Name(), err)
			}
			errs = append(errs, fmt.Errorf("%w: %s: %d bytes exceeds %d", ErrAttachmentRejected, h.Name(), h.Size(), m.opts.MaxAttachmentBytes))
			continue
		}
		m.attachments = append(m.attachments, h)
		added++
	}

	if added > 0 {
		m.edited()
	}
	return errors.Join(errs...)
}

// RemoveAttachment releases the preview at index and drops it. Later
// attachments shift down by one.
func (m *Machine) RemoveAttachment(index int) error {
	if err := m.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(m.attachments) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(m.attachments))
	}
	h := m.attachments[index]
	m.attachments = append(m.attachments[:index], m.attachments[index+1:]...)
	err := h.Release()
	m.edited()
	if err != nil {
		return fmt.Errorf("releasing %s: %w", h.Name(), err)
	}
	return nil
}

// CanAdvance reports whether the current step's requirements are met.
// Media and Review have none. Submitting and Success never advance.
func (m *Machine) CanAdvance() bool {
	switch m.step {
	case StepType:
		return m.category != ""
	case StepDetails:
		return m.description != ""
	case StepLocation:
		return m.country != "" && m.locationDetails != ""
	case StepMedia, StepReview:
		return true
	default:
		return false
	}
}

// Advance moves to the next step. Advancing from Review freezes the draft
// into a pending Submission and enters Submitting; the owner then delivers it
// and calls Resolve, or calls Submit to do both.
func (m *Machine) Advance() error {
	if m.closed {
		return ErrClosed
	}
	switch m.step {
	case StepSuccess:
		return ErrTerminal
	case StepSubmitting:
		return ErrSubmissionPending
	}
	if !m.CanAdvance() {
		return fmt.Errorf("%w: %s", ErrRequirementsNotMet, m.step)
	}

	if m.step == StepReview {
		m.beginSubmit()
	} else {
		m.step, _ = m.step.Next()
	}
	m.notify()
	return nil
}

func (m *Machine) beginSubmit() {
	if m.key == "" {
		m.key = uuid.NewString()
	}
	m.seq++
	m.pending = &Submission{
		Seq:    m.seq,
		Key:    m.key,
		Report: m.report(),
	}
	m.lastErr = nil
	m.step = StepSubmitting
	logger.Debug("Submitting report seq=%d key=%s", m.seq, m.key)
}

// Retreat moves back one step. It is a no-op on Type, Submitting and Success
// and reports whether the step changed.
func (m *Machine) Retreat() bool {
	if m.closed {
		return false
	}
	prev, ok := m.step.Prev()
	if !ok {
		return false
	}
	m.step = prev
	m.notify()
	return true
}

// Pending returns the in-flight submission, if any.
func (m *Machine) Pending() (Submission, bool) {
	if m.pending == nil {
		return Submission{}, false
	}
	return *m.pending, true
}

// Deliver sends sub through the configured Submitter, bounded by the submit
// timeout. It reads no draft state and may run on any goroutine.
func (m *Machine) Deliver(ctx context.Context, sub Submission) Result {
	if m.opts.Submitter == nil {
		return Result{Seq: sub.Seq, Err: ErrNoSubmitter}
	}
	if m.opts.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.SubmitTimeout)
		defer cancel()
	}
	receipt, err := m.opts.Submitter.Submit(ctx, sub)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return Result{Seq: sub.Seq, Receipt: receipt, Err: err}
}

// Resolve applies the outcome of a delivered submission. Failure returns to
// Review with the error recorded and the draft intact. Success records the
// receipt, clears the draft and releases every preview. Results for anything
// other than the pending submission are ignored with ErrStaleSubmission.
func (m *Machine) Resolve(res Result) error {
	if m.closed {
		return ErrClosed
	}
	if m.step != StepSubmitting || m.pending == nil || m.pending.Seq != res.Seq {
		logger.Debug("Ignoring stale submission result seq=%d", res.Seq)
		return ErrStaleSubmission
	}
	m.pending = nil

	if res.Err != nil {
		logger.Warn("Report submission failed: %v", res.Err)
		m.lastErr = res.Err
		m.step = StepReview
		m.notify()
		return nil
	}

	receipt := res.Receipt
	m.receipt = &receipt
	m.lastErr = nil
	m.clearDraft()
	m.step = StepSuccess
	logger.Info("Report submitted: %s", receipt.Reference)
	m.notify()
	return nil
}

// Abort abandons the in-flight submission and returns to Review. A result
// arriving afterwards is stale.
func (m *Machine) Abort() error {
	if m.closed {
		return ErrClosed
	}
	if m.step != StepSubmitting {
		return ErrNotSubmitting
	}
	m.pending = nil
	m.lastErr = context.Canceled
	m.step = StepReview
	m.notify()
	return nil
}

// Submit runs the whole submit round trip synchronously: it advances from
// Review if needed, delivers, and resolves. The returned error is the
// delivery error, if any.
func (m *Machine) Submit(ctx context.Context) (Receipt, error) {
	if m.step == StepReview {
		if err := m.Advance(); err != nil {
			return Receipt{}, err
		}
	}
	sub, ok := m.Pending()
	if !ok {
		return Receipt{}, ErrNotSubmitting
	}
	res := m.Deliver(ctx, sub)
	if err := m.Resolve(res); err != nil {
		return Receipt{}, err
	}
	if res.Err != nil {
		return Receipt{}, res.Err
	}
	return res.Receipt, nil
}

// Reset starts a new report after a successful submission.
func (m *Machine) Reset() error {
	if m.closed {
		return ErrClosed
	}
	if m.step != StepSuccess {
		return ErrNotTerminal
	}
	m.clearDraft()
	m.receipt = nil
	m.lastErr = nil
	m.step = StepType
	m.notify()
	return nil
}

// Close releases every preview the draft still holds. Further edits and
// transitions fail with ErrClosed. Close is idempotent.
func (m *Machine) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.pending = nil
	err := m.releaseAll()
	m.observers = make(map[int]func(Snapshot))
	return err
}

func (m *Machine) clearDraft() {
	if err := m.releaseAll(); err != nil {
		logger.Warn("Failed to release previews: %v", err)
	}
	m.category = ""
	m.description = ""
	m.country = ""
	m.locationDetails = ""
	m.key = ""
}

func (m *Machine) releaseAll() error {
	var errs []error
	for _, h := range m.attachments {
		if err := h.Release(); err != nil && !errors.Is(err, media.ErrAlreadyReleased) {
			errs = append(errs, err)
		}
	}
	m.attachments = nil
	return errors.Join(errs...)
}

func (m *Machine) report() Report {
	r := Report{
		Category:        m.category,
		Description:     m.description,
		Country:         m.country,
		LocationDetails: m.locationDetails,
	}
	for _, h := range m.attachments {
		r.Attachments = append(r.Attachments, Attachment{
			Name:     h.Name(),
			MIMEType: h.MIMEType(),
			Size:     h.Size(),
			Path:     h.Path(),
		})
	}
	return r
}
