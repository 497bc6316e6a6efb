package report

import "errors"

var (
	// ErrRequirementsNotMet is returned by Advance when the current step's
	// required fields are missing. State is unchanged.
	ErrRequirementsNotMet = errors.New("requirements not met")

	ErrInvalidCategory = errors.New("invalid report type")
	ErrInvalidCountry  = errors.New("invalid country")
	ErrIndexOutOfRange = errors.New("attachment index out of range")

	// ErrAttachmentRejected wraps each file refused by the attachment limits.
	ErrAttachmentRejected = errors.New("attachment rejected")

	// ErrLocked is returned for edits while a submission is in flight or
	// after it succeeded.
	ErrLocked = errors.New("report is not editable in this step")

	ErrTerminal          = errors.New("no forward transition from success")
	ErrSubmissionPending = errors.New("a submission is already in flight")
	ErrNotSubmitting     = errors.New("no submission in flight")
	ErrStaleSubmission   = errors.New("submission result does not match the pending submission")
	ErrNotTerminal       = errors.New("reset is only available after a successful submission")
	ErrNoSubmitter       = errors.New("no intake configured")
	ErrClosed            = errors.New("wizard is closed")
)
