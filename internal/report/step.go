package report

// Step identifies where the wizard is. The order of the constants is the
// order of the flow.
type Step int

const (
	StepType Step = iota
	StepDetails
	StepLocation
	StepMedia
	StepReview
	StepSubmitting
	StepSuccess
)

// EntrySteps are the five data-entry steps shown in the progress indicator.
var EntrySteps = []Step{StepType, StepDetails, StepLocation, StepMedia, StepReview}

var stepNames = [...]string{
	StepType:       "type",
	StepDetails:    "details",
	StepLocation:   "location",
	StepMedia:      "media",
	StepReview:     "review",
	StepSubmitting: "submitting",
	StepSuccess:    "success",
}

func (s Step) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return stepNames[s]
}

// Valid reports whether s is one of the defined steps.
func (s Step) Valid() bool {
	return s >= StepType && s <= StepSuccess
}

// Next returns the step after s. Success has no successor.
func (s Step) Next() (Step, bool) {
	if !s.Valid() || s == StepSuccess {
		return s, false
	}
	return s + 1, true
}

// Prev returns the step before s for back-navigation. Only Details through
// Review have a predecessor; Submitting and Success cannot be walked back.
func (s Step) Prev() (Step, bool) {
	if s <= StepType || s > StepReview {
		return s, false
	}
	return s - 1, true
}

// Position is the 1-based position of s in EntrySteps. Submitting and
// Success report one past the end so progress renders as complete.
func (s Step) Position() int {
	if s > StepReview {
		return len(EntrySteps) + 1
	}
	return int(s) + 1
}
