package report

// Snapshot is a read-only copy of the machine state handed to observers.
type Snapshot struct {
	Step            Step
	Category        Category
	Description     string
	Country         Country
	LocationDetails string
	Attachments     []Attachment
	CanAdvance      bool
	Err             error    // last submission failure, cleared on the next attempt
	Receipt         *Receipt // set in Success
	Closed          bool
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	r := m.report()
	s := Snapshot{
		Step:            m.step,
		Category:        r.Category,
		Description:     r.Description,
		Country:         r.Country,
		LocationDetails: r.LocationDetails,
		Attachments:     r.Attachments,
		CanAdvance:      !m.closed && m.CanAdvance(),
		Err:             m.lastErr,
		Closed:          m.closed,
	}
	if m.receipt != nil {
		receipt := *m.receipt
		s.Receipt = &receipt
	}
	return s
}

// Report returns the draft as it would be submitted right now.
func (s Snapshot) Report() Report {
	return Report{
		Category:        s.Category,
		Description:     s.Description,
		Country:         s.Country,
		LocationDetails: s.LocationDetails,
		Attachments:     s.Attachments,
	}
}
