package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/reportu/reportu/internal/report"
	"github.com/reportu/reportu/internal/tui/theme"
)

type locationField int

const (
	fieldCountry locationField = iota
	fieldDetails
)

// LocationStep collects the country and a free-text address.
type LocationStep struct {
	machine   *report.Machine
	countries []report.Country
	field     locationField
	input     textinput.Model
	width     int
}

// NewLocationStep creates the location step.
func NewLocationStep(m *report.Machine) *LocationStep {
	ti := textinput.New()
	ti.Placeholder = "Street address, landmark, or specific location"
	ti.CharLimit = 200
	ti.SetWidth(56)

	return &LocationStep{
		machine:   m,
		countries: report.Countries(),
		input:     ti,
		width:     60,
	}
}

// SetSize updates the available width.
func (s *LocationStep) SetSize(width, height int) {
	s.width = width
	s.input.SetWidth(width - 6)
}

// Focus puts the cursor on the country row, or on the details input once a
// country is chosen.
func (s *LocationStep) Focus() tea.Cmd {
	if s.machine.Snapshot().Country == "" {
		s.field = fieldCountry
		s.input.Blur()
		return nil
	}
	s.field = fieldDetails
	return s.input.Focus()
}

// Blur releases keyboard focus.
func (s *LocationStep) Blur() {
	s.input.Blur()
}

// Sync loads the machine's details into the input.
func (s *LocationStep) Sync(snap report.Snapshot) {
	if s.input.Value() != snap.LocationDetails {
		s.input.SetValue(snap.LocationDetails)
	}
}

func (s *LocationStep) countryIndex(c report.Country) int {
	for i, known := range s.countries {
		if known == c {
			return i
		}
	}
	return -1
}

// Update handles field switching, the country toggle and text input.
// Enter in the details field asks the wizard to continue.
func (s *LocationStep) Update(msg tea.Msg) (tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "up":
			if s.field == fieldDetails {
				s.field = fieldCountry
				s.input.Blur()
			}
			return nil, false
		case "down":
			if s.field == fieldCountry {
				s.field = fieldDetails
				return s.input.Focus(), false
			}
			return nil, false
		case "enter":
			if s.field == fieldCountry {
				if s.machine.Snapshot().Country == "" {
					_ = s.machine.SetCountry(s.countries[0])
				}
				s.field = fieldDetails
				return s.input.Focus(), false
			}
			return nil, true
		}

		if s.field == fieldCountry {
			idx := s.countryIndex(s.machine.Snapshot().Country)
			switch keyMsg.String() {
			case "left", "h":
				if idx <= 0 {
					idx = len(s.countries)
				}
				_ = s.machine.SetCountry(s.countries[idx-1])
			case "right", "l", "space", " ":
				_ = s.machine.SetCountry(s.countries[(idx+1)%len(s.countries)])
			case "m":
				_ = s.machine.SetCountry(report.CountryMalaysia)
			case "s":
				_ = s.machine.SetCountry(report.CountrySingapore)
			}
			return nil, false
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if v := s.input.Value(); v != s.machine.Snapshot().LocationDetails {
		_ = s.machine.SetLocationDetails(v)
	}
	return cmd, false
}

// View renders the location step.
func (s *LocationStep) View(snap report.Snapshot) string {
	st := theme.Current().S()
	var b strings.Builder

	label := st.Text
	if s.field == fieldCountry {
		label = st.Selected
	}
	b.WriteString(label.Render("Country"))
	b.WriteString("\n")
	options := make([]string, 0, len(s.countries))
	for _, c := range s.countries {
		mark := "○ "
		style := st.Muted
		if c == snap.Country {
			mark = "● "
			style = st.Text
		}
		options = append(options, style.Render(mark+string(c)))
	}
	b.WriteString("  " + strings.Join(options, "   "))
	b.WriteString("\n\n")

	label = st.Text
	if s.field == fieldDetails {
		label = st.Selected
	}
	b.WriteString(label.Render("Location Details"))
	b.WriteString("\n")
	box := st.Input
	if s.field == fieldDetails && s.input.Focused() {
		box = st.InputFocused
	}
	b.WriteString(box.Render(s.input.View()))
	b.WriteString("\n\n")

	if s.field == fieldCountry {
		b.WriteString(renderHintBar(
			"←→", "change country",
			"↓/enter", "details",
			"tab", "buttons",
			"esc", "back",
		))
	} else {
		b.WriteString(renderHintBar(
			"↑", "country",
			"enter", "continue",
			"tab", "buttons",
			"esc", "back",
		))
	}
	return b.String()
}
