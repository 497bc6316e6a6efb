package report

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Category is an incident category. The empty value means "not chosen yet".
type Category string

const (
	CategoryTrafficViolation   Category = "Traffic Violation"
	CategoryPublicDisturbance  Category = "Public Disturbance"
	CategoryCounterfeitGoods   Category = "Counterfeit Goods"
	CategoryEnvironmentalIssue Category = "Environmental Issue"
	CategoryConsumerComplaint  Category = "Consumer Complaint"
	// CategoryOther is a plain category value; it does not ask for extra text.
	CategoryOther Category = "Other"
)

var categories = []Category{
	CategoryTrafficViolation,
	CategoryPublicDisturbance,
	CategoryCounterfeitGoods,
	CategoryEnvironmentalIssue,
	CategoryConsumerComplaint,
	CategoryOther,
}

// Categories returns the selectable categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the closed set.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the category labels, ignoring case and
// surrounding space.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	if guess := closestCategory(s); guess != "" {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", ErrInvalidCategory, s, guess)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// closestCategory returns the label within typo distance of s, if any.
func closestCategory(s string) Category {
	if s == "" {
		return ""
	}
	upper := strings.ToUpper(s)
	var best Category
	bestScore := 0.4
	for _, c := range categories {
		label := strings.ToUpper(string(c))
		n := max(len(label), len(upper))
		score := float64(levenshtein.ComputeDistance(upper, label)) / float64(n)
		if score < bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// Country is where the incident happened. The empty value means unset.
type Country string

const (
	CountryMalaysia  Country = "Malaysia"
	CountrySingapore Country = "Singapore"
)

// Countries returns the two supported countries.
func Countries() []Country {
	return []Country{CountryMalaysia, CountrySingapore}
}

func (c Country) Valid() bool {
	return c == CountryMalaysia || c == CountrySingapore
}

// ParseCountry accepts either country name in any case.
func ParseCountry(s string) (Country, error) {
	s = strings.TrimSpace(s)
	for _, c := range Countries() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCountry, s)
}
