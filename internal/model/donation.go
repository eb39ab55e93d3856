// Package model defines the donation ledger vocabulary shared across blossom.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for gift dates.
const DateLayout = "2006-01-02"

// Frequency is how often a donor gives.
type Frequency string

// Frequencies, in declaration order.
const (
	OneTime   Frequency = "One-time"
	Monthly   Frequency = "Monthly"
	Quarterly Frequency = "Quarterly"
)

// Frequencies returns every frequency in declaration order.
func Frequencies() []Frequency {
	return []Frequency{OneTime, Monthly, Quarterly}
}

// Recurring reports whether the gift repeats.
func (f Frequency) Recurring() bool {
	return f != OneTime
}

// Slug returns the flag-friendly form, e.g. "one-time".
func (f Frequency) Slug() string {
	return slugify(string(f))
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	for _, known := range Frequencies() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFrequency accepts a label ("Quarterly") or slug ("quarterly").
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	for _, f := range Frequencies() {
		if strings.EqualFold(s, string(f)) || strings.EqualFold(s, f.Slug()) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// FocusArea is the program a gift is attributed to.
type FocusArea string

// Focus areas, in declaration order. The order is the tie-break order for
// the top focus area.
const (
	CommunityNourishment FocusArea = "Community Nourishment"
	HealingArts          FocusArea = "Healing Arts"
	SafeHarborHousing    FocusArea = "Safe Harbor Housing"
)

// FocusAreas returns every focus area in declaration order.
func FocusAreas() []FocusArea {
	return []FocusArea{CommunityNourishment, HealingArts, SafeHarborHousing}
}

// Slug returns the flag-friendly form, e.g. "healing-arts".
func (a FocusArea) Slug() string {
	return slugify(string(a))
}

// Valid reports whether a is a known focus area.
func (a FocusArea) Valid() bool {
	for _, known := range FocusAreas() {
		if a == known {
			return true
		}
	}
	return false
}

// ParseFocusArea accepts a label ("Healing Arts") or slug ("healing-arts").
func ParseFocusArea(s string) (FocusArea, error) {
	s = strings.TrimSpace(s)
	for _, a := range FocusAreas() {
		if strings.EqualFold(s, string(a)) || strings.EqualFold(s, a.Slug()) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown focus area %q", s)
}

// DonationRecord is one recorded gift. Records are never edited after
// creation.
type DonationRecord struct {
	ID        string
	Donor     string
	Amount    decimal.Decimal
	Frequency Frequency
	FocusArea FocusArea
	Date      time.Time // UTC midnight; zero when RawDate did not parse
	RawDate   string    // persisted date text kept only when it did not parse
	Note      string    // empty when absent
}

// DateText returns the calendar date as persisted.
func (r DonationRecord) DateText() string {
	if r.Date.IsZero() && r.RawDate != "" {
		return r.RawDate
	}
	return r.Date.UTC().Format(DateLayout)
}

// HasNote reports whether the record carries a note.
func (r DonationRecord) HasNote() bool {
	return r.Note != ""
}

// Equal compares two records field by field. Amounts compare numerically.
func (r DonationRecord) Equal(o DonationRecord) bool {
	return r.ID == o.ID &&
		r.Donor == o.Donor &&
		r.Amount.Equal(o.Amount) &&
		r.Frequency == o.Frequency &&
		r.FocusArea == o.FocusArea &&
		r.Date.Equal(o.Date) &&
		r.RawDate == o.RawDate &&
		r.Note == o.Note
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// Today returns the current UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slugify(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}
