package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DisplayDateLayout is how dates are shown to users and matched by filters.
const DisplayDateLayout = "02/01/2006"

var dateLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02", true},
	{"02_01_2006", true},
	{DisplayDateLayout, true},
}

// ParseDate accepts ISO-8601 dates and timestamps as well as the legacy
// dd_MM_yyyy path-segment form.
func ParseDate(value string) (time.Time, error) {
	t, _, err := ParseDateBound(value)
	return t, err
}

// ParseDateBound is ParseDate that also reports whether value carried only a
// calendar date, without a clock component.
func ParseDateBound(value string) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	for _, l := range dateLayouts {
		if parsed, perr := time.Parse(l.layout, value); perr == nil {
			return parsed, l.dateOnly, nil
		}
	}
	return time.Time{}, false, &ValidationError{Field: "date", Reason: "unrecognized date " + value + ", use YYYY-MM-DD"}
}

// Date wraps time.Time so JSON payloads can carry any layout ParseDate knows.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range from exact bounds.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: start, End: end}
}

// DayRange builds a range of whole calendar days: end covers that entire day.
func DayRange(start, end time.Time) DateRange {
	return DateRange{Start: start, End: EndOfDay(end)}
}

// EndOfDay returns the last instant of t's calendar day. The zero time stays
// zero.
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Add(24*time.Hour - time.Nanosecond)
}

// ParseDateRange parses both bounds and validates their order. An end bound
// given as a bare date covers that whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	from, err := ParseDate(start)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "start", Reason: err.Error()}
	}
	to, dateOnly, err := ParseDateBound(end)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "end", Reason: err.Error()}
	}
	if dateOnly {
		to = EndOfDay(to)
	}
	r := NewDateRange(from, to)
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// MonthRange returns the calendar month containing t.
func MonthRange(t time.Time) DateRange {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return DateRange{Start: first, End: last}
}

// Validate rejects empty or inverted ranges.
func (r DateRange) Validate() error {
	switch {
	case r.Start.IsZero():
		return &ValidationError{Field: "start", Reason: "must be provided"}
	case r.End.IsZero():
		return &ValidationError{Field: "end", Reason: "must be provided"}
	case r.End.Before(r.Start):
		return &ValidationError{Field: "end", Reason: "must not be before start"}
	}
	return nil
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
