package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format the case service uses for transaction dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. The service serializes
// dates as "YYYY-MM-DD", which the RFC 3339 handling in encoding/json does
// not accept, so Date implements its own JSON round-trip.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in local time.
func Today() Date {
	y, m, d := time.Now().Date()
	return NewDate(y, m, d)
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the underlying midnight-UTC time value.
func (d Date) Time() time.Time {
	return d.t
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted "YYYY-MM-DD" string; null and the empty
// string leave the date unset.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Timestamp is a server-assigned instant. The service emits naive ISO 8601
// datetimes without a zone designator, which the RFC 3339 handling in
// encoding/json rejects, so decoding tries both forms.
type Timestamp struct {
	t time.Time
}

// IsZero reports whether the timestamp is unset.
func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero()
}

// Time returns the underlying time value.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.t.Format("2006-01-02 15:04")
}

// MarshalJSON encodes the timestamp as RFC 3339, or null when unset.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.t.Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON accepts RFC 3339 and zoneless ISO 8601 datetimes.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*ts = Timestamp{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			*ts = Timestamp{t: t}
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
