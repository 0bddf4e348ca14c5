// Package dates owns conversion between the wire format used by the
// quality app (DD/MM/YYYY display strings) and time.Time. Every parse is
// "safe": bad or empty input never panics and reports ok=false instead,
// because legacy records carry hand-typed dates.
package dates

import (
	"strings"
	"time"
)

// DisplayLayout is the date format shown to inspectors and accepted on input.
const DisplayLayout = "02/01/2006"

// isoLayout is accepted as a fallback on input only.
const isoLayout = "2006-01-02"

// Parse converts a display-formatted date string to a time.Time.
// Accepts DD/MM/YYYY and, as a fallback, ISO YYYY-MM-DD.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DisplayLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(isoLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Format renders a time as DD/MM/YYYY. Zero times render as "".
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayLayout)
}

// FormatPtr renders an optional time as DD/MM/YYYY. Nil renders as "".
func FormatPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Format(*t)
}

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// IsFuture reports whether the display-formatted date is strictly after
// today. Unparseable input reports false.
func IsFuture(s string) bool {
	t, ok := Parse(s)
	if !ok {
		return false
	}
	return t.After(Today())
}

// InRange reports whether t falls inside [from, to]. Either bound may be
// the empty string, which leaves that side unbounded. Unparseable bounds
// are ignored rather than rejecting the record.
func InRange(t time.Time, from, to string) bool {
	if f, ok := Parse(from); ok && t.Before(f) {
		return false
	}
	if u, ok := Parse(to); ok && t.After(u.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
		return false
	}
	return true
}

// DaysBetween returns whole days elapsed from a to b, never negative.
func DaysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
