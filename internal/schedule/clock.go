// Package schedule holds the pure time arithmetic, busy-interval and slot
// generation logic. Nothing here touches storage or the wall clock.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	// SlotCadence is the spacing between consecutive candidate start times.
	SlotCadence = 30
	// LeadBuffer is how far ahead of now a same-day slot must start.
	LeadBuffer = 10
)

var ErrMalformedTime = errors.New("malformed time")

// Normalize truncates "HH:MM:SS" to "HH:MM". Shorter values are returned as is.
func Normalize(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// ParseMinutes converts "HH:MM" to minutes since midnight.
func ParseMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !digits(s[:2]) || !digits(s[3:]) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return h*60 + m, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatMinutes renders minutes since midnight as "HH:MM", wrapping past midnight.
func FormatMinutes(m int) string {
	m = ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes shifts a wall-clock time by n minutes modulo one day.
func AddMinutes(s string, n int) (string, error) {
	m, err := ParseMinutes(Normalize(s))
	if err != nil {
		return "", err
	}
	return FormatMinutes(m + n), nil
}

// Overlaps reports whether the half-open ranges [startA,endA) and
// [startB,endB) intersect. Touching ranges do not overlap.
func Overlaps(startA, endA, startB, endB string) (bool, error) {
	var mins [4]int
	for i, s := range []string{startA, endA, startB, endB} {
		m, err := ParseMinutes(Normalize(s))
		if err != nil {
			return false, err
		}
		mins[i] = m
	}
	return Interval{Start: mins[0], End: mins[1]}.Overlaps(Interval{Start: mins[2], End: mins[3]}), nil
}

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds the interval a booking at start occupies for duration minutes.
func NewInterval(start string, duration int) (Interval, error) {
	m, err := ParseMinutes(Normalize(start))
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: m, End: m + duration}, nil
}

func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && iv.End > o.Start
}

// IsPastBuffered reports whether a slot starting at candidate minutes on
// now's date begins earlier than now plus bufferMinutes.
func IsPastBuffered(candidate int, now time.Time, bufferMinutes int) bool {
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return candidate*60 < nowSec+bufferMinutes*60
}

// ParseDate parses a "YYYY-MM-DD" calendar date. The result carries no
// meaningful zone; only the calendar fields are used.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// SameDate reports whether date is the calendar day of now in now's location.
func SameDate(date time.Time, now time.Time) bool {
	y, m, d := now.Date()
	dy, dm, dd := date.Date()
	return y == dy && m == dm && d == dd
}
