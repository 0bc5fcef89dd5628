package services

import (
	"math"
	"time"
)

// Clock supplies the current instant and the time zone that defines a
// user's calendar day. Services take it explicitly so tests can pin time.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a wall clock for the given zone (Local when nil)
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

// FixedClock always reports the same instant. Used by tests and the seeder.
func FixedClock(now time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: func() time.Time { return now }, Location: loc}
}

// current returns now in the clock's zone
func (c Clock) current() time.Time {
	return c.Now().In(c.Location)
}

// StartOfDay returns local midnight of the day containing t
func (c Clock) StartOfDay(t time.Time) time.Time {
	local := t.In(c.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Location)
}

// EndOfDay returns the last millisecond of the day containing t
func (c Clock) EndOfDay(t time.Time) time.Time {
	return c.StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// AddDays moves t by n calendar days in the clock's zone
func (c Clock) AddDays(t time.Time, n int) time.Time {
	return t.In(c.Location).AddDate(0, 0, n)
}

// roundTo1 rounds hours to one decimal place
func roundTo1(x float64) float64 {
	return math.Round(x*10) / 10
}

// percentage returns round(100*part/whole), or 0 when whole is 0
func percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
