package domain

import "time"

// Clock tells the current calendar day.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock for loc, or UTC when loc is nil.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

// Today returns the current date in the clock's location.
func (c SystemClock) Today() Date {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// FixedClock always reports the same day.
type FixedClock Date

// Today returns the fixed date.
func (c FixedClock) Today() Date { return Date(c) }
