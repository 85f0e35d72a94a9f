package clock

import "time"

// Clock supplies the current time. Services take one so "today" can be
// pinned in tests.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock in Location (local time when nil).
type Real struct {
	Location *time.Location
}

func (c Real) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
