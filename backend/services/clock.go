package services

import "time"

// DayLayout is the ISO calendar day format.
const DayLayout = "2006-01-02"

// Clock supplies "now" in the zone that defines calendar days.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func NewClock(now func() time.Time, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return Clock{now: now, loc: loc}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	if c.loc == nil {
		return c.now()
	}
	return c.now().In(c.loc)
}

// Today is midnight of the current day.
func (c Clock) Today() time.Time {
	return startOfDay(c.Now())
}

// ParseDay reads a YYYY-MM-DD day in the clock's zone. Longer date-time
// strings are cut to their day part.
func (c Clock) ParseDay(s string) (time.Time, bool) {
	if len(s) < len(DayLayout) {
		return time.Time{}, false
	}
	loc := c.loc
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, s[:len(DayLayout)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
