package stats

import (
	"time"
)

// DayLabelLayout formats day buckets as local calendar dates.
const DayLabelLayout = "2006-01-02"

// Day is one calendar-day bucket in the location of the reference time.
type Day struct {
	Start time.Time
	End   time.Time
}

// Label returns the bucket's calendar date.
func (d Day) Label() string {
	return d.Start.Format(DayLabelLayout)
}

// Contains reports whether t lies within the day, both ends inclusive.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

// TrailingDays returns the n calendar days ending with now's day, oldest first.
func TrailingDays(now time.Time, n int) []Day {
	if n <= 0 {
		return nil
	}
	days := make([]Day, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		days = append(days, Day{
			Start: StartOfDay(d),
			End:   EndOfDay(d),
		})
	}
	return days
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
