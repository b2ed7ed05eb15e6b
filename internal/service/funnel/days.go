package funnel

import (
	"fmt"
	"time"
)

const (
	// MaxRangeDays caps how many daily buckets a single report may produce.
	MaxRangeDays = 366
	// DateLayout is the key format of a daily bucket.
	DateLayout = "2006-01-02"

	day = 24 * time.Hour
)

// Offset is the tenant's fixed distance from UTC in whole hours. Daylight saving is not modelled.
type Offset int

// Duration converts the offset to a time.Duration.
func (o Offset) Duration() time.Duration {
	return time.Duration(o) * time.Hour
}

// Location returns a fixed zone for the offset.
func (o Offset) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", int(o)), int(o)*3600)
}

// Day returns the local calendar day containing t, as midnight UTC of that date.
func (o Offset) Day(t time.Time) time.Time {
	shifted := t.UTC().Add(o.Duration())
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats the local calendar day containing t.
func (o Offset) DayKey(t time.Time) string {
	return o.Day(t).Format(DateLayout)
}

// StartOfDay returns the instant the local day containing t begins.
func (o Offset) StartOfDay(t time.Time) time.Time {
	return o.Day(t).Add(-o.Duration())
}

// EndOfDay returns the last representable instant of the local day containing t.
func (o Offset) EndOfDay(t time.Time) time.Time {
	return o.StartOfDay(t).Add(day - time.Microsecond)
}

// Range is an inclusive span of local calendar days.
type Range struct {
	Start  time.Time
	End    time.Time
	offset Offset
}

// NewRange builds the inclusive range of local days between two instants.
// Reversed bounds are swapped and spans longer than MaxRangeDays keep the most recent days.
func (o Offset) NewRange(start, end time.Time) Range {
	s, e := o.Day(start), o.Day(end)
	if e.Before(s) {
		s, e = e, s
	}
	if int(e.Sub(s)/day)+1 > MaxRangeDays {
		s = e.AddDate(0, 0, -(MaxRangeDays - 1))
	}
	return Range{Start: s, End: e, offset: o}
}

// Days returns the number of calendar days in the range.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start)/day) + 1
}

// Bounds returns the first and last instants covered by the range.
func (r Range) Bounds() (time.Time, time.Time) {
	from := r.Start.Add(-r.offset.Duration())
	to := r.End.Add(-r.offset.Duration()).Add(day - time.Microsecond)
	return from, to
}

// Contains reports whether the instant falls on one of the range's local days.
func (r Range) Contains(t time.Time) bool {
	d := r.offset.Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Offset returns the offset the range was built with.
func (r Range) Offset() Offset {
	return r.offset
}
