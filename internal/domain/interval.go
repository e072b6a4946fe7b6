package domain

import "time"

// Interval is a reservation's claim on the calendar: a date range plus a
// time-of-day window that applies uniformly to every day in the range.
// Dates are calendar dates (time components ignored); the time window is
// half-open [TimeStart, TimeEnd).
type Interval struct {
	DateStart time.Time
	DateEnd   time.Time
	TimeStart TimeOfDay
	TimeEnd   TimeOfDay
}

// Overlaps reports whether two intervals share at least one instant.
// The date ranges are inclusive on both ends, so same-day ranges intersect.
// The time windows are half-open, so one reservation ending at 12:00 and
// another starting at 12:00 on the same day do not conflict.
func (a Interval) Overlaps(b Interval) bool {
	aStart, aEnd := DateOnly(a.DateStart), DateOnly(a.DateEnd)
	bStart, bEnd := DateOnly(b.DateStart), DateOnly(b.DateEnd)

	// Date ranges intersect iff aStart <= bEnd and bStart <= aEnd.
	if aStart.After(bEnd) || bStart.After(aEnd) {
		return false
	}
	return a.TimeStart < b.TimeEnd && b.TimeStart < a.TimeEnd
}

// DateOnly truncates t to midnight UTC, keeping only the calendar date.
// All date-range comparisons in the scheduler go through this so that
// reservations created from different timezones compare consistently.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
