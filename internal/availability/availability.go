// Package availability implements the date arithmetic behind the
// booking calendar: the closed-interval overlap test used to decide
// whether the room is free for a candidate range, and the free-day
// enumeration over the booking horizon.
package availability

import "time"

// Horizon is the number of calendar days, starting tomorrow, that
// the free-day enumeration covers.
const Horizon = 30

// Day truncates t to its calendar day in UTC.  All comparisons in
// this package are date-only; time-of-day never participates.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the two date ranges share at least one
// calendar day.  Both ranges are closed intervals: end dates count.
// A range ending on the day another begins overlaps it.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !Day(bOut).Before(Day(aIn)) && !Day(bIn).After(Day(aOut))
}

// CoveredDays expands a booking's [checkIn, checkOut] range into the
// individual calendar days it occupies, inclusive on both ends.
func CoveredDays(checkIn, checkOut time.Time) []time.Time {
	var days []time.Time
	for d := Day(checkIn); !d.After(Day(checkOut)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FreeDays returns, in ascending order, every day in the horizon
// window (tomorrow through tomorrow+Horizon-1 relative to now) that
// is not present in reserved.  Reserved entries are compared by
// calendar day only.
func FreeDays(reserved []time.Time, now time.Time) []time.Time {
	taken := make(map[time.Time]struct{}, len(reserved))
	for _, d := range reserved {
		taken[Day(d)] = struct{}{}
	}
	today := Day(now)
	free := make([]time.Time, 0, Horizon)
	for i := 1; i <= Horizon; i++ {
		d := today.AddDate(0, 0, i)
		if _, ok := taken[d]; !ok {
			free = append(free, d)
		}
	}
	return free
}

// InclusiveDays counts the calendar days in [from, to], both ends
// included.  A one-night stay from day N to day N+1 counts as two.
func InclusiveDays(from, to time.Time) int {
	return int(Day(to).AddDate(0, 0, 1).Sub(Day(from)).Hours() / 24)
}
