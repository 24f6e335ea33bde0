// Package schedule computes bookable time slots for a single day from the
// shop's operating hours and the intervals already taken by bookings and
// manual blocks. It performs no I/O and never reads the clock; callers pass
// "now" in.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is minutes since midnight, in [0, 1440).
type TimeOfDay int

const minutesPerDay = 1440

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS"; a trailing seconds component
// is dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) == 8 {
		s = s[:5]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted by the given number of minutes. The result may
// exceed the day; interval endpoints use it as an exclusive bound.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// Valid reports whether t is a real time of day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries do not count.
func overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}
