// Package format renders prices, dates and durations the way the mobile
// client displays them.
package format

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the storage layout for calendar days.
	DateLayout = "2006-01-02"
	// BookingWindowDays is how far ahead a booking may be made, counting
	// from today.
	BookingWindowDays = 15
)

// Price renders cents as Brazilian reais: 2550 -> "R$ 25,50".
func Price(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, cents/100, cents%100)
}

// Date renders a day as dd/MM/yyyy.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateTime renders an instant as dd/MM/yyyy HH:MM.
func DateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// Duration renders minutes compactly: "45 min", "1h", "1h 30min".
func Duration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, rest)
}

// TotalDuration sums service lengths for one booking.
func TotalDuration(minutes []int) int {
	total := 0
	for _, m := range minutes {
		total += m
	}
	return total
}

// EndTime computes the "HH:MM" end of an appointment starting at start and
// lasting the given minutes. The appointment must end within the same day;
// a midnight-crossing end would store an inverted text range that the
// write-time overlap check can never match.
func EndTime(start string, minutes int) (string, error) {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return "", fmt.Errorf("parse start time: %w", err)
	}
	if minutes <= 0 {
		return "", fmt.Errorf("duration must be positive, got %d", minutes)
	}
	end := t.Hour()*60 + t.Minute() + minutes
	if end >= 24*60 {
		return "", fmt.Errorf("appointment starting at %s (%d min) runs past midnight", start, minutes)
	}
	return fmt.Sprintf("%02d:%02d", end/60, end%60), nil
}

// DateInWindow reports whether a "YYYY-MM-DD" date falls inside the booking
// window: today through today+BookingWindowDays, inclusive.
func DateInWindow(date string, today time.Time) (bool, error) {
	day, err := time.ParseInLocation(DateLayout, date, today.Location())
	if err != nil {
		return false, fmt.Errorf("parse date: %w", err)
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 0, BookingWindowDays)
	return !day.Before(start) && !day.After(end), nil
}

// UpcomingDates lists the bookable days starting from today.
func UpcomingDates(today time.Time) []string {
	dates := make([]string, 0, BookingWindowDays+1)
	for i := 0; i <= BookingWindowDays; i++ {
		dates = append(dates, today.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}
