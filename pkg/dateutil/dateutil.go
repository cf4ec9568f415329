package dateutil

import (
	"fmt"
	"time"
)

// SecondsPerDay is the length of a civil day in seconds.
const SecondsPerDay = 86400

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// DayIndex returns the number of days between 1970-01-01 and the civil date of
// t in t's location. Days before the epoch are negative.
func DayIndex(t time.Time) int {
	civil := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	secs := civil.Unix()
	days := secs / SecondsPerDay
	if secs%SecondsPerDay < 0 {
		days--
	}
	return int(days)
}

// FromDayIndex returns midnight UTC of the civil date with the given index.
func FromDayIndex(index int) time.Time {
	return time.Unix(int64(index)*SecondsPerDay, 0).UTC()
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// ParseYMD splits "Y-M-D" (or "Y/M/D") into numbers without checking it
// against any calendar system. Years may be negative.
func ParseYMD(s string) (year, month, day int, err error) {
	body := s
	if len(body) > 0 && body[0] == '-' {
		body = body[1:]
	}
	if _, err := fmt.Sscanf(body, "%d/%d/%d", &year, &month, &day); err != nil {
		if _, err := fmt.Sscanf(body, "%d-%d-%d", &year, &month, &day); err != nil {
			return 0, 0, 0, fmt.Errorf("expected Y-M-D, got %q", s)
		}
	}
	if body != s {
		year = -year
	}
	return year, month, day, nil
}

// Today returns today's date (start of day) in loc
func Today(loc *time.Location) time.Time {
	return StartOfDay(time.Now().In(loc))
}
