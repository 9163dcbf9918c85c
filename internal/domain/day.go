package domain

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD key into midnight UTC.
func ParseDay(raw string) (time.Time, error) {
	day, err := time.Parse(DayLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, raw)
	}
	return day, nil
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// DaysOfYear lists every calendar date of year as YYYY-MM-DD keys.
func DaysOfYear(year int) []string {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	days := make([]string, 0, 366)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDay(d))
	}
	return days
}
