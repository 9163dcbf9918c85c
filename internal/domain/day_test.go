package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDaysOfYearCoversLeapYear(t *testing.T) {
	days := DaysOfYear(2024)
	if len(days) != 366 {
		t.Fatalf("expected 366 days in 2024, got %d", len(days))
	}
	if days[0] != "2024-01-01" || days[len(days)-1] != "2024-12-31" {
		t.Fatalf("unexpected bounds %s..%s", days[0], days[len(days)-1])
	}
	if got := len(DaysOfYear(2025)); got != 365 {
		t.Fatalf("expected 365 days in 2025, got %d", got)
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	if _, err := ParseDay("10/03/2024"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	day, err := ParseDay("2024-03-10")
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	if day.Month() != time.March || day.Day() != 10 {
		t.Fatalf("unexpected day %v", day)
	}
}
