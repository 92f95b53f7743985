package leave

import (
	"testing"
	"time"
)

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestCalculateDaysInclusive(t *testing.T) {
	days, err := CalculateDays(date("2026-03-10"), date("2026-03-12"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("days = %v, want 3", days)
	}
}

func TestCalculateDaysRejectsReversedRange(t *testing.T) {
	if _, err := CalculateDays(date("2026-03-12"), date("2026-03-10")); err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestCalculateRequestDaysHalfDays(t *testing.T) {
	days, err := CalculateRequestDays(date("2026-03-10"), date("2026-03-12"), true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 2 {
		t.Fatalf("days = %v, want 2", days)
	}

	days, err = CalculateRequestDays(date("2026-03-10"), date("2026-03-10"), true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 0.5 {
		t.Fatalf("days = %v, want 0.5", days)
	}
}

func TestCalculateRequestDaysRejectsDoubleHalfSameDay(t *testing.T) {
	if _, err := CalculateRequestDays(date("2026-03-10"), date("2026-03-10"), true, true); err == nil {
		t.Fatal("expected error for both halves on a single day")
	}
}
