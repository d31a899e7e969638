package util

import (
	"testing"
	"time"
)

func TestDayRoundTrip(t *testing.T) {
	s := "2024-10-10"
	got, ok := ParseDay(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if Day(got) != s {
		t.Fatalf("unexpected day %v", got)
	}
}

func TestParseDayInvalid(t *testing.T) {
	if _, ok := ParseDay(""); ok {
		t.Fatalf("expected not ok for empty")
	}
	if _, ok := ParseDay("10/10/2024"); ok {
		t.Fatalf("expected not ok for wrong layout")
	}
}

func TestDaysAgo(t *testing.T) {
	d := DaysAgo(29)
	if !d.Before(time.Now()) {
		t.Fatalf("expected past day")
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Fatalf("expected truncated day, got %v", d)
	}
}
