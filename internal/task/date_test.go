package task

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.String() != "2024-06-10" {
		t.Fatalf("expected 2024-06-10, got %s", d)
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("2024-06-10 is a Monday, got %s", d.Weekday())
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "next tuesday", "2024-6-1", "10/06/2024"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalid) {
			t.Errorf("ParseDate(%q): expected ErrInvalid, got %v", in, err)
		}
	}
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 6, 10, 23, 59, 59, 0, time.FixedZone("X", -11*3600))
	if got := DateOf(late); got.String() != "2024-06-10" {
		t.Fatalf("expected 2024-06-10, got %s", got)
	}
}

func TestAddDaysCrossesMonthBoundary(t *testing.T) {
	d := NewDate(2024, time.June, 28).AddDays(7)
	if d.String() != "2024-07-05" {
		t.Fatalf("expected 2024-07-05, got %s", d)
	}
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2024, time.June, 9)
	b := NewDate(2024, time.June, 10)
	if !a.Before(b) || b.Before(a) {
		t.Fatal("Before misordered")
	}
	if !b.After(a) || a.After(b) {
		t.Fatal("After misordered")
	}
	if a != NewDate(2024, time.June, 9) {
		t.Fatal("equal dates should compare equal")
	}
}
