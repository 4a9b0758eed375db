package task

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day or zone component. Two dates
// compare equal iff they name the same calendar day, regardless of the zone
// the surrounding timestamps were taken in.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	// Normalize through time.Date so Feb 30 and friends roll over.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf truncates a timestamp to its calendar date in the timestamp's
// location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: due date %q is not YYYY-MM-DD", ErrInvalid, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.abs().Format("2006-01-02")
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.abs().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool { return d.abs().Before(o.abs()) }
func (d Date) After(o Date) bool  { return d.abs().After(o.abs()) }

func (d Date) Weekday() time.Weekday { return d.abs().Weekday() }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) abs() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
