package task

import (
	"strings"
	"time"
)

// weekdayNames is scanned in this fixed order, not in order of appearance
// in the input.
var weekdayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// ParseNatural scans free text for a due-date phrase and returns the date it
// implies relative to now. The scan is a case-insensitive substring check in
// precedence order: "today", "tomorrow", "next week", then weekday names. A
// weekday resolves to its next occurrence strictly after today; naming
// today's weekday means a full week out. Returns false when no phrase is
// present.
func ParseNatural(text string, now time.Time) (Date, bool) {
	lower := strings.ToLower(text)
	today := DateOf(now)

	switch {
	case strings.Contains(lower, "today"):
		return today, true
	case strings.Contains(lower, "tomorrow"):
		return today.AddDays(1), true
	case strings.Contains(lower, "next week"):
		return today.AddDays(7), true
	}

	for i, name := range weekdayNames {
		if !strings.Contains(lower, name) {
			continue
		}
		until := (i - int(today.Weekday()) + 7) % 7
		if until == 0 {
			until = 7
		}
		return today.AddDays(until), true
	}
	return Date{}, false
}
