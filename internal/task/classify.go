package task

import "time"

// UpcomingWindowDays is the length of the Upcoming view's window. A due
// date of exactly now+7 days is the inclusive upper bound.
const UpcomingWindowDays = 7

// Bucket labels a task relative to a reference date.
type Bucket int

const (
	// NotApplicable marks completed tasks; active views do not bucket
	// them by due date.
	NotApplicable Bucket = iota
	Overdue
	DueToday
	// UpcomingDay covers due dates within (today, today+7]. The day
	// itself is the task's Due field.
	UpcomingDay
	NoDueDate
	// Later is beyond the upcoming window and outside every view.
	Later
)

func (b Bucket) String() string {
	switch b {
	case NotApplicable:
		return "not-applicable"
	case Overdue:
		return "overdue"
	case DueToday:
		return "due-today"
	case UpcomingDay:
		return "upcoming"
	case NoDueDate:
		return "no-due-date"
	case Later:
		return "later"
	default:
		return "unknown"
	}
}

// Classify maps a task's due date and completion state to a bucket relative
// to now. Comparisons are calendar-date comparisons in now's location, never
// instant comparisons, so the time of day cannot move a task across buckets.
func Classify(t Task, now time.Time) Bucket {
	if t.Completed {
		return NotApplicable
	}
	if t.Due == nil {
		return NoDueDate
	}
	today := DateOf(now)
	due := *t.Due
	switch {
	case due.Before(today):
		return Overdue
	case due == today:
		return DueToday
	case !due.After(today.AddDays(UpcomingWindowDays)):
		return UpcomingDay
	default:
		return Later
	}
}
