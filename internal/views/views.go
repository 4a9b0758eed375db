// Package views derives the four read-only task projections (Inbox, Today,
// Upcoming, per-Project) from a store. Nothing here is cached: every call
// re-reads the store, so views can never hold stale bucket membership after
// a mutation.
package views

import (
	"sort"
	"time"

	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

// Engine answers view queries against a single store.
type Engine struct {
	st store.Store
}

func New(st store.Store) *Engine {
	return &Engine{st: st}
}

// Inbox returns tasks that belong to no project, newest first.
func (e *Engine) Inbox() ([]task.Task, error) {
	tasks, err := e.st.Tasks()
	if err != nil {
		return nil, err
	}
	var out []task.Task
	for _, t := range tasks {
		if t.ProjectID == nil {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Today returns tasks due today plus incomplete overdue tasks. Overdue
// tasks come first; within each group priority 1 leads and equal priorities
// fall back to creation (id) order. Completed tasks due today ride along so
// the caller can split them into their own group.
func (e *Engine) Today(now time.Time) ([]task.Task, error) {
	tasks, err := e.st.Tasks()
	if err != nil {
		return nil, err
	}
	today := task.DateOf(now)
	var out []task.Task
	for _, t := range tasks {
		switch task.Classify(t, now) {
		case task.Overdue, task.DueToday:
			out = append(out, t)
		default:
			if t.Completed && t.Due != nil && *t.Due == today {
				out = append(out, t)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi := out[i].Due != nil && out[i].Due.Before(today)
		oj := out[j].Due != nil && out[j].Due.Before(today)
		if oi != oj {
			return oi
		}
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DayGroup is one calendar day of the Upcoming view.
type DayGroup struct {
	Date  task.Date
	Tasks []task.Task
}

// Upcoming returns incomplete tasks due within the next seven days, one
// group per day that has tasks, days ascending and tasks in creation (id)
// order. Unlike Today, priority plays no part here.
func (e *Engine) Upcoming(now time.Time) ([]DayGroup, error) {
	tasks, err := e.st.Tasks()
	if err != nil {
		return nil, err
	}
	byDay := map[task.Date][]task.Task{}
	for _, t := range tasks {
		if task.Classify(t, now) != task.UpcomingDay {
			continue
		}
		byDay[*t.Due] = append(byDay[*t.Due], t)
	}
	groups := make([]DayGroup, 0, len(byDay))
	for day, ts := range byDay {
		sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
		groups = append(groups, DayGroup{Date: day, Tasks: ts})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date.Before(groups[j].Date) })
	return groups, nil
}

// ByProject returns a project's tasks in manual order.
func (e *Engine) ByProject(projectID int) ([]task.Task, error) {
	tasks, err := e.st.Tasks()
	if err != nil {
		return nil, err
	}
	var out []task.Task
	for _, t := range tasks {
		if t.InProject(projectID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SplitCompleted partitions a view's result into its incomplete and
// completed groups, preserving order. Every view's consumer does this.
func SplitCompleted(tasks []task.Task) (open, done []task.Task) {
	for _, t := range tasks {
		if t.Completed {
			done = append(done, t)
		} else {
			open = append(open, t)
		}
	}
	return open, done
}
