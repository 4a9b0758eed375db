package store

import (
	"time"

	"taskdeck/internal/task"
)

// SeedDemo populates an empty store with a few representative projects and
// tasks so a first launch has something to show. Due dates are laid out
// relative to now to land in every view: overdue, today, the upcoming week
// and the inbox.
func SeedDemo(s Store, now time.Time) error {
	existing, err := s.Tasks()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	work, err := s.CreateProject(task.ProjectDraft{Name: "Work", Color: "#db4c3f"})
	if err != nil {
		return err
	}
	home, err := s.CreateProject(task.ProjectDraft{Name: "Home", Color: "#299438"})
	if err != nil {
		return err
	}

	today := task.DateOf(now)
	drafts := []task.TaskDraft{
		{Title: "Reply to the quarterly review thread", ProjectID: &work.ID, Priority: 1, Due: datePtr(today.AddDays(-1))},
		{Title: "Prepare slides for Monday standup", ProjectID: &work.ID, Priority: 2, Due: datePtr(today)},
		{Title: "Book dentist appointment", Priority: 3, Due: datePtr(today)},
		{Title: "Fix the leaking faucet", ProjectID: &home.ID, Due: datePtr(today.AddDays(2))},
		{Title: "Plan weekend trip", ProjectID: &home.ID, Due: datePtr(today.AddDays(5))},
		{Title: "Read the new release notes"},
		{Title: "Sort out tax paperwork", Priority: 2},
	}
	for _, d := range drafts {
		if _, err := s.CreateTask(d); err != nil {
			return err
		}
	}
	return nil
}

func datePtr(d task.Date) *task.Date { return &d }
