// Package task holds the task/project records and the pure date logic the
// views are built from: bucket classification and natural-language due-date
// inference. Nothing in here touches a store or an ambient clock; callers
// pass "now" in.
package task

import (
	"fmt"
	"strings"
	"time"
)

const (
	// PriorityHighest through PriorityDefault bound the valid priority
	// range. 1 is the most urgent; unspecified tasks get 4.
	PriorityHighest = 1
	PriorityDefault = 4
)

// DefaultProjectColor is the display token assigned when a project is
// created without one.
const DefaultProjectColor = "#737373"

// Task is a single todo item. ProjectID nil means the task lives in the
// implicit Inbox. Due nil means no due date. CompletedAt is non-nil exactly
// when Completed is true.
type Task struct {
	ID          int
	Title       string
	Completed   bool
	ProjectID   *int
	Priority    int
	Due         *Date
	CreatedAt   time.Time
	CompletedAt *time.Time
	Order       int
}

// Clone returns a copy that shares no pointers with the receiver, so store
// callers can never reach back into store-owned state.
func (t Task) Clone() Task {
	c := t
	if t.ProjectID != nil {
		id := *t.ProjectID
		c.ProjectID = &id
	}
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

// InProject reports whether the task belongs to the given project.
func (t Task) InProject(projectID int) bool {
	return t.ProjectID != nil && *t.ProjectID == projectID
}

// Project groups tasks. Deleting a project does not touch its tasks; their
// ProjectID simply dangles.
type Project struct {
	ID          int
	Name        string
	Color       string
	Order       int
	IsCollapsed bool
}

// TaskDraft carries the caller-supplied fields for a new task. Zero
// Priority means PriorityDefault.
type TaskDraft struct {
	Title     string
	ProjectID *int
	Priority  int
	Due       *Date
}

func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalid)
	}
	if d.Priority != 0 && !ValidPriority(d.Priority) {
		return fmt.Errorf("%w: priority %d out of range 1-4", ErrInvalid, d.Priority)
	}
	return nil
}

// ProjectDraft carries the caller-supplied fields for a new project. Empty
// Color means DefaultProjectColor.
type ProjectDraft struct {
	Name  string
	Color string
}

func (d ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	return nil
}

// Field is an optional patch value. The zero Field leaves the target field
// untouched; Set marks it for overwrite.
type Field[T any] struct {
	value T
	set   bool
}

func Set[T any](v T) Field[T] { return Field[T]{value: v, set: true} }

func (f Field[T]) Get() (T, bool) { return f.value, f.set }

// TaskPatch is a partial update. The record id is not part of a patch and
// can never change. Setting Completed keeps the completed/completedAt
// invariant: true stamps CompletedAt, false clears it.
type TaskPatch struct {
	Title     Field[string]
	Completed Field[bool]
	ProjectID Field[*int]
	Priority  Field[int]
	Due       Field[*Date]
	Order     Field[int]
}

func (p TaskPatch) Validate() error {
	if title, ok := p.Title.Get(); ok && strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalid)
	}
	if pri, ok := p.Priority.Get(); ok && !ValidPriority(pri) {
		return fmt.Errorf("%w: priority %d out of range 1-4", ErrInvalid, pri)
	}
	return nil
}

// Apply merges the patch into a task, stamping or clearing CompletedAt when
// the patch flips Completed. The caller supplies now.
func (p TaskPatch) Apply(t Task, now time.Time) Task {
	if title, ok := p.Title.Get(); ok {
		t.Title = title
	}
	if projectID, ok := p.ProjectID.Get(); ok {
		t.ProjectID = projectID
	}
	if pri, ok := p.Priority.Get(); ok {
		t.Priority = pri
	}
	if due, ok := p.Due.Get(); ok {
		t.Due = due
	}
	if order, ok := p.Order.Get(); ok {
		t.Order = order
	}
	if completed, ok := p.Completed.Get(); ok {
		switch {
		case completed && !t.Completed:
			at := now
			t.CompletedAt = &at
		case !completed:
			t.CompletedAt = nil
		}
		t.Completed = completed
	}
	return t
}

// ProjectPatch is a partial project update; the id can never change.
type ProjectPatch struct {
	Name        Field[string]
	Color       Field[string]
	Order       Field[int]
	IsCollapsed Field[bool]
}

func (p ProjectPatch) Validate() error {
	if name, ok := p.Name.Get(); ok && strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	return nil
}

func (p ProjectPatch) Apply(pr Project) Project {
	if name, ok := p.Name.Get(); ok {
		pr.Name = name
	}
	if color, ok := p.Color.Get(); ok {
		pr.Color = color
	}
	if order, ok := p.Order.Get(); ok {
		pr.Order = order
	}
	if collapsed, ok := p.IsCollapsed.Get(); ok {
		pr.IsCollapsed = collapsed
	}
	return pr
}

func ValidPriority(p int) bool {
	return p >= PriorityHighest && p <= PriorityDefault
}
