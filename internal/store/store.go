// Package store holds the task/project stores. Store is backend-agnostic so
// the views and the UI never care whether records live in memory or in
// sqlite; both backends honor the same mutation contract.
package store

import "taskdeck/internal/task"

// Store is the single source of truth for tasks and projects. There is no
// change notification: callers re-query after mutating. Reads return copies,
// never store-owned state.
//
// Error taxonomy: task.ErrInvalid for rejected input, task.ErrNotFound for
// unknown ids, task.ErrStorage for backend I/O failures. Lookups by id
// report absence through the bool, not through an error. No call partially
// mutates state on failure.
type Store interface {
	// Tasks returns every task in insertion order.
	Tasks() ([]task.Task, error)
	TaskByID(id int) (task.Task, bool, error)
	// CreateTask assigns the next id (max existing + 1, never reused),
	// fills defaults and stamps CreatedAt.
	CreateTask(draft task.TaskDraft) (task.Task, error)
	UpdateTask(id int, patch task.TaskPatch) (task.Task, error)
	// CompleteTask marks the task completed. Completing an already
	// completed task re-stamps CompletedAt with the current time.
	CompleteTask(id int) (task.Task, error)
	DeleteTask(id int) error
	// ReorderTasks assigns Order = index for each listed id within the
	// given project scope (nil scope is the Inbox). Unknown ids are
	// skipped; unlisted tasks keep their order.
	ReorderTasks(projectID *int, orderedIDs []int) error

	// Projects returns every project ordered by Order ascending.
	Projects() ([]task.Project, error)
	ProjectByID(id int) (task.Project, bool, error)
	CreateProject(draft task.ProjectDraft) (task.Project, error)
	UpdateProject(id int, patch task.ProjectPatch) (task.Project, error)
	// DeleteProject removes the project only; its tasks keep their
	// dangling ProjectID.
	DeleteProject(id int) error
	ToggleProjectCollapse(id int) (task.Project, error)

	Close() error
}
