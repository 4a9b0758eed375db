package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"taskdeck/internal/task"
)

// Memory is the in-memory Store. Ids come from monotonic counters that
// never rewind, so a deleted id is never handed out again.
type Memory struct {
	mu            sync.Mutex
	tasks         []task.Task
	projects      []task.Project
	nextTaskID    int
	nextProjectID int
	now           func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		nextTaskID:    1,
		nextProjectID: 1,
		now:           time.Now,
	}
}

func (m *Memory) Tasks() ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (m *Memory) TaskByID(id int) (task.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.taskIndex(id); i >= 0 {
		return m.tasks[i].Clone(), true, nil
	}
	return task.Task{}, false, nil
}

func (m *Memory) CreateTask(draft task.TaskDraft) (task.Task, error) {
	if err := draft.Validate(); err != nil {
		return task.Task{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	priority := draft.Priority
	if priority == 0 {
		priority = task.PriorityDefault
	}
	t := task.Task{
		ID:        m.nextTaskID,
		Title:     draft.Title,
		ProjectID: draft.ProjectID,
		Priority:  priority,
		Due:       draft.Due,
		CreatedAt: m.now(),
		Order:     len(m.tasks),
	}
	t = t.Clone()
	m.nextTaskID++
	m.tasks = append(m.tasks, t)
	return t.Clone(), nil
}

func (m *Memory) UpdateTask(id int, patch task.TaskPatch) (task.Task, error) {
	if err := patch.Validate(); err != nil {
		return task.Task{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.taskIndex(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: task %d", task.ErrNotFound, id)
	}
	// Clone after the merge so patch-supplied pointers never alias
	// store-owned state.
	m.tasks[i] = patch.Apply(m.tasks[i], m.now()).Clone()
	return m.tasks[i].Clone(), nil
}

func (m *Memory) CompleteTask(id int) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.taskIndex(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: task %d", task.ErrNotFound, id)
	}
	at := m.now()
	m.tasks[i].Completed = true
	m.tasks[i].CompletedAt = &at
	return m.tasks[i].Clone(), nil
}

func (m *Memory) DeleteTask(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.taskIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: task %d", task.ErrNotFound, id)
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return nil
}

// ReorderTasks assigns Order = position for each listed id. Ids that don't
// resolve to a task are skipped. The project scope is where the ordering is
// meaningful, not a filter; listed ids are trusted to belong to it.
func (m *Memory) ReorderTasks(_ *int, orderedIDs []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for pos, id := range orderedIDs {
		if i := m.taskIndex(id); i >= 0 {
			m.tasks[i].Order = pos
		}
	}
	return nil
}

func (m *Memory) Projects() ([]task.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]task.Project, len(m.projects))
	copy(out, m.projects)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ProjectByID(id int) (task.Project, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.projectIndex(id); i >= 0 {
		return m.projects[i], true, nil
	}
	return task.Project{}, false, nil
}

func (m *Memory) CreateProject(draft task.ProjectDraft) (task.Project, error) {
	if err := draft.Validate(); err != nil {
		return task.Project{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	color := draft.Color
	if color == "" {
		color = task.DefaultProjectColor
	}
	p := task.Project{
		ID:    m.nextProjectID,
		Name:  draft.Name,
		Color: color,
		Order: len(m.projects),
	}
	m.nextProjectID++
	m.projects = append(m.projects, p)
	return p, nil
}

func (m *Memory) UpdateProject(id int, patch task.ProjectPatch) (task.Project, error) {
	if err := patch.Validate(); err != nil {
		return task.Project{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.projectIndex(id)
	if i < 0 {
		return task.Project{}, fmt.Errorf("%w: project %d", task.ErrNotFound, id)
	}
	m.projects[i] = patch.Apply(m.projects[i])
	return m.projects[i], nil
}

func (m *Memory) DeleteProject(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.projectIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: project %d", task.ErrNotFound, id)
	}
	m.projects = append(m.projects[:i], m.projects[i+1:]...)
	return nil
}

func (m *Memory) ToggleProjectCollapse(id int) (task.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.projectIndex(id)
	if i < 0 {
		return task.Project{}, fmt.Errorf("%w: project %d", task.ErrNotFound, id)
	}
	m.projects[i].IsCollapsed = !m.projects[i].IsCollapsed
	return m.projects[i], nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) taskIndex(id int) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) projectIndex(id int) int {
	for i := range m.projects {
		if m.projects[i].ID == id {
			return i
		}
	}
	return -1
}
