package store

import (
	"errors"
	"testing"
	"time"

	"taskdeck/internal/task"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCreateTaskAssignsDefaults(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	m.now = fixedClock(now)

	created, err := m.CreateTask(task.TaskDraft{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected id 1, got %d", created.ID)
	}
	if created.Priority != task.PriorityDefault {
		t.Errorf("expected default priority 4, got %d", created.Priority)
	}
	if created.Completed || created.CompletedAt != nil {
		t.Error("new task must be incomplete with nil CompletedAt")
	}
	if created.ProjectID != nil || created.Due != nil {
		t.Error("unset project/due must stay nil")
	}
	if !created.CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt %v, got %v", now, created.CreatedAt)
	}
	if created.Order != 0 {
		t.Errorf("first task gets order 0, got %d", created.Order)
	}

	got, ok, err := m.TaskByID(created.ID)
	if err != nil || !ok {
		t.Fatalf("TaskByID after create: ok=%v err=%v", ok, err)
	}
	if got.ID != created.ID || got.Title != created.Title || got.Order != created.Order {
		t.Errorf("TaskByID mismatch: %#v vs %#v", got, created)
	}
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	m := NewMemory()
	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := m.CreateTask(task.TaskDraft{Title: title}); !errors.Is(err, task.ErrInvalid) {
			t.Errorf("title %q: expected ErrInvalid, got %v", title, err)
		}
	}
	if tasks, _ := m.Tasks(); len(tasks) != 0 {
		t.Fatal("failed create must not mutate the store")
	}
}

func TestCreateTaskRejectsBadPriority(t *testing.T) {
	m := NewMemory()
	for _, p := range []int{-1, 5, 99} {
		if _, err := m.CreateTask(task.TaskDraft{Title: "x", Priority: p}); !errors.Is(err, task.ErrInvalid) {
			t.Errorf("priority %d: expected ErrInvalid, got %v", p, err)
		}
	}
}

func TestIDsNeverReused(t *testing.T) {
	m := NewMemory()
	a, _ := m.CreateTask(task.TaskDraft{Title: "a"})
	b, _ := m.CreateTask(task.TaskDraft{Title: "b"})
	if b.ID <= a.ID {
		t.Fatalf("ids must strictly increase: %d then %d", a.ID, b.ID)
	}
	if err := m.DeleteTask(b.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	c, _ := m.CreateTask(task.TaskDraft{Title: "c"})
	if c.ID <= b.ID {
		t.Fatalf("id %d reused after deleting %d", c.ID, b.ID)
	}
}

func TestUpdateTaskMergesOnlySetFields(t *testing.T) {
	m := NewMemory()
	pid := 7
	due := task.NewDate(2024, time.June, 15)
	created, _ := m.CreateTask(task.TaskDraft{Title: "original", ProjectID: &pid, Priority: 2, Due: &due})

	updated, err := m.UpdateTask(created.ID, task.TaskPatch{Title: task.Set("renamed")})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("expected renamed title, got %q", updated.Title)
	}
	if updated.Priority != 2 || updated.ProjectID == nil || *updated.ProjectID != 7 || updated.Due == nil || *updated.Due != due {
		t.Errorf("unset fields must be untouched: %#v", updated)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed from %d to %d", created.ID, updated.ID)
	}
}

func TestUpdateTaskClearsOptionalFields(t *testing.T) {
	m := NewMemory()
	pid := 3
	due := task.NewDate(2024, time.June, 15)
	created, _ := m.CreateTask(task.TaskDraft{Title: "t", ProjectID: &pid, Due: &due})

	updated, err := m.UpdateTask(created.ID, task.TaskPatch{
		ProjectID: task.Set[*int](nil),
		Due:       task.Set[*task.Date](nil),
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.ProjectID != nil || updated.Due != nil {
		t.Errorf("expected cleared project/due, got %#v", updated)
	}
}

func TestUpdateTaskCompletedKeepsTimestampInvariant(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	m.now = fixedClock(now)
	created, _ := m.CreateTask(task.TaskDraft{Title: "t"})

	done, err := m.UpdateTask(created.ID, task.TaskPatch{Completed: task.Set(true)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(now) {
		t.Fatalf("completed=true must stamp CompletedAt: %#v", done)
	}

	reopened, err := m.UpdateTask(created.ID, task.TaskPatch{Completed: task.Set(false)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if reopened.Completed || reopened.CompletedAt != nil {
		t.Fatalf("completed=false must clear CompletedAt: %#v", reopened)
	}
}

func TestUpdateTaskUnknownID(t *testing.T) {
	m := NewMemory()
	if _, err := m.UpdateTask(42, task.TaskPatch{Title: task.Set("x")}); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTaskValidatesBeforeMutating(t *testing.T) {
	m := NewMemory()
	created, _ := m.CreateTask(task.TaskDraft{Title: "keep me"})
	if _, err := m.UpdateTask(created.ID, task.TaskPatch{Title: task.Set("  ")}); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	got, _, _ := m.TaskByID(created.ID)
	if got.Title != "keep me" {
		t.Fatalf("failed update must not mutate: %q", got.Title)
	}
}

func TestCompleteTaskStampsAndRestamps(t *testing.T) {
	m := NewMemory()
	first := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	m.now = fixedClock(first)
	created, _ := m.CreateTask(task.TaskDraft{Title: "t"})

	done, err := m.CompleteTask(created.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(first) {
		t.Fatalf("expected completion at %v: %#v", first, done)
	}

	// Completing again re-stamps to the latest now.
	second := first.Add(2 * time.Hour)
	m.now = fixedClock(second)
	again, err := m.CompleteTask(created.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !again.Completed || !again.CompletedAt.Equal(second) {
		t.Fatalf("expected re-stamp at %v: %#v", second, again)
	}
}

func TestCompleteTaskUnknownID(t *testing.T) {
	m := NewMemory()
	if _, err := m.CompleteTask(9); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	m := NewMemory()
	created, _ := m.CreateTask(task.TaskDraft{Title: "t"})
	if err := m.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, ok, _ := m.TaskByID(created.ID); ok {
		t.Fatal("deleted task still present")
	}
	if err := m.DeleteTask(created.ID); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderTasks(t *testing.T) {
	m := NewMemory()
	a, _ := m.CreateTask(task.TaskDraft{Title: "a"})
	b, _ := m.CreateTask(task.TaskDraft{Title: "b"})
	c, _ := m.CreateTask(task.TaskDraft{Title: "c"})

	// Unknown id 99 is skipped, c is unlisted and keeps its order.
	if err := m.ReorderTasks(nil, []int{b.ID, 99, a.ID}); err != nil {
		t.Fatalf("ReorderTasks failed: %v", err)
	}
	orders := map[int]int{}
	tasks, _ := m.Tasks()
	for _, tk := range tasks {
		orders[tk.ID] = tk.Order
	}
	if orders[b.ID] != 0 || orders[a.ID] != 2 {
		t.Errorf("expected b=0 a=2, got b=%d a=%d", orders[b.ID], orders[a.ID])
	}
	if orders[c.ID] != 2 {
		t.Errorf("unlisted task must keep order 2, got %d", orders[c.ID])
	}
}

func TestTasksReturnsCopies(t *testing.T) {
	m := NewMemory()
	pid := 1
	due := task.NewDate(2024, time.June, 15)
	created, _ := m.CreateTask(task.TaskDraft{Title: "t", ProjectID: &pid, Due: &due})

	tasks, _ := m.Tasks()
	tasks[0].Title = "mutated"
	*tasks[0].ProjectID = 99
	*tasks[0].Due = task.NewDate(2030, time.January, 1)

	got, _, _ := m.TaskByID(created.ID)
	if got.Title != "t" || *got.ProjectID != 1 || *got.Due != due {
		t.Fatalf("caller mutation leaked into the store: %#v", got)
	}
}

func TestTasksIdempotentWithoutMutation(t *testing.T) {
	m := NewMemory()
	m.CreateTask(task.TaskDraft{Title: "a"})
	m.CreateTask(task.TaskDraft{Title: "b"})

	first, _ := m.Tasks()
	second, _ := m.Tasks()
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Title != second[i].Title || first[i].Order != second[i].Order {
			t.Fatalf("read %d differs: %#v vs %#v", i, first[i], second[i])
		}
	}
}

func TestCreateProjectDefaults(t *testing.T) {
	m := NewMemory()
	p, err := m.CreateProject(task.ProjectDraft{Name: "Work"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if p.Color != task.DefaultProjectColor {
		t.Errorf("expected default color, got %q", p.Color)
	}
	if p.IsCollapsed {
		t.Error("new project must start expanded")
	}
	if _, err := m.CreateProject(task.ProjectDraft{Name: " "}); !errors.Is(err, task.ErrInvalid) {
		t.Errorf("blank name: expected ErrInvalid, got %v", err)
	}
}

func TestProjectsOrderedByOrder(t *testing.T) {
	m := NewMemory()
	a, _ := m.CreateProject(task.ProjectDraft{Name: "a"})
	b, _ := m.CreateProject(task.ProjectDraft{Name: "b"})

	if _, err := m.UpdateProject(a.ID, task.ProjectPatch{Order: task.Set(5)}); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	projects, _ := m.Projects()
	if len(projects) != 2 || projects[0].ID != b.ID || projects[1].ID != a.ID {
		t.Fatalf("expected order b,a got %#v", projects)
	}
}

func TestToggleProjectCollapse(t *testing.T) {
	m := NewMemory()
	p, _ := m.CreateProject(task.ProjectDraft{Name: "Work"})

	once, err := m.ToggleProjectCollapse(p.ID)
	if err != nil {
		t.Fatalf("ToggleProjectCollapse failed: %v", err)
	}
	if !once.IsCollapsed {
		t.Fatal("first toggle must collapse")
	}
	twice, _ := m.ToggleProjectCollapse(p.ID)
	if twice.IsCollapsed {
		t.Fatal("second toggle must expand")
	}
	if _, err := m.ToggleProjectCollapse(99); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectLeavesTasks(t *testing.T) {
	m := NewMemory()
	p, _ := m.CreateProject(task.ProjectDraft{Name: "Work"})
	created, _ := m.CreateTask(task.TaskDraft{Title: "t", ProjectID: &p.ID})

	if err := m.DeleteProject(p.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	got, ok, _ := m.TaskByID(created.ID)
	if !ok {
		t.Fatal("task must survive project deletion")
	}
	if got.ProjectID == nil || *got.ProjectID != p.ID {
		t.Fatalf("task must keep its dangling project id: %#v", got.ProjectID)
	}
	if err := m.DeleteProject(p.ID); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedDemoOnlyFillsEmptyStore(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	if err := SeedDemo(m, now); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	tasks, _ := m.Tasks()
	projects, _ := m.Projects()
	if len(tasks) == 0 || len(projects) == 0 {
		t.Fatal("seed produced nothing")
	}
	before := len(tasks)
	if err := SeedDemo(m, now); err != nil {
		t.Fatalf("second SeedDemo failed: %v", err)
	}
	tasks, _ = m.Tasks()
	if len(tasks) != before {
		t.Fatalf("seeding a non-empty store must be a no-op: %d vs %d", before, len(tasks))
	}
}
