package store

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"taskdeck/internal/task"
)

// SQLite is the file-backed Store. It holds the same contract as Memory;
// the only extra failure mode is task.ErrStorage wrapping driver errors.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: db path is empty", task.ErrInvalid)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, storageErr(err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, storageErr(err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	project_id INTEGER DEFAULT NULL,
	priority INTEGER NOT NULL DEFAULT 4,
	due TEXT DEFAULT NULL,
	created_at TEXT NOT NULL,
	completed_at TEXT DEFAULT NULL,
	position INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '#737373',
	position INTEGER NOT NULL DEFAULT 0,
	collapsed INTEGER NOT NULL DEFAULT 0
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *SQLite) Tasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, title, completed, project_id, priority, due, created_at, completed_at, position FROM tasks ORDER BY id;`)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return tasks, nil
}

func (s *SQLite) TaskByID(id int) (task.Task, bool, error) {
	row := s.db.QueryRow(`SELECT id, title, completed, project_id, priority, due, created_at, completed_at, position FROM tasks WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, false, nil
	}
	if err != nil {
		return task.Task{}, false, err
	}
	return t, true, nil
}

func (s *SQLite) CreateTask(draft task.TaskDraft) (task.Task, error) {
	if err := draft.Validate(); err != nil {
		return task.Task{}, err
	}
	priority := draft.Priority
	if priority == 0 {
		priority = task.PriorityDefault
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks;`).Scan(&count); err != nil {
		return task.Task{}, storageErr(err)
	}
	now := time.Now()
	res, err := s.db.Exec(`INSERT INTO tasks (title, completed, project_id, priority, due, created_at, position) VALUES (?, 0, ?, ?, ?, ?, ?);`,
		draft.Title, nullableInt(draft.ProjectID), priority, nullableDate(draft.Due), now.UTC().Format(time.RFC3339), count)
	if err != nil {
		return task.Task{}, storageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, storageErr(err)
	}
	t, _, err := s.TaskByID(int(id))
	return t, err
}

func (s *SQLite) UpdateTask(id int, patch task.TaskPatch) (task.Task, error) {
	if err := patch.Validate(); err != nil {
		return task.Task{}, err
	}
	t, ok, err := s.TaskByID(id)
	if err != nil {
		return task.Task{}, err
	}
	if !ok {
		return task.Task{}, fmt.Errorf("%w: task %d", task.ErrNotFound, id)
	}
	t = patch.Apply(t, time.Now())
	if err := s.writeTask(t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (s *SQLite) CompleteTask(id int) (task.Task, error) {
	t, ok, err := s.TaskByID(id)
	if err != nil {
		return task.Task{}, err
	}
	if !ok {
		return task.Task{}, fmt.Errorf("%w: task %d", task.ErrNotFound, id)
	}
	at := time.Now()
	t.Completed = true
	t.CompletedAt = &at
	if err := s.writeTask(t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (s *SQLite) DeleteTask(id int) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return storageErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: task %d", task.ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) ReorderTasks(_ *int, orderedIDs []int) error {
	for pos, id := range orderedIDs {
		if _, err := s.db.Exec(`UPDATE tasks SET position = ? WHERE id = ?;`, pos, id); err != nil {
			return storageErr(err)
		}
	}
	return nil
}

func (s *SQLite) Projects() ([]task.Project, error) {
	rows, err := s.db.Query(`SELECT id, name, color, position, collapsed FROM projects ORDER BY position, id;`)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var projects []task.Project
	for rows.Next() {
		var p task.Project
		var collapsed int
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Order, &collapsed); err != nil {
			return nil, storageErr(err)
		}
		p.IsCollapsed = collapsed == 1
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return projects, nil
}

func (s *SQLite) ProjectByID(id int) (task.Project, bool, error) {
	var p task.Project
	var collapsed int
	err := s.db.QueryRow(`SELECT id, name, color, position, collapsed FROM projects WHERE id = ?;`, id).
		Scan(&p.ID, &p.Name, &p.Color, &p.Order, &collapsed)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Project{}, false, nil
	}
	if err != nil {
		return task.Project{}, false, storageErr(err)
	}
	p.IsCollapsed = collapsed == 1
	return p, true, nil
}

func (s *SQLite) CreateProject(draft task.ProjectDraft) (task.Project, error) {
	if err := draft.Validate(); err != nil {
		return task.Project{}, err
	}
	color := draft.Color
	if color == "" {
		color = task.DefaultProjectColor
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM projects;`).Scan(&count); err != nil {
		return task.Project{}, storageErr(err)
	}
	res, err := s.db.Exec(`INSERT INTO projects (name, color, position, collapsed) VALUES (?, ?, ?, 0);`,
		draft.Name, color, count)
	if err != nil {
		return task.Project{}, storageErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Project{}, storageErr(err)
	}
	p, _, err := s.ProjectByID(int(id))
	return p, err
}

func (s *SQLite) UpdateProject(id int, patch task.ProjectPatch) (task.Project, error) {
	if err := patch.Validate(); err != nil {
		return task.Project{}, err
	}
	p, ok, err := s.ProjectByID(id)
	if err != nil {
		return task.Project{}, err
	}
	if !ok {
		return task.Project{}, fmt.Errorf("%w: project %d", task.ErrNotFound, id)
	}
	p = patch.Apply(p)
	if err := s.writeProject(p); err != nil {
		return task.Project{}, err
	}
	return p, nil
}

func (s *SQLite) DeleteProject(id int) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE id = ?;`, id)
	if err != nil {
		return storageErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: project %d", task.ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) ToggleProjectCollapse(id int) (task.Project, error) {
	p, ok, err := s.ProjectByID(id)
	if err != nil {
		return task.Project{}, err
	}
	if !ok {
		return task.Project{}, fmt.Errorf("%w: project %d", task.ErrNotFound, id)
	}
	p.IsCollapsed = !p.IsCollapsed
	if err := s.writeProject(p); err != nil {
		return task.Project{}, err
	}
	return p, nil
}

func (s *SQLite) writeTask(t task.Task) error {
	completed := 0
	if t.Completed {
		completed = 1
	}
	_, err := s.db.Exec(`UPDATE tasks SET title = ?, completed = ?, project_id = ?, priority = ?, due = ?, completed_at = ?, position = ? WHERE id = ?;`,
		t.Title, completed, nullableInt(t.ProjectID), t.Priority, nullableDate(t.Due), nullableTime(t.CompletedAt), t.Order, t.ID)
	return storageErr(err)
}

func (s *SQLite) writeProject(p task.Project) error {
	collapsed := 0
	if p.IsCollapsed {
		collapsed = 1
	}
	_, err := s.db.Exec(`UPDATE projects SET name = ?, color = ?, position = ?, collapsed = ? WHERE id = ?;`,
		p.Name, p.Color, p.Order, collapsed, p.ID)
	return storageErr(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (task.Task, error) {
	var t task.Task
	var completed int
	var projectID sql.NullInt64
	var dueStr, completedStr sql.NullString
	var createdStr string

	err := row.Scan(&t.ID, &t.Title, &completed, &projectID, &t.Priority, &dueStr, &createdStr, &completedStr, &t.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, err
	}
	if err != nil {
		return task.Task{}, storageErr(err)
	}
	t.Completed = completed == 1
	if projectID.Valid {
		id := int(projectID.Int64)
		t.ProjectID = &id
	}
	if dueStr.Valid {
		d, err := task.ParseDate(dueStr.String)
		if err != nil {
			return task.Task{}, fmt.Errorf("%w: bad due date for task %d: %v", task.ErrStorage, t.ID, err)
		}
		t.Due = &d
	}
	if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
		t.CreatedAt = created
	}
	if completedStr.Valid {
		if at, err := time.Parse(time.RFC3339, completedStr.String); err == nil {
			t.CompletedAt = &at
		}
	}
	return t, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableDate(d *task.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", task.ErrStorage, err)
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
