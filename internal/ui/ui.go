package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/config"
	"taskdeck/internal/store"
	"taskdeck/internal/task"
	"taskdeck/internal/views"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type viewKind int

const (
	viewToday viewKind = iota
	viewInbox
	viewUpcoming
	viewProject
)

func (v viewKind) title() string {
	switch v {
	case viewToday:
		return "Today"
	case viewInbox:
		return "Inbox"
	case viewUpcoming:
		return "Upcoming"
	case viewProject:
		return "Project"
	default:
		return "?"
	}
}

type rowKind int

const (
	rowHeader rowKind = iota
	rowTask
)

// row is one rendered line; the cursor only ever rests on task rows.
type row struct {
	kind    rowKind
	text    string
	task    task.Task
	overdue bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Faint(true)
)

func priorityStyle(p int) lipgloss.Style {
	switch p {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	case 3:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	default:
		return subtleStyle
	}
}

type Model struct {
	st         store.Store
	engine     *views.Engine
	cfg        config.Config
	now        func() time.Time
	view       viewKind
	rows       []row
	cursor     int
	projects   []task.Project
	projectIdx int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
}

func Run(st store.Store, cfg config.Config) error {
	m, err := newModel(st, cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func newModel(st store.Store, cfg config.Config) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Task title (try \"call mom tomorrow\")"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		st:     st,
		engine: views.New(st),
		cfg:    cfg,
		now:    time.Now,
		view:   viewFromName(cfg.DefaultView),
		input:  ti,
		status: "Press 'a' to add, space to complete, 'd' to delete.",
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func viewFromName(name string) viewKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "inbox":
		return viewInbox
	case "upcoming":
		return viewUpcoming
	case "project", "projects":
		return viewProject
	default:
		return viewToday
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		draft := task.TaskDraft{Title: title}
		if due, ok := task.ParseNatural(title, m.now()); ok {
			draft.Due = &due
			m.status = fmt.Sprintf("Added task, due %s", due)
		} else {
			m.status = "Added task"
		}
		if m.view == viewProject {
			if p, ok := m.currentProject(); ok {
				id := p.ID
				draft.ProjectID = &id
			}
		}
		if _, err := m.st.CreateTask(draft); err != nil {
			m.status = fmt.Sprintf("add failed: %v", err)
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.refresh()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = m.nextTaskRow(m.cursor, +1)
	case m.cfg.Keys.Up, "up":
		m.cursor = m.nextTaskRow(m.cursor, -1)
	case m.cfg.Keys.Inbox:
		m.view = viewInbox
		m.refresh()
	case m.cfg.Keys.Today:
		m.view = viewToday
		m.refresh()
	case m.cfg.Keys.Upcoming:
		m.view = viewUpcoming
		m.refresh()
	case m.cfg.Keys.Projects:
		m.view = viewProject
		m.refresh()
	case "tab":
		if m.view == viewProject && len(m.projects) > 0 {
			m.projectIdx = (m.projectIdx + 1) % len(m.projects)
			m.refresh()
		}
	case "shift+tab":
		if m.view == viewProject && len(m.projects) > 0 {
			m.projectIdx = (m.projectIdx - 1 + len(m.projects)) % len(m.projects)
			m.refresh()
		}
	case m.cfg.Keys.Collapse:
		if m.view == viewProject {
			if p, ok := m.currentProject(); ok {
				if _, err := m.st.ToggleProjectCollapse(p.ID); err != nil {
					m.status = fmt.Sprintf("collapse failed: %v", err)
				} else {
					m.refresh()
				}
			}
		}
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Add mode: type a title and press Enter"
	case m.cfg.Keys.Complete:
		if t, ok := m.currentTask(); ok {
			m.toggleComplete(t)
			m.refresh()
		}
	case m.cfg.Keys.Delete:
		if t, ok := m.currentTask(); ok {
			m.confirmDel = true
			m.pendingDel = &t
			m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
		}
	case m.cfg.Keys.MoveUp:
		m.moveTask(-1)
	case m.cfg.Keys.MoveDown:
		m.moveTask(+1)
	}
	return m, nil
}

func (m *Model) toggleComplete(t task.Task) {
	var err error
	if t.Completed {
		_, err = m.st.UpdateTask(t.ID, task.TaskPatch{Completed: task.Set(false)})
	} else {
		_, err = m.st.CompleteTask(t.ID)
	}
	if err != nil {
		m.status = fmt.Sprintf("toggle failed: %v", err)
		return
	}
	m.status = "Toggled task"
}

// moveTask swaps the selected task with its neighbor in the project's
// manual order and persists the whole sequence.
func (m *Model) moveTask(dir int) {
	if m.view != viewProject {
		m.status = "Reordering applies to the project view"
		return
	}
	t, ok := m.currentTask()
	if !ok {
		return
	}
	p, ok := m.currentProject()
	if !ok {
		return
	}
	tasks, err := m.engine.ByProject(p.ID)
	if err != nil {
		m.status = fmt.Sprintf("reorder failed: %v", err)
		return
	}
	idx := -1
	for i, pt := range tasks {
		if pt.ID == t.ID {
			idx = i
			break
		}
	}
	target := idx + dir
	if idx < 0 || target < 0 || target >= len(tasks) {
		return
	}
	tasks[idx], tasks[target] = tasks[target], tasks[idx]
	ids := make([]int, len(tasks))
	for i, pt := range tasks {
		ids[i] = pt.ID
	}
	if err := m.st.ReorderTasks(&p.ID, ids); err != nil {
		m.status = fmt.Sprintf("reorder failed: %v", err)
		return
	}
	m.refresh()
	m.cursorToTask(t.ID)
	m.status = "Moved task"
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.confirmDel = false
			return m, nil
		}
		if err := m.st.DeleteTask(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else {
			m.status = "Deleted task"
		}
		m.confirmDel = false
		m.pendingDel = nil
		m.refresh()
		return m, nil
	default:
		return m, nil
	}
}

// refresh re-derives the current view from the store, keeping the cursor in
// range. Mutations never patch rows in place.
func (m *Model) refresh() {
	if err := m.reload(); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
	}
}

func (m *Model) reload() error {
	projects, err := m.st.Projects()
	if err != nil {
		return err
	}
	m.projects = projects
	if m.projectIdx >= len(m.projects) {
		m.projectIdx = 0
	}

	var rows []row
	switch m.view {
	case viewInbox:
		rows, err = m.inboxRows()
	case viewToday:
		rows, err = m.todayRows()
	case viewUpcoming:
		rows, err = m.upcomingRows()
	case viewProject:
		rows, err = m.projectRows()
	}
	if err != nil {
		return err
	}
	m.rows = rows
	m.cursor = m.nextTaskRow(clampCursor(m.cursor, len(m.rows)), 0)
	return nil
}

func (m *Model) inboxRows() ([]row, error) {
	tasks, err := m.engine.Inbox()
	if err != nil {
		return nil, err
	}
	open, done := views.SplitCompleted(tasks)
	var rows []row
	rows = appendSection(rows, fmt.Sprintf("Tasks (%d)", len(open)), open, false)
	rows = appendSection(rows, fmt.Sprintf("Completed (%d)", len(done)), done, false)
	return rows, nil
}

func (m *Model) todayRows() ([]row, error) {
	tasks, err := m.engine.Today(m.now())
	if err != nil {
		return nil, err
	}
	today := task.DateOf(m.now())
	open, done := views.SplitCompleted(tasks)
	var overdue, due []task.Task
	for _, t := range open {
		if t.Due != nil && t.Due.Before(today) {
			overdue = append(overdue, t)
		} else {
			due = append(due, t)
		}
	}
	var rows []row
	rows = appendSection(rows, fmt.Sprintf("Overdue (%d)", len(overdue)), overdue, true)
	rows = appendSection(rows, fmt.Sprintf("Today (%d)", len(due)), due, false)
	rows = appendSection(rows, fmt.Sprintf("Completed (%d)", len(done)), done, false)
	return rows, nil
}

func (m *Model) upcomingRows() ([]row, error) {
	groups, err := m.engine.Upcoming(m.now())
	if err != nil {
		return nil, err
	}
	var rows []row
	for _, g := range groups {
		header := fmt.Sprintf("%s · %s (%d)", g.Date.Weekday(), g.Date, len(g.Tasks))
		rows = appendSection(rows, header, g.Tasks, false)
	}
	return rows, nil
}

func (m *Model) projectRows() ([]row, error) {
	p, ok := m.currentProject()
	if !ok {
		return nil, nil
	}
	tasks, err := m.engine.ByProject(p.ID)
	if err != nil {
		return nil, err
	}
	if p.IsCollapsed {
		return []row{{kind: rowHeader, text: fmt.Sprintf("%s is collapsed (%d tasks) — press '%s' to expand", p.Name, len(tasks), m.cfg.Keys.Collapse)}}, nil
	}
	open, done := views.SplitCompleted(tasks)
	var rows []row
	rows = appendSection(rows, fmt.Sprintf("Tasks (%d)", len(open)), open, false)
	rows = appendSection(rows, fmt.Sprintf("Completed (%d)", len(done)), done, false)
	return rows, nil
}

func appendSection(rows []row, header string, tasks []task.Task, overdue bool) []row {
	if len(tasks) == 0 {
		return rows
	}
	rows = append(rows, row{kind: rowHeader, text: header})
	for _, t := range tasks {
		rows = append(rows, row{kind: rowTask, task: t, overdue: overdue})
	}
	return rows
}

func (m Model) currentTask() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].kind != rowTask {
		return task.Task{}, false
	}
	return m.rows[m.cursor].task, true
}

func (m Model) currentProject() (task.Project, bool) {
	if len(m.projects) == 0 {
		return task.Project{}, false
	}
	return m.projects[m.projectIdx], true
}

// nextTaskRow walks from a row index to the nearest task row in the given
// direction. dir 0 searches forward then backward from the current spot.
func (m Model) nextTaskRow(from, dir int) int {
	if len(m.rows) == 0 {
		return 0
	}
	if dir == 0 {
		for i := from; i < len(m.rows); i++ {
			if m.rows[i].kind == rowTask {
				return i
			}
		}
		dir = -1
	}
	for i := from + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].kind == rowTask {
			return i
		}
	}
	return from
}

func (m *Model) cursorToTask(id int) {
	for i, r := range m.rows {
		if r.kind == rowTask && r.task.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.viewTitle()))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(subtleStyle.Render(m.emptyText()))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		switch r.kind {
		case rowHeader:
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(headerStyle.Render(r.text))
			b.WriteString("\n")
		case rowTask:
			b.WriteString(m.renderTask(r, i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(subtleStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) viewTitle() string {
	if m.view != viewProject {
		return m.viewTitleDated()
	}
	p, ok := m.currentProject()
	if !ok {
		return "Projects (none yet)"
	}
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
	return fmt.Sprintf("%s %s  %s", marker, p.Name, subtleStyle.Render("tab to switch"))
}

func (m Model) viewTitleDated() string {
	switch m.view {
	case viewToday:
		return fmt.Sprintf("Today · %s", m.now().Format("Monday, January 2"))
	case viewUpcoming:
		return "Upcoming · next 7 days"
	default:
		return m.view.title()
	}
}

func (m Model) emptyText() string {
	switch m.view {
	case viewToday:
		return "Nothing due today. Press 'a' to plan your day."
	case viewUpcoming:
		return "No tasks scheduled for the next 7 days."
	case viewProject:
		if len(m.projects) == 0 {
			return "No projects yet."
		}
		return "No tasks in this project. Press 'a' to add one."
	default:
		return "Inbox is empty. Press 'a' to capture a task."
	}
}

func (m Model) renderTask(r row, selected bool) string {
	t := r.task
	cursor := "  "
	if selected && m.mode == modeList {
		cursor = cursorStyle.Render("> ")
	}

	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}

	title := t.Title
	if t.Completed {
		title = doneStyle.Render(title)
	} else if r.overdue {
		title = overdueStyle.Render(title)
	}

	line := fmt.Sprintf("%s%s %s %s", cursor, checkbox, priorityFlag(t.Priority), title)
	if t.Due != nil && m.view != viewUpcoming {
		line += subtleStyle.Render(fmt.Sprintf("  due %s", t.Due))
	}
	if m.view != viewProject {
		if name, ok := m.projectName(t.ProjectID); ok {
			line += subtleStyle.Render("  #" + name)
		}
	}
	return line
}

func (m Model) projectName(id *int) (string, bool) {
	if id == nil {
		return "", false
	}
	for _, p := range m.projects {
		if p.ID == *id {
			return p.Name, true
		}
	}
	return "", false
}

func priorityFlag(p int) string {
	return priorityStyle(p).Render(fmt.Sprintf("P%d", p))
}

func renderHelp(k config.Keymap) string {
	complete := k.Complete
	if complete == " " {
		complete = "space"
	}
	return fmt.Sprintf("%s/%s move · %s add · %s complete · %s delete · %s/%s/%s/%s views · %s quit",
		k.Up, k.Down, k.Add, complete, k.Delete, k.Inbox, k.Today, k.Upcoming, k.Projects, k.Quit)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
