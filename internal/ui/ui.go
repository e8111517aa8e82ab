package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/config"
	"taskflow/internal/dashboard"
	"taskflow/internal/task"
)

type mode int

const (
	modeLanding mode = iota
	modeList
	modeSearch
	modeCreate
)

const maxAvatars = 3

type Model struct {
	ctx        context.Context
	svc        *dashboard.Service
	cfg        config.Config
	view       dashboard.View
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	filter     task.Filter
	query      string
	sidebar    bool
	confirmDel bool
	pendingDel *task.Task
	form       *formState
}

func Run(ctx context.Context, svc *dashboard.Service, cfg config.Config) error {
	m := newModel(ctx, svc, cfg)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(ctx context.Context, svc *dashboard.Service, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		ctx:     ctx,
		svc:     svc,
		cfg:     cfg,
		mode:    modeLanding,
		input:   ti,
		filter:  task.ParseFilter(cfg.DefaultFilter),
		sidebar: true,
		status:  "Choose a provider and press enter to sign in.",
	}
	if svc.Authenticated() {
		m.mode = modeList
		m.reload()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateCreateMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeLanding:
		return m.updateLandingMode(key)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateListMode(key)
}

// reload fetches the view for the current query and filter.
func (m *Model) reload() {
	v, err := m.svc.View(m.ctx, m.query, m.filter)
	if err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.view = v
	m.cursor = clampCursor(m.cursor, len(v.Tasks))
}

func (m Model) selected() (task.Task, bool) {
	if len(m.view.Tasks) == 0 {
		return task.Task{}, false
	}
	return m.view.Tasks[clampCursor(m.cursor, len(m.view.Tasks))], true
}

func (m Model) updateLandingMode(key string) (tea.Model, tea.Cmd) {
	providers := m.cfg.Providers
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(providers))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(providers))
	case m.cfg.Keys.Confirm:
		if len(providers) == 0 {
			m.status = "No sign-in providers configured"
			return m, nil
		}
		provider := providers[clampCursor(m.cursor, len(providers))]
		if err := m.svc.Login(provider); err != nil {
			m.status = fmt.Sprintf("sign in failed: %v", err)
			return m, nil
		}
		m.mode = modeList
		m.cursor = 0
		m.reload()
		m.status = fmt.Sprintf("Welcome! Signed in with %s", provider)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.view.Tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.view.Tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.view.Tasks))
		}
	case m.cfg.Keys.Add:
		return m.startCreate()
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.SetValue(m.query)
		m.input.Placeholder = "Search tasks..."
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Search: type to filter, enter to keep, esc to clear"
	case m.cfg.Keys.Cancel:
		if m.query != "" {
			m.query = ""
			m.reload()
			m.status = "Search cleared"
		}
	case m.cfg.Keys.NextFilter:
		m.setFilter(stepFilter(m.filter, 1))
	case m.cfg.Keys.PrevFilter:
		m.setFilter(stepFilter(m.filter, -1))
	case "1", "2", "3", "4", "5", "6":
		m.setFilter(task.Filters()[int(key[0]-'1')])
	case m.cfg.Keys.MarkTodo:
		return m.setStatus(task.StatusTodo)
	case m.cfg.Keys.MarkInProgress:
		return m.setStatus(task.StatusInProgress)
	case m.cfg.Keys.MarkCompleted:
		return m.setStatus(task.StatusCompleted)
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Sidebar:
		m.sidebar = !m.sidebar
	case m.cfg.Keys.Logout:
		m.svc.Logout()
		m.mode = modeLanding
		m.cursor = 0
		m.query = ""
		m.view = dashboard.View{}
		m.status = "Signed out"
	}
	return m, nil
}

func (m *Model) setFilter(f task.Filter) {
	m.filter = f
	m.cursor = 0
	m.reload()
	m.status = f.Heading()
}

func stepFilter(cur task.Filter, step int) task.Filter {
	filters := task.Filters()
	idx := 0
	for i, f := range filters {
		if f == cur {
			idx = i
			break
		}
	}
	return filters[wrapIndex(idx+step, len(filters))]
}

func (m Model) setStatus(s task.Status) (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		m.status = "No task selected"
		return m, nil
	}
	if err := m.svc.SetStatus(m.ctx, t.ID, s); err != nil {
		m.status = fmt.Sprintf("update failed: %v", err)
		return m, nil
	}
	m.reload()
	m.status = fmt.Sprintf("Marked \"%s\" as %s", t.Title, s.Label())
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.query = ""
		m.input.SetValue("")
		m.input.Blur()
		m.reload()
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.mode = modeList
		m.input.Blur()
		m.status = fmt.Sprintf("%d tasks match %q", len(m.view.Tasks), m.query)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != m.query {
			m.query = m.input.Value()
			m.cursor = 0
			m.reload()
		}
		return m, cmd
	}
}

func (m Model) startCreate() (tea.Model, tea.Cmd) {
	m.form = newForm()
	m.mode = modeCreate
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.Focus()
	m.status = m.formPrompt()
	return m, nil
}

func (m Model) updateCreateMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		m.form = nil
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formFields()))
		m.syncFormInput()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formFields()))
		m.syncFormInput()
		return m, nil
	case m.cfg.Keys.Confirm:
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.form.index++
		m.syncFormInput()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) syncFormInput() {
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.status = m.formPrompt()
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	fields, err := m.form.fields()
	if err != nil {
		m.status = fmt.Sprintf("invalid task: %v", err)
		return m, nil
	}
	created, err := m.svc.Create(m.ctx, fields)
	if errors.Is(err, dashboard.ErrEmptyTitle) {
		m.form.index = 0
		m.syncFormInput()
		m.status = "Title cannot be empty"
		return m, nil
	}
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}

	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.reload()
	for i, t := range m.view.Tasks {
		if t.ID == created.ID {
			m.cursor = i
			break
		}
	}
	m.status = "Task Created"
	return m, nil
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("New task: %s (field %d of %d). Enter to advance, tab to move, esc to cancel.",
		m.form.currentLabel(), m.form.index+1, len(formFields()))
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
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.svc.Delete(m.ctx, m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else {
			m.reload()
			m.status = "Task Deleted"
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.mode == modeLanding {
		return m.renderLanding()
	}

	var main strings.Builder
	main.WriteString(titleStyle.Render("Dashboard"))
	main.WriteString(subtleStyle.Render(fmt.Sprintf("  %d tasks", len(m.view.Tasks))))
	if m.query != "" || m.mode == modeSearch {
		main.WriteString("\n")
		main.WriteString("Search: ")
		if m.mode == modeSearch {
			main.WriteString(m.input.View())
		} else {
			main.WriteString(m.query)
		}
	}
	main.WriteString("\n\n")
	main.WriteString(m.renderStats())
	main.WriteString("\n\n")
	main.WriteString(titleStyle.Render(m.filter.Heading()))
	main.WriteString("\n")
	if len(m.view.Tasks) == 0 {
		main.WriteString(m.renderEmpty())
	} else {
		main.WriteString(m.renderTaskList())
	}

	if m.form != nil {
		main.WriteString("\n")
		main.WriteString(m.renderForm())
	}

	body := main.String()
	if m.sidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(m.renderSidebar()), body)
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderLanding() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TaskFlow"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Streamline your productivity with task management and team coordination."))
	b.WriteString("\n\nSign in with:\n")
	for i, p := range m.cfg.Providers {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + p))
		} else {
			b.WriteString("  " + p)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	k := m.cfg.Keys
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%s/%s move • %s sign in • %s quit", k.Up, k.Down, k.Confirm, k.Quit)))
	return b.String()
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TaskFlow"))
	b.WriteString("\n\n")
	for i, f := range task.Filters() {
		line := fmt.Sprintf("%d %-14s %3d", i+1, f.Label(), m.view.Counts[f])
		if f == m.filter {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(handle(m.svc.Owner())))
	return b.String()
}

func (m Model) renderStats() string {
	s := m.view.Stats
	cards := []string{
		statStyle.Render(fmt.Sprintf("Total Tasks\n%d", s.Total)),
		statStyle.Render(fmt.Sprintf("Completed\n%d", s.Completed)),
		statStyle.Render(fmt.Sprintf("In Progress\n%d", s.InProgress)),
		statStyle.Render(fmt.Sprintf("Overdue\n%s", overdueCount(s.Overdue))),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func overdueCount(n int) string {
	if n == 0 {
		return "0"
	}
	return errorStyle.Render(fmt.Sprintf("%d", n))
}

func (m Model) renderEmpty() string {
	msg := "Get started by creating your first task"
	if m.query != "" {
		msg = "Try adjusting your search criteria"
	}
	return cardStyle.Render(fmt.Sprintf("No tasks found\n%s\nPress %s to create a task", subtleStyle.Render(msg), m.cfg.Keys.Add))
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.view.Tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList && m.form == nil {
			cursor = ">"
		}
		b.WriteString(cursor)
		b.WriteString(" ")
		b.WriteString(renderCard(t, m.view.Today))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(t task.Task, today task.Date) string {
	checkbox := "[ ]"
	if t.Status == task.StatusCompleted {
		checkbox = "[x]"
	}

	badges := []string{
		priorityStyle(t.Priority).Render(t.Priority.Label()),
		statusStyle(t.Status).Render(t.Status.Label()),
	}
	overdue := task.IsOverdue(t, today)
	if overdue {
		badges = append(badges, overdueStyle.Render("Overdue"))
	} else if task.IsDueToday(t, today) {
		badges = append(badges, dueTodayStyle.Render("Due Today"))
	}

	title := t.Title
	if t.Status == task.StatusCompleted {
		title = subtleStyle.Strikethrough(true).Render(title)
	}

	meta := []string{"due " + t.DueDate.String(), handle(t.AssignedTo)}
	if len(t.SharedWith) > 0 {
		meta = append(meta, "shared "+avatars(t.SharedWith))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s", checkbox, title, strings.Join(badges, " · ")))
	if strings.TrimSpace(t.Description) != "" {
		b.WriteString("\n      ")
		b.WriteString(subtleStyle.Render(t.Description))
	}
	b.WriteString("\n      ")
	line := strings.Join(meta, " · ")
	if overdue {
		line = errorStyle.Render(line)
	}
	b.WriteString(line)
	return b.String()
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create New Task"))
	b.WriteString("\n")
	values := m.form.values()
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-38s : %s\n", prefix, name, val))
	}
	b.WriteString("\n")
	b.WriteString("Field: " + m.form.currentLabel())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return cardStyle.Render(b.String())
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s new • %s search • %s/%s filter • %s/%s/%s todo/progress/done • %s delete • %s sidebar • %s sign out • %s quit",
		k.Up, k.Down, k.Add, k.Search, k.NextFilter, k.PrevFilter, k.MarkTodo, k.MarkInProgress, k.MarkCompleted, k.Delete, k.Sidebar, k.Logout, k.Quit)
}

// handle is the local part of an address.
func handle(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// initials turns jane.smith@example.com into JS.
func initials(email string) string {
	var b strings.Builder
	for _, part := range strings.Split(handle(email), ".") {
		if r, _ := utf8.DecodeRuneInString(part); r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func avatars(emails []string) string {
	shown := emails
	if len(shown) > maxAvatars {
		shown = shown[:maxAvatars]
	}
	parts := make([]string, 0, len(shown)+1)
	for _, e := range shown {
		parts = append(parts, initials(e))
	}
	if extra := len(emails) - len(shown); extra > 0 {
		parts = append(parts, fmt.Sprintf("+%d", extra))
	}
	return strings.Join(parts, " ")
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
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
