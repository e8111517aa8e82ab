// Package task holds the task model and the pure query and mutation
// functions the dashboard is built on. Nothing in this package keeps state
// between calls: every function takes the full collection and returns a
// derived result.
package task

import "strings"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label is the human text shown on a task card, e.g. "High Priority".
func (p Priority) Label() string {
	if !p.Valid() {
		return "Unknown Priority"
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:] + " Priority"
}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusCompleted}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label renders the status for display: "Todo", "In progress", "Completed".
func (s Status) Label() string {
	if !s.Valid() {
		return "Unknown"
	}
	v := strings.Replace(string(s), "-", " ", 1)
	return strings.ToUpper(v[:1]) + v[1:]
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Task is one unit of work. ID and CreatedAt never change once assigned.
type Task struct {
	ID          int      `toml:"id" yaml:"id" json:"id"`
	Title       string   `toml:"title" yaml:"title" json:"title"`
	Description string   `toml:"description" yaml:"description" json:"description"`
	Priority    Priority `toml:"priority" yaml:"priority" json:"priority"`
	Status      Status   `toml:"status" yaml:"status" json:"status"`
	DueDate     Date     `toml:"due_date" yaml:"due_date" json:"dueDate"`
	AssignedTo  string   `toml:"assigned_to" yaml:"assigned_to" json:"assignedTo"`
	SharedWith  []string `toml:"shared_with" yaml:"shared_with" json:"sharedWith"`
	CreatedAt   Date     `toml:"created_at" yaml:"created_at" json:"createdAt"`
}

// clone copies t so the shared-with list is not aliased.
func (t Task) clone() Task {
	if t.SharedWith != nil {
		t.SharedWith = append([]string(nil), t.SharedWith...)
	}
	return t
}

// IsOverdue reports a task that is past due and not completed.
func IsOverdue(t Task, today Date) bool {
	return t.DueDate.Before(today) && t.Status != StatusCompleted
}

func IsDueToday(t Task, today Date) bool {
	return t.DueDate.Equal(today)
}

// Find returns the task with the given id.
func Find(tasks []Task, id int) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
