package task

import "strings"

// Filter names a predicate selecting the tasks shown in the list.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterDueToday     Filter = "due-today"
	FilterOverdue      Filter = "overdue"
	FilterHighPriority Filter = "high-priority"
	FilterInProgress   Filter = "in-progress"
	FilterCompleted    Filter = "completed"
)

// Filters returns the known filters in sidebar order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterDueToday, FilterOverdue, FilterHighPriority, FilterInProgress, FilterCompleted}
}

func (f Filter) Known() bool {
	for _, k := range Filters() {
		if f == k {
			return true
		}
	}
	return false
}

// ParseFilter normalizes s. Unknown names come back as FilterAll.
func ParseFilter(s string) Filter {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Known() {
		return FilterAll
	}
	return f
}

// Label is the sidebar entry text.
func (f Filter) Label() string {
	switch f {
	case FilterDueToday:
		return "Due Today"
	case FilterOverdue:
		return "Overdue"
	case FilterHighPriority:
		return "High Priority"
	case FilterInProgress:
		return "In Progress"
	case FilterCompleted:
		return "Completed"
	default:
		return "All Tasks"
	}
}

// Heading is the title above the task list.
func (f Filter) Heading() string {
	switch f {
	case FilterAll:
		return "All Tasks"
	case FilterDueToday:
		return "Due Today"
	case FilterOverdue:
		return "Overdue Tasks"
	case FilterHighPriority:
		return "High Priority"
	case FilterCompleted:
		return "Completed Tasks"
	case FilterInProgress:
		return "In Progress"
	default:
		return "Tasks"
	}
}

func (f Filter) match(t Task, today Date) bool {
	switch f {
	case FilterDueToday:
		return IsDueToday(t, today)
	case FilterOverdue:
		return IsOverdue(t, today)
	case FilterHighPriority:
		return t.Priority == PriorityHigh
	case FilterCompleted:
		return t.Status == StatusCompleted
	case FilterInProgress:
		return t.Status == StatusInProgress
	default:
		return true
	}
}

// matchSearch is a case-insensitive substring test on title or description.
func matchSearch(t Task, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(t.Description), lowerQuery)
}

// FilterTasks returns the tasks matching both the search query and the
// filter, in input order.
func FilterTasks(tasks []Task, query string, filter Filter, today Date) []Task {
	q := strings.ToLower(query)
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if matchSearch(t, q) && filter.match(t, today) {
			out = append(out, t)
		}
	}
	return out
}

// Count is len(FilterTasks(...)) without building the slice.
func Count(tasks []Task, query string, filter Filter, today Date) int {
	q := strings.ToLower(query)
	n := 0
	for _, t := range tasks {
		if matchSearch(t, q) && filter.match(t, today) {
			n++
		}
	}
	return n
}

type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

func ComputeStats(tasks []Task, today Date) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusInProgress:
			s.InProgress++
		}
		if IsOverdue(t, today) {
			s.Overdue++
		}
	}
	return s
}
