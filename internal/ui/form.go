package ui

import (
	"fmt"
	"strings"

	"taskflow/internal/task"
)

type formState struct {
	title       string
	description string
	priority    string
	due         string
	shared      string
	index       int
}

func newForm() *formState {
	return &formState{priority: string(task.PriorityMedium)}
}

func priorityChoices() string {
	names := make([]string, 0, len(task.Priorities()))
	for _, p := range task.Priorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, "/")
}

func formFields() []string {
	return []string{"title", "description", "priority (" + priorityChoices() + ")", "due date (YYYY-MM-DD, empty = today)", "share with (comma separated emails)"}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.title
	case 1:
		return fs.description
	case 2:
		return fs.priority
	case 3:
		return fs.due
	case 4:
		return fs.shared
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.title = v
	case 1:
		fs.description = v
	case 2:
		fs.priority = v
	case 3:
		fs.due = v
	case 4:
		fs.shared = v
	}
}

func (fs formState) values() []string {
	return []string{fs.title, fs.description, fs.priority, fs.due, fs.shared}
}

// fields validates the form. The title is left for the service to check.
func (fs formState) fields() (task.Fields, error) {
	f := task.Fields{
		Title:       fs.title,
		Description: fs.description,
	}
	if strings.TrimSpace(fs.priority) != "" {
		p, ok := task.ParsePriority(fs.priority)
		if !ok {
			return task.Fields{}, fmt.Errorf("priority must be one of %s", priorityChoices())
		}
		f.Priority = p
	}
	if due := strings.TrimSpace(fs.due); due != "" {
		d, err := task.ParseDate(due)
		if err != nil {
			return task.Fields{}, err
		}
		f.DueDate = d
	}
	for _, email := range strings.Split(fs.shared, ",") {
		if strings.TrimSpace(email) == "" {
			continue
		}
		var ok bool
		if f.SharedWith, ok = task.AddCollaborator(f.SharedWith, email); !ok && !strings.Contains(email, "@") {
			return task.Fields{}, fmt.Errorf("%q is not an email address", strings.TrimSpace(email))
		}
	}
	return f, nil
}
