package task

import "strings"

// Fields is what the new-task form collects. Zero values take defaults.
type Fields struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     Date
	SharedWith  []string
}

// NextID returns one past the highest id in use.
func NextID(tasks []Task) int {
	highest := 0
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

// Create builds the task the caller should append to tasks. It returns
// false, and no task, when the title is blank. tasks is only read.
func Create(tasks []Task, f Fields, owner string, today Date) (Task, bool) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Task{}, false
	}

	priority := f.Priority
	if !priority.Valid() {
		priority = PriorityMedium
	}
	due := f.DueDate
	if due.IsZero() {
		due = today
	}
	shared := []string{}
	for _, email := range f.SharedWith {
		shared, _ = AddCollaborator(shared, email)
	}

	return Task{
		ID:          NextID(tasks),
		Title:       title,
		Description: strings.TrimSpace(f.Description),
		Priority:    priority,
		Status:      StatusTodo,
		DueDate:     due,
		AssignedTo:  owner,
		SharedWith:  shared,
		CreatedAt:   today,
	}, true
}

// Patch replaces the non-nil fields of a task. Priority and Status values
// outside their enums are ignored.
type Patch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	DueDate     *Date
	SharedWith  []string
}

func (p Patch) apply(t Task) Task {
	t = t.clone()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil && p.Priority.Valid() {
		t.Priority = *p.Priority
	}
	if p.Status != nil && p.Status.Valid() {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.SharedWith != nil {
		shared := []string{}
		for _, email := range p.SharedWith {
			shared, _ = AddCollaborator(shared, email)
		}
		t.SharedWith = shared
	}
	return t
}

// StatusPatch is the patch the card menu sends for a status change.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s}
}

// Update returns a copy of tasks with patch applied to the task with the
// given id. When no task has that id, tasks itself is returned.
func Update(tasks []Task, id int, patch Patch) []Task {
	idx := -1
	for i, t := range tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return tasks
	}

	out := make([]Task, len(tasks))
	copy(out, tasks)
	out[idx] = patch.apply(tasks[idx])
	return out
}

// Delete returns tasks without the task with the given id. When no task
// has that id, tasks itself is returned.
func Delete(tasks []Task, id int) []Task {
	if _, ok := Find(tasks, id); !ok {
		return tasks
	}
	out := make([]Task, 0, len(tasks)-1)
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// AddCollaborator appends email to list when it looks like an address and
// is not already present. The returned bool reports whether it was added.
func AddCollaborator(list []string, email string) ([]string, bool) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return list, false
	}
	for _, existing := range list {
		if existing == email {
			return list, false
		}
	}
	return append(list, email), true
}
