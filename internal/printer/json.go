package printer

import (
	"encoding/json"
	"io"

	"taskflow/internal/task"
)

// JSONPrinter prints dashboard information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type taskItem struct {
	task.Task
	Overdue  bool `json:"overdue"`
	DueToday bool `json:"dueToday"`
}

type statsOutput struct {
	task.Stats
	Filters map[task.Filter]int `json:"filters,omitempty"`
}

func (j *JSONPrinter) PrintTasks(tasks []task.Task, today task.Date) error {
	items := make([]taskItem, len(tasks))
	for i, tk := range tasks {
		items[i] = taskItem{
			Task:     tk,
			Overdue:  task.IsOverdue(tk, today),
			DueToday: task.IsDueToday(tk, today),
		}
	}
	return j.encode(items)
}

func (j *JSONPrinter) PrintStats(stats task.Stats, counts map[task.Filter]int) error {
	return j.encode(statsOutput{Stats: stats, Filters: counts})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
