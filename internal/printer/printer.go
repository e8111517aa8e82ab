package printer

import "taskflow/internal/task"

// Printer knows how to print dashboard information in different formats.
type Printer interface {
	PrintTasks(tasks []task.Task, today task.Date) error
	PrintStats(stats task.Stats, counts map[task.Filter]int) error
}
