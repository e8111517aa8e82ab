package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"taskflow/internal/task"
)

// TablePrinter prints tasks in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintTasks prints one row per task. Nothing is printed for an empty list.
func (t *TablePrinter) PrintTasks(tasks []task.Task, today task.Date) error {
	if len(tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tTITLE\tPRIORITY\tSTATUS\tDUE\tSHARED")
	for _, tk := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tk.ID, tk.Title, tk.Priority, tk.Status, dueCell(tk, today), strings.Join(tk.SharedWith, ","))
	}
	return nil
}

func dueCell(tk task.Task, today task.Date) string {
	switch {
	case task.IsOverdue(tk, today):
		return tk.DueDate.String() + " (overdue)"
	case task.IsDueToday(tk, today):
		return tk.DueDate.String() + " (today)"
	default:
		return tk.DueDate.String()
	}
}

// PrintStats prints the summary counters followed by the per-filter counts.
func (t *TablePrinter) PrintStats(stats task.Stats, counts map[task.Filter]int) error {
	fmt.Fprintf(t.writer, "Total:       %d\n", stats.Total)
	fmt.Fprintf(t.writer, "Completed:   %d\n", stats.Completed)
	fmt.Fprintf(t.writer, "In progress: %d\n", stats.InProgress)
	fmt.Fprintf(t.writer, "Overdue:     %d\n", stats.Overdue)

	if len(counts) == 0 {
		return nil
	}
	fmt.Fprintln(t.writer)

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "FILTER\tTASKS")
	for _, f := range task.Filters() {
		fmt.Fprintf(tw, "%s\t%d\n", f, counts[f])
	}
	return nil
}
