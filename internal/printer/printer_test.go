package printer_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/printer"
	"taskflow/internal/task"
)

var today = task.MustDate("2025-07-06")

func TestTablePrinterPrintTasks(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	require.NoError(t, p.PrintTasks(task.Seed(), today))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Design homepage mockups")
	assert.Contains(t, out, "2025-07-06 (today)")
	assert.Contains(t, out, "2025-07-05 (overdue)")
	assert.NotContains(t, out, "2025-07-04 (overdue)")
	assert.Contains(t, out, "jane.smith@example.com,mike.wilson@example.com")
}

func TestTablePrinterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printer.NewTablePrinter(&buf).PrintTasks(nil, today))
	assert.Empty(t, buf.String())
}

func TestTablePrinterPrintStats(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintStats(task.Stats{Total: 3, Completed: 1, InProgress: 1, Overdue: 1}, map[task.Filter]int{task.FilterHighPriority: 2})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Total:       3")
	assert.Contains(t, out, "Overdue:     1")
	assert.Regexp(t, `high-priority\s+2`, out)
	assert.Regexp(t, `due-today\s+0`, out)
}

func TestJSONPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintTasks(task.Seed()[:2], today))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2025-07-06", got[0]["dueDate"])
	assert.Equal(t, "in-progress", got[0]["status"])
	assert.Equal(t, true, got[0]["dueToday"])
	assert.Equal(t, true, got[1]["overdue"])
	assert.Equal(t, []any{}, got[1]["sharedWith"])

	buf.Reset()
	require.NoError(t, p.PrintStats(task.Stats{Total: 3, Overdue: 1}, map[task.Filter]int{task.FilterAll: 3}))
	var stats map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &stats))
	assert.Equal(t, float64(3), stats["total"])
	assert.Equal(t, float64(1), stats["overdue"])
	assert.Equal(t, map[string]any{"all": float64(3)}, stats["filters"])
}
