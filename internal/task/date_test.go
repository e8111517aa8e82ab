package task_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/task"
)

func TestParseDate(t *testing.T) {
	tests := map[string]struct {
		in     string
		expErr bool
		exp    string
	}{
		"ISO date":        {in: "2025-07-06", exp: "2025-07-06"},
		"Leap day":        {in: "2024-02-29", exp: "2024-02-29"},
		"Not a leap year": {in: "2025-02-29", expErr: true},
		"Timestamp":       {in: "2025-07-06T10:00:00Z", expErr: true},
		"Garbage":         {in: "tomorrow", expErr: true},
		"Empty":           {in: "", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := task.ParseDate(test.in)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, d.String())
		})
	}
}

func TestDateOfIgnoresClockTime(t *testing.T) {
	morning := time.Date(2025, 7, 6, 0, 5, 0, 0, time.UTC)
	night := time.Date(2025, 7, 6, 23, 59, 0, 0, time.UTC)

	assert.True(t, task.DateOf(morning).Equal(task.DateOf(night)))
	assert.True(t, task.DateOf(morning).Equal(task.MustDate("2025-07-06")))
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 20:00 UTC on the 5th is already the 6th in UTC+9.
	ts := time.Date(2025, 7, 5, 20, 0, 0, 0, time.UTC).In(loc)

	assert.Equal(t, "2025-07-06", task.DateOf(ts).String())
}

func TestDateOrdering(t *testing.T) {
	a := task.MustDate("2025-07-05")
	b := task.MustDate("2025-07-06")

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, task.DateOf(a.Time().Add(36*time.Hour)).Equal(b))
	assert.True(t, task.Date{}.Before(a))
	assert.True(t, task.Date{}.IsZero())
	assert.Equal(t, "", task.Date{}.String())
}

func TestDateText(t *testing.T) {
	var d task.Date
	require.NoError(t, d.UnmarshalText([]byte("2025-07-06")))
	assert.Equal(t, task.MustDate("2025-07-06"), d)

	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-07-06", string(b))

	assert.Error(t, d.UnmarshalText([]byte("07/06/2025")))

	require.NoError(t, d.UnmarshalText(nil))
	assert.True(t, d.IsZero())
}
