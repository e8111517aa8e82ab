package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/dashboard"
	"taskflow/internal/log"
	"taskflow/internal/storage"
	"taskflow/internal/task"
)

var fixedNow = time.Date(2025, 7, 6, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, seed []task.Task) *dashboard.Service {
	t.Helper()
	store, err := storage.Open(log.Noop)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Seed(context.Background(), seed))

	svc, err := dashboard.NewService(dashboard.ServiceConfig{
		Repository: store,
		Owner:      "john.doe@example.com",
		Clock:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	require.NoError(t, svc.Login("github"))
	return svc
}

type failingRepo struct{ storage.Repository }

func (failingRepo) ListTasks(context.Context) ([]task.Task, error) {
	return nil, errors.New("boom")
}

func TestNewService(t *testing.T) {
	store, err := storage.Open(nil)
	require.NoError(t, err)
	defer store.Close()

	tests := map[string]struct {
		config dashboard.ServiceConfig
		expErr bool
	}{
		"Valid config should create the service": {
			config: dashboard.ServiceConfig{Repository: store, Owner: "a@b.c", Logger: log.Noop},
		},
		"Missing repository should fail": {
			config: dashboard.ServiceConfig{Owner: "a@b.c"},
			expErr: true,
		},
		"Missing owner should fail": {
			config: dashboard.ServiceConfig{Repository: store, Owner: " "},
			expErr: true,
		},
		"Nil clock and logger take defaults": {
			config: dashboard.ServiceConfig{Repository: store, Owner: "a@b.c"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := dashboard.NewService(test.config)

			if test.expErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestSession(t *testing.T) {
	store, err := storage.Open(log.Noop)
	require.NoError(t, err)
	defer store.Close()
	svc, err := dashboard.NewService(dashboard.ServiceConfig{Repository: store, Owner: "a@b.c"})
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, svc.Authenticated())
	_, err = svc.View(ctx, "", task.FilterAll)
	assert.ErrorIs(t, err, dashboard.ErrNotSignedIn)
	_, err = svc.Create(ctx, task.Fields{Title: "x"})
	assert.ErrorIs(t, err, dashboard.ErrNotSignedIn)
	assert.ErrorIs(t, svc.Delete(ctx, 1), dashboard.ErrNotSignedIn)
	assert.ErrorIs(t, svc.SetStatus(ctx, 1, task.StatusTodo), dashboard.ErrNotSignedIn)

	assert.Error(t, svc.Login("  "))
	assert.False(t, svc.Authenticated())

	require.NoError(t, svc.Login("any-provider-at-all"))
	assert.True(t, svc.Authenticated())
	assert.Equal(t, "any-provider-at-all", svc.Provider())
	first := svc.Session()
	assert.Len(t, first, 26)

	require.NoError(t, svc.Login("github"))
	assert.NotEqual(t, first, svc.Session())

	svc.Logout()
	assert.False(t, svc.Authenticated())
	assert.Equal(t, "", svc.Provider())
	assert.Equal(t, "", svc.Session())
}

func TestViewAndLogoutConcurrently(t *testing.T) {
	svc := newService(t, task.Seed())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			svc.Logout()
			assert.NoError(t, svc.Login("github"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			v, err := svc.View(ctx, "", task.FilterAll)
			if err != nil {
				assert.ErrorIs(t, err, dashboard.ErrNotSignedIn)
				continue
			}
			assert.Len(t, v.Tasks, 3)
		}
	}()
	wg.Wait()

	svc.Logout()
	_, err := svc.View(ctx, "", task.FilterAll)
	assert.ErrorIs(t, err, dashboard.ErrNotSignedIn)
}

func TestView(t *testing.T) {
	tests := map[string]struct {
		query    string
		filter   task.Filter
		expIDs   []int
		expStats task.Stats
	}{
		"All tasks": {
			filter:   task.FilterAll,
			expIDs:   []int{1, 2, 3},
			expStats: task.Stats{Total: 3, Completed: 1, InProgress: 1, Overdue: 1},
		},
		"Overdue": {
			filter:   task.FilterOverdue,
			expIDs:   []int{2},
			expStats: task.Stats{Total: 3, Completed: 1, InProgress: 1, Overdue: 1},
		},
		"Search does not change the stats": {
			query:    "SLIDES",
			filter:   task.FilterAll,
			expIDs:   []int{3},
			expStats: task.Stats{Total: 3, Completed: 1, InProgress: 1, Overdue: 1},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, task.Seed())

			v, err := svc.View(context.Background(), test.query, test.filter)
			require.NoError(t, err)

			var got []int
			for _, tk := range v.Tasks {
				got = append(got, tk.ID)
			}
			assert.Equal(t, test.expIDs, got)
			assert.Equal(t, test.expStats, v.Stats)
			assert.Equal(t, task.MustDate("2025-07-06"), v.Today)
			assert.Equal(t, test.filter, v.Filter)
		})
	}
}

func TestViewCounts(t *testing.T) {
	svc := newService(t, task.Seed())

	v, err := svc.View(context.Background(), "nothing matches this", task.FilterAll)
	require.NoError(t, err)

	assert.Empty(t, v.Tasks)
	assert.Equal(t, map[task.Filter]int{
		task.FilterAll:          3,
		task.FilterDueToday:     1,
		task.FilterOverdue:      1,
		task.FilterHighPriority: 2,
		task.FilterInProgress:   1,
		task.FilterCompleted:    1,
	}, v.Counts)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, task.Seed())

	_, err := svc.Create(ctx, task.Fields{Title: "   "})
	assert.ErrorIs(t, err, dashboard.ErrEmptyTitle)

	created, err := svc.Create(ctx, task.Fields{Title: "Write changelog", Priority: task.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
	assert.Equal(t, task.StatusTodo, created.Status)
	assert.Equal(t, "john.doe@example.com", created.AssignedTo)
	assert.Equal(t, task.MustDate("2025-07-06"), created.CreatedAt)
	assert.Equal(t, task.MustDate("2025-07-06"), created.DueDate)

	v, err := svc.View(ctx, "", task.FilterDueToday)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Stats.Total)
	require.Len(t, v.Tasks, 2)
	assert.Equal(t, created, v.Tasks[1])
}

func TestCreateKeepsSharedWith(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	created, err := svc.Create(ctx, task.Fields{Title: "t", SharedWith: []string{"ops,team@example.com", "team@example.com"}})
	require.NoError(t, err)

	v, err := svc.View(ctx, "", task.FilterAll)
	require.NoError(t, err)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, created.SharedWith, v.Tasks[0].SharedWith)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, task.Seed())

	require.NoError(t, svc.SetStatus(ctx, 99, task.StatusCompleted))
	v, err := svc.View(ctx, "", task.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, task.Seed(), v.Tasks)

	require.NoError(t, svc.SetStatus(ctx, 2, task.StatusCompleted))
	v, err = svc.View(ctx, "", task.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, task.Stats{Total: 3, Completed: 2, InProgress: 1, Overdue: 0}, v.Stats)

	title := "Review all pull requests"
	require.NoError(t, svc.Update(ctx, 2, task.Patch{Title: &title}))
	v, err = svc.View(ctx, "all pull", task.FilterAll)
	require.NoError(t, err)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, task.StatusCompleted, v.Tasks[0].Status)

	require.NoError(t, svc.Delete(ctx, 42))
	require.NoError(t, svc.Delete(ctx, 1))
	v, err = svc.View(ctx, "", task.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Stats.Total)

	created, err := svc.Create(ctx, task.Fields{Title: "after delete"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
}

type logLine struct {
	level  string
	msg    string
	values log.Kv
}

// recordingLogger keeps every line with the values in effect when it was logged.
type recordingLogger struct {
	lines  *[]logLine
	values log.Kv
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{lines: &[]logLine{}, values: log.Kv{}}
}

func (r recordingLogger) add(level, format string, args ...any) {
	*r.lines = append(*r.lines, logLine{level: level, msg: fmt.Sprintf(format, args...), values: r.values})
}

func (r recordingLogger) Infof(format string, args ...any) { r.add("info", format, args...) }
func (r recordingLogger) Warningf(format string, args ...any) { r.add("warning", format, args...) }
func (r recordingLogger) Errorf(format string, args ...any) { r.add("error", format, args...) }
func (r recordingLogger) Debugf(format string, args ...any) { r.add("debug", format, args...) }

func (r recordingLogger) WithValues(kv map[string]any) log.Logger {
	merged := log.Kv{}
	for k, v := range r.values {
		merged[k] = v
	}
	for k, v := range kv {
		merged[k] = v
	}
	return recordingLogger{lines: r.lines, values: merged}
}

func (r recordingLogger) WithCtxValues(ctx context.Context) log.Logger {
	return r.WithValues(log.ValuesFromCtx(ctx))
}

func (r recordingLogger) SetValuesOnCtx(parent context.Context, values map[string]any) context.Context {
	return log.CtxWithValues(parent, values)
}

func (r recordingLogger) find(msg string) (logLine, bool) {
	for _, l := range *r.lines {
		if l.msg == msg {
			return l, true
		}
	}
	return logLine{}, false
}

func TestOperationsLogWithSession(t *testing.T) {
	store, err := storage.Open(log.Noop)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Seed(context.Background(), task.Seed()))

	rec := newRecordingLogger()
	svc, err := dashboard.NewService(dashboard.ServiceConfig{
		Repository: store,
		Owner:      "a@b.c",
		Clock:      func() time.Time { return fixedNow },
		Logger:     rec,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Login("github"))
	session := svc.Session()

	ctx := rec.SetValuesOnCtx(context.Background(), log.Kv{"cmd": "test"})
	created, err := svc.Create(ctx, task.Fields{Title: "logged"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 99))

	l, ok := rec.find(fmt.Sprintf("Task %d created", created.ID))
	require.True(t, ok)
	assert.Equal(t, "info", l.level)
	assert.Equal(t, session, l.values["session"])
	assert.Equal(t, "test", l.values["cmd"])
	assert.Equal(t, "dashboard.Service", l.values["svc"])

	l, ok = rec.find("Delete of unknown task 99 ignored")
	require.True(t, ok)
	assert.Equal(t, "warning", l.level)
	assert.Equal(t, session, l.values["session"])

	svc.Logout()
	l, ok = rec.find("Signed out")
	require.True(t, ok)
	assert.Equal(t, session, l.values["session"])
}

func TestRepositoryErrorsAreLogged(t *testing.T) {
	rec := newRecordingLogger()
	svc, err := dashboard.NewService(dashboard.ServiceConfig{Repository: failingRepo{}, Owner: "a@b.c", Logger: rec})
	require.NoError(t, err)
	require.NoError(t, svc.Login("google"))

	_, err = svc.View(context.Background(), "", task.FilterAll)
	require.Error(t, err)

	l, ok := rec.find("Could not list tasks: boom")
	require.True(t, ok)
	assert.Equal(t, "error", l.level)
	assert.Equal(t, svc.Session(), l.values["session"])
}

func TestRepositoryErrorsAreWrapped(t *testing.T) {
	svc, err := dashboard.NewService(dashboard.ServiceConfig{Repository: failingRepo{}, Owner: "a@b.c"})
	require.NoError(t, err)
	require.NoError(t, svc.Login("google"))
	ctx := context.Background()

	_, err = svc.View(ctx, "", task.FilterAll)
	assert.ErrorContains(t, err, "boom")
	_, err = svc.Create(ctx, task.Fields{Title: "x"})
	assert.ErrorContains(t, err, "boom")
	assert.ErrorContains(t, svc.Delete(ctx, 1), "boom")
	assert.ErrorContains(t, svc.SetStatus(ctx, 1, task.StatusTodo), "boom")
}
