package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"taskflow/internal/log"
	"taskflow/internal/storage"
	"taskflow/internal/task"
)

var (
	// ErrEmptyTitle is returned when a task is created without a title.
	ErrEmptyTitle = errors.New("title cannot be empty")
	// ErrNotSignedIn is returned by task operations before Login.
	ErrNotSignedIn = errors.New("not signed in")
)

// ServiceConfig is the configuration for the dashboard service.
type ServiceConfig struct {
	Repository storage.Repository
	// Owner is the address new tasks are assigned to.
	Owner string
	// Clock returns the current time. "Today" is derived from it once per call.
	Clock  func() time.Time
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "dashboard.Service"})
	return nil
}

// Service is one user's dashboard session: the signed-in flag plus the
// task operations the UI calls.
type Service struct {
	repo   storage.Repository
	owner  string
	clock  func() time.Time
	logger log.Logger

	mu            sync.Mutex
	provider      string
	session       string
	sessionLogger log.Logger
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:          cfg.Repository,
		owner:         cfg.Owner,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		sessionLogger: cfg.Logger,
	}, nil
}

func (s *Service) Owner() string { return s.owner }

// Today is the reference day for due and overdue checks.
func (s *Service) Today() task.Date {
	return task.DateOf(s.clock())
}

// Login accepts any provider name; there is no real authentication.
// Every login starts a new session id, carried by every later log line.
func (s *Service) Login(provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return fmt.Errorf("provider is required")
	}
	id := ulid.Make().String()
	s.mu.Lock()
	s.provider = provider
	s.session = id
	s.sessionLogger = s.logger.WithValues(log.Kv{"session": id})
	s.mu.Unlock()
	s.sessionLogger.Infof("Signed in with %s", provider)
	return nil
}

func (s *Service) Logout() {
	s.mu.Lock()
	logger := s.sessionLogger
	s.provider = ""
	s.session = ""
	s.sessionLogger = s.logger
	s.mu.Unlock()
	logger.Infof("Signed out")
}

// Session is the id of the current login, empty when signed out.
func (s *Service) Session() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider != ""
}

// Provider is the name the session signed in with, empty when signed out.
func (s *Service) Provider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// begin locks the service for one task operation and returns the session
// logger with the values carried by ctx. Callers must unlock mu.
func (s *Service) begin(ctx context.Context) (log.Logger, error) {
	s.mu.Lock()
	if s.provider == "" {
		s.mu.Unlock()
		return nil, ErrNotSignedIn
	}
	return s.sessionLogger.WithCtxValues(ctx), nil
}

// View is everything the dashboard renders for one query.
type View struct {
	Today  task.Date
	Query  string
	Filter task.Filter
	Tasks  []task.Task
	Stats  task.Stats
	// Counts has the unsearched match count of every known filter.
	Counts map[task.Filter]int
}

func (s *Service) View(ctx context.Context, query string, filter task.Filter) (View, error) {
	logger, err := s.begin(ctx)
	if err != nil {
		return View{}, err
	}
	defer s.mu.Unlock()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		logger.Errorf("Could not list tasks: %s", err)
		return View{}, fmt.Errorf("could not list tasks: %w", err)
	}

	today := s.Today()
	counts := make(map[task.Filter]int, len(task.Filters()))
	for _, f := range task.Filters() {
		counts[f] = task.Count(tasks, "", f, today)
	}
	v := View{
		Today:  today,
		Query:  query,
		Filter: filter,
		Tasks:  task.FilterTasks(tasks, query, filter, today),
		Stats:  task.ComputeStats(tasks, today),
		Counts: counts,
	}
	logger.Debugf("View %q/%s: %d of %d tasks", query, filter, len(v.Tasks), v.Stats.Total)
	return v, nil
}

func (s *Service) Create(ctx context.Context, f task.Fields) (task.Task, error) {
	logger, err := s.begin(ctx)
	if err != nil {
		return task.Task{}, err
	}
	defer s.mu.Unlock()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		logger.Errorf("Could not list tasks: %s", err)
		return task.Task{}, fmt.Errorf("could not list tasks: %w", err)
	}
	t, ok := task.Create(tasks, f, s.owner, s.Today())
	if !ok {
		return task.Task{}, ErrEmptyTitle
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		logger.Errorf("Could not create task %d: %s", t.ID, err)
		return task.Task{}, fmt.Errorf("could not create task: %w", err)
	}
	logger.Infof("Task %d created", t.ID)
	return t, nil
}

// Update applies patch to the task with id. Unknown ids are ignored.
func (s *Service) Update(ctx context.Context, id int, patch task.Patch) error {
	logger, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		logger.Errorf("Could not list tasks: %s", err)
		return fmt.Errorf("could not list tasks: %w", err)
	}
	updated, ok := task.Find(task.Update(tasks, id, patch), id)
	if !ok {
		logger.Warningf("Update of unknown task %d ignored", id)
		return nil
	}
	if err := s.repo.UpdateTask(ctx, updated); err != nil {
		logger.Errorf("Could not update task %d: %s", id, err)
		return fmt.Errorf("could not update task %d: %w", id, err)
	}
	logger.Infof("Task %d updated", id)
	return nil
}

func (s *Service) SetStatus(ctx context.Context, id int, status task.Status) error {
	return s.Update(ctx, id, task.StatusPatch(status))
}

// Delete removes the task with id. Unknown ids are ignored.
func (s *Service) Delete(ctx context.Context, id int) error {
	logger, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		logger.Errorf("Could not list tasks: %s", err)
		return fmt.Errorf("could not list tasks: %w", err)
	}
	if len(task.Delete(tasks, id)) == len(tasks) {
		logger.Warningf("Delete of unknown task %d ignored", id)
		return nil
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		logger.Errorf("Could not delete task %d: %s", id, err)
		return fmt.Errorf("could not delete task %d: %w", id, err)
	}
	logger.Infof("Task %d deleted", id)
	return nil
}
