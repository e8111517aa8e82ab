package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"taskflow/internal/log"
	"taskflow/internal/task"
)

var ErrNotFound = errors.New("not found")

// Repository is the session's task table.
type Repository interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, t task.Task) error
	UpdateTask(ctx context.Context, t task.Task) error
	DeleteTask(ctx context.Context, id int) error
}

// memoryDSN opens a private in-memory database. It lives as long as the
// single pooled connection does, so nothing outlives the process.
const memoryDSN = "file::memory:?_pragma=busy_timeout(5000)"

type Store struct {
	db     *sql.DB
	logger log.Logger
}

func Open(logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Noop
	}
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	s := &Store{db: db, logger: logger.WithValues(log.Kv{"svc": "storage.SQLite"})}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT 'medium',
	status TEXT NOT NULL DEFAULT 'todo',
	due_date TEXT NOT NULL,
	assigned_to TEXT NOT NULL DEFAULT '',
	shared_with TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Seed inserts tasks in one transaction.
func (s *Store) Seed(ctx context.Context, tasks []task.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range tasks {
		if err := insertTask(ctx, tx, t); err != nil {
			return fmt.Errorf("could not seed task %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debugf("Seeded %d tasks", len(tasks))
	return nil
}

func (s *Store) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, priority, status, due_date, assigned_to, shared_with, created_at FROM tasks ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var priority, status, dueStr, shared, createdStr string

		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &dueStr, &t.AssignedTo, &shared, &createdStr); err != nil {
			return nil, err
		}
		t.Priority = task.Priority(priority)
		t.Status = task.Status(status)
		if parsed, err := task.ParseDate(dueStr); err == nil {
			t.DueDate = parsed
		}
		if parsed, err := task.ParseDate(createdStr); err == nil {
			t.CreatedAt = parsed
		}
		if t.SharedWith, err = decodeShared(shared); err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) CreateTask(ctx context.Context, t task.Task) error {
	if err := insertTask(ctx, s.db, t); err != nil {
		return err
	}
	s.logger.Debugf("Created task %d", t.ID)
	return nil
}

// UpdateTask replaces every mutable column of the stored task.
func (s *Store) UpdateTask(ctx context.Context, t task.Task) error {
	shared, err := encodeShared(t.SharedWith)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?, due_date = ?, shared_with = ? WHERE id = ?;`,
		t.Title, t.Description, string(t.Priority), string(t.Status), t.DueDate.String(), shared, t.ID)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, t.ID); err != nil {
		return err
	}
	s.logger.Debugf("Updated task %d", t.ID)
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, id); err != nil {
		return err
	}
	s.logger.Debugf("Deleted task %d", id)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTask(ctx context.Context, db execer, t task.Task) error {
	shared, err := encodeShared(t.SharedWith)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, title, description, priority, status, due_date, assigned_to, shared_with, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status), t.DueDate.String(), t.AssignedTo, shared, t.CreatedAt.String())
	return err
}

func expectOneRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

// shared_with holds a JSON array so addresses may contain any character.
func encodeShared(emails []string) (string, error) {
	if emails == nil {
		emails = []string{}
	}
	b, err := json.Marshal(emails)
	if err != nil {
		return "", fmt.Errorf("could not encode shared_with: %w", err)
	}
	return string(b), nil
}

func decodeShared(v string) ([]string, error) {
	emails := []string{}
	if strings.TrimSpace(v) == "" {
		return emails, nil
	}
	if err := json.Unmarshal([]byte(v), &emails); err != nil {
		return nil, fmt.Errorf("could not decode shared_with: %w", err)
	}
	return emails, nil
}
