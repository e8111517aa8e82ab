package cli

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/dashboard"
	"taskflow/internal/log"
	"taskflow/internal/storage"
	"taskflow/internal/task"
)

// cliProvider is the provider name headless commands sign in with.
const cliProvider = "cli"

type sessionOptions struct {
	interactive bool
	// today pins the reference day. Empty means the wall clock.
	today string
}

// session is one seeded dashboard service and the resources behind it.
type session struct {
	cfg     config.Config
	svc     *dashboard.Service
	logger  log.Logger
	store   *storage.Store
	release func() error
}

func openSession(ctx context.Context, opts *RootOptions, so sessionOptions) (*session, error) {
	clock := time.Now
	if so.today != "" {
		d, err := task.ParseDate(so.today)
		if err != nil {
			return nil, fmt.Errorf("invalid --today: %w", err)
		}
		clock = func() time.Time { return d.Time() }
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	logger, release, err := newLogger(opts, cfg, so.interactive)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Config loaded from %s", path)

	sess := &session{cfg: cfg, logger: logger, release: release}
	if err := sess.init(ctx, clock); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

func (s *session) init(ctx context.Context, clock func() time.Time) error {
	store, err := storage.Open(s.logger)
	if err != nil {
		return err
	}
	s.store = store

	seed, err := s.cfg.SeedTasks()
	if err != nil {
		return fmt.Errorf("could not load seed tasks: %w", err)
	}
	if err := store.Seed(ctx, seed); err != nil {
		return err
	}

	svc, err := dashboard.NewService(dashboard.ServiceConfig{
		Repository: store,
		Owner:      s.cfg.Owner,
		Clock:      clock,
		Logger:     s.logger,
	})
	if err != nil {
		return fmt.Errorf("could not create dashboard service: %w", err)
	}
	s.svc = svc
	return nil
}

func (s *session) Close() error {
	var err error
	if s.store != nil {
		err = s.store.Close()
	}
	if rerr := s.release(); err == nil {
		err = rerr
	}
	return err
}
