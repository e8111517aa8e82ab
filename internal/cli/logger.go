package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"taskflow/internal/config"
	"taskflow/internal/log"
	loglogrus "taskflow/internal/log/logrus"
)

// newLogger returns the application logger and a func releasing its output.
//
// The dashboard owns the terminal, so interactive sessions only log when the
// config names a log file. Printer commands stay quiet unless --debug is set
// so logs never mix with their output.
func newLogger(opts *RootOptions, cfg config.Config, interactive bool) (log.Logger, func() error, error) {
	release := func() error { return nil }
	if opts.NoLog || (!interactive && !opts.Debug) {
		return log.Noop, release, nil
	}

	var out io.Writer = opts.Stderr
	if interactive {
		if cfg.LogFile == "" {
			return log.Noop, release, nil
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = f
		release = f.Close
	}

	logrusLog := logrus.New()
	logrusLog.Out = out
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if opts.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	switch opts.LoggerType {
	case LoggerTypeDefault, "":
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: interactive,
		})
	case LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		release()
		return nil, nil, fmt.Errorf("unknown logger type %q", opts.LoggerType)
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})
	logger.Debugf("Debug level is enabled")
	return logger, release, nil
}
