package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"taskflow/internal/log"
	"taskflow/internal/ui"
)

// Version is the application version (set via ldflags).
var Version = "dev"

const (
	LoggerTypeDefault = "default"
	LoggerTypeJSON    = "json"
)

// RootOptions are the global flags shared by every command.
type RootOptions struct {
	ConfigPath string
	Debug      bool
	NoLog      bool
	LoggerType string

	Stdout io.Writer
	Stderr io.Writer
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskflow",
		Short:         "Task dashboard for the terminal",
		Long:          `TaskFlow keeps a session task list with filters, search and stats. Run it without a command to open the dashboard.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default $TASKFLOW_CONFIG or the user config dir)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.NoLog, "no-log", false, "disable logging")
	flags.StringVar(&opts.LoggerType, "logger", LoggerTypeDefault, "log format: default or json")

	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	return cmd
}

func runDashboard(ctx context.Context, opts *RootOptions) error {
	sess, err := openSession(ctx, opts, sessionOptions{interactive: true})
	if err != nil {
		return err
	}
	defer sess.Close()
	ctx = sess.logger.SetValuesOnCtx(ctx, log.Kv{"cmd": "dashboard"})

	sess.logger.Infof("Dashboard started")
	if err := ui.Run(ctx, sess.svc, sess.cfg); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	sess.logger.Infof("Dashboard stopped")
	return nil
}

// Execute parses args and runs the selected command until it finishes or
// the process is signalled.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts := &RootOptions{Stdout: stdout, Stderr: stderr}
	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				return rootCmd.ExecuteContext(ctx)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}
