package cli

import (
	"github.com/spf13/cobra"

	"taskflow/internal/log"
	"taskflow/internal/task"
)

type statsOptions struct {
	today  string
	format string
}

func newStatsCommand(root *RootOptions) *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the session summary counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.today, "today", "", "reference day as YYYY-MM-DD (default the current date)")
	cmd.Flags().StringVar(&opts.format, "format", formatTable, "output format: table or json")
	return cmd
}

func runStats(cmd *cobra.Command, root *RootOptions, opts *statsOptions) error {
	p, err := newPrinter(opts.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, root, sessionOptions{today: opts.today})
	if err != nil {
		return err
	}
	defer sess.Close()
	ctx = sess.logger.SetValuesOnCtx(ctx, log.Kv{"cmd": "stats"})

	if err := sess.svc.Login(cliProvider); err != nil {
		return err
	}
	v, err := sess.svc.View(ctx, "", task.FilterAll)
	if err != nil {
		return err
	}
	return p.PrintStats(v.Stats, v.Counts)
}
