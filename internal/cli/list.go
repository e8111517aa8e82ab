package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"taskflow/internal/log"
	"taskflow/internal/printer"
	"taskflow/internal/task"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type listOptions struct {
	filter string
	search string
	today  string
	format string
}

func newListCommand(root *RootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the session tasks",
		Long:  `List the seeded session tasks matching a filter and a case-insensitive search over title and description.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.filter, "filter", string(task.FilterAll), "filter: all, due-today, overdue, high-priority, in-progress, completed")
	cmd.Flags().StringVar(&opts.search, "search", "", "only tasks whose title or description contains this text")
	cmd.Flags().StringVar(&opts.today, "today", "", "reference day as YYYY-MM-DD (default the current date)")
	cmd.Flags().StringVar(&opts.format, "format", formatTable, "output format: table or json")
	return cmd
}

func runList(cmd *cobra.Command, root *RootOptions, opts *listOptions) error {
	filter := task.Filter(opts.filter)
	if !filter.Known() {
		return fmt.Errorf("unknown filter %q", opts.filter)
	}
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
	ctx = sess.logger.SetValuesOnCtx(ctx, log.Kv{"cmd": "list"})

	if err := sess.svc.Login(cliProvider); err != nil {
		return err
	}
	v, err := sess.svc.View(ctx, opts.search, filter)
	if err != nil {
		return err
	}

	if len(v.Tasks) == 0 && opts.format == formatTable {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
		return nil
	}
	return p.PrintTasks(v.Tasks, v.Today)
}

func newPrinter(format string, w io.Writer) (printer.Printer, error) {
	switch format {
	case formatTable:
		return printer.NewTablePrinter(w), nil
	case formatJSON:
		return printer.NewJSONPrinter(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
