package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdash` (no args) and `taskdash list`.
type ListCmd struct {
	completed bool
	all       bool
	format    string
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskdash list [--completed | --all] [--format table|json|yaml]" }
func (c *ListCmd) NeedsBackend() bool { return true }
func (c *ListCmd) NeedsAuth() bool    { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.completed, "completed", false, "")
	fs.BoolVar(&c.completed, "c", false, "")
	fs.BoolVar(&c.all, "all", false, "")
	fs.StringVar(&c.format, "format", string(output.FormatTable), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.completed && c.all {
		fmt.Fprintln(errOut, "error: cannot use both --completed and --all")
		return exitcode.UserError
	}

	format := output.FormatTable
	if c.format != "" {
		var err error
		if format, err = output.ParseFormat(c.format); err != nil {
			return userFailure(err, errOut)
		}
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return backendFailure(ctx, cfg, err, errOut)
	}

	if format != output.FormatTable {
		if !c.all {
			tasks = service.FilterTasks(tasks, c.completed)
		}
		if err := output.WriteStructured(out, format, output.NewTaskViews(tasks)); err != nil {
			fmt.Fprintf(errOut, "error: failed to write output: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	}

	if c.all {
		output.FormatSectionHeader(out, "Current")
		c.writeTab(cfg, out, service.FilterTasks(tasks, false), false)
		output.FormatSectionHeader(out, "Completed")
		c.writeTab(cfg, out, service.FilterTasks(tasks, true), true)
		return exitcode.Success
	}

	c.writeTab(cfg, out, service.FilterTasks(tasks, c.completed), c.completed)
	return exitcode.Success
}

// writeTab prints one tab as a table, or "no tasks found" when it is empty.
func (c *ListCmd) writeTab(cfg *config.Config, out io.Writer, tasks []service.Task, completed bool) {
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return
	}
	output.FormatTaskTable(out, tasks, completed)
}
