package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Only flags that were given replace the task's current values.
type EditCmd struct {
	name    string
	created string
	due     string
}

// SetFields sets the --name, --created and --due values (for testing).
func (c *EditCmd) SetFields(name, created, due string) {
	c.name = name
	c.created = created
	c.due = due
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Edit a current task" }
func (c *EditCmd) Usage() string      { return "taskdash edit <ref> [--name <name>] [--created <date>] [--due <date>]" }
func (c *EditCmd) NeedsBackend() bool { return true }
func (c *EditCmd) NeedsAuth() bool    { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.name, "n", "", "")
	fs.StringVar(&c.created, "created", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.name == "" && c.created == "" && c.due == "" {
		fmt.Fprintln(errOut, "error: nothing to change (use --name, --created or --due)")
		return exitcode.UserError
	}

	task, ref, code := resolveTask(ctx, cfg, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if ref.Completed {
		fmt.Fprintf(errOut, "error: completed tasks cannot be edited: %s\n", ref)
		return exitcode.UserError
	}

	in := taskInputFrom(task)
	var err error
	if c.name != "" {
		in.Name = strings.TrimSpace(c.name)
	}
	if c.created != "" {
		if in.CreatedDate, err = parseDate("created", c.created); err != nil {
			return userFailure(err, errOut)
		}
	}
	if c.due != "" {
		if in.CompletionDate, err = parseDate("due", c.due); err != nil {
			return userFailure(err, errOut)
		}
	}
	if err := in.Validate(); err != nil {
		return userFailure(err, errOut)
	}

	if err := svc.UpdateTask(ctx, task.ID, in); err != nil {
		return backendFailure(ctx, cfg, err, errOut)
	}
	return refreshed(ctx, cfg, svc, "updated", out, errOut)
}
