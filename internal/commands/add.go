package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	created string
	due     string
}

// SetDates sets the --created and --due values (for testing).
func (c *AddCmd) SetDates(created, due string) {
	c.created = created
	c.due = due
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskdash add --due <date> [--created <date>] <name...>" }
func (c *AddCmd) NeedsBackend() bool { return true }
func (c *AddCmd) NeedsAuth() bool    { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.created, "created", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := service.TaskInput{
		Name:        strings.TrimSpace(strings.Join(args, " ")),
		CreatedDate: today(),
	}

	var err error
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

	if err := svc.CreateTask(ctx, in); err != nil {
		return backendFailure(ctx, cfg, err, errOut)
	}
	return refreshed(ctx, cfg, svc, "created", out, errOut)
}
