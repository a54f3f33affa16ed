package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "taskdash done <ref>" }
func (c *DoneCmd) NeedsBackend() bool { return true }
func (c *DoneCmd) NeedsAuth() bool    { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, ref, code := resolveTask(ctx, cfg, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if ref.Completed {
		fmt.Fprintf(errOut, "error: task already completed: %s\n", ref)
		return exitcode.UserError
	}

	if err := svc.CompleteTask(ctx, task.ID); err != nil {
		return backendFailure(ctx, cfg, err, errOut)
	}
	return refreshed(ctx, cfg, svc, "completed", out, errOut)
}
