package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
// Both tabs can be addressed: "3" or "c3".
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "taskdash rm <ref>" }
func (c *RmCmd) NeedsBackend() bool { return true }
func (c *RmCmd) NeedsAuth() bool    { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, _, code := resolveTask(ctx, cfg, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		return backendFailure(ctx, cfg, err, errOut)
	}
	return refreshed(ctx, cfg, svc, "deleted", out, errOut)
}
