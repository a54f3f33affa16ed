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
	Register(&ProfileCmd{})
}

// ProfileCmd implements the profile command.
type ProfileCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *ProfileCmd) SetFormat(format string) {
	c.format = format
}

func (c *ProfileCmd) Name() string       { return "profile" }
func (c *ProfileCmd) Aliases() []string  { return []string{"whoami"} }
func (c *ProfileCmd) Synopsis() string   { return "Show the profile name and picture" }
func (c *ProfileCmd) Usage() string      { return "taskdash profile [--format table|json|yaml]" }
func (c *ProfileCmd) NeedsBackend() bool { return true }
func (c *ProfileCmd) NeedsAuth() bool    { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", string(output.FormatTable), "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := output.FormatTable
	if c.format != "" {
		var err error
		if format, err = output.ParseFormat(c.format); err != nil {
			return userFailure(err, errOut)
		}
	}

	profile, err := svc.Profile(ctx)
	if err != nil {
		return backendFailure(ctx, cfg, err, errOut)
	}

	if err := output.WriteProfile(out, format, profile); err != nil {
		fmt.Fprintf(errOut, "error: failed to write output: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
