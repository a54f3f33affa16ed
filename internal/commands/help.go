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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
// The command list is built from the registry, DefaultRegistry if unset.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdash help" }
func (c *HelpCmd) NeedsBackend() bool { return false }
func (c *HelpCmd) NeedsAuth() bool    { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  taskdash                   List current tasks (same as: taskdash list)")
	fmt.Fprintln(out, "  taskdash <command> [common flags] [flags] [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range reg.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-26s %s\n", name, cmd.Synopsis())
		fmt.Fprintf(out, "      %s\n", cmd.Usage())
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Task references:
  3    third task of the current tab
  c3   third task of the completed tab (also: c 3)

Dates are YYYY-MM-DD in local time.

Common flags:
  --config <dir>    Override config directory
  --api-url <url>   Override the API base URL
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr

Environment:
  TASKDASH_API_URL    API base URL (default http://localhost:8000/api)
  TASKDASH_TIMEOUT    Per-request timeout (default 10s)
  TASKDASH_PASSWORD   Password used by login when --password is omitted
`
