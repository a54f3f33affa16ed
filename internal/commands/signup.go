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
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	name     string
	email    string
	password string
	confirm  string
}

// SetFields sets the signup form values (for testing).
func (c *SignupCmd) SetFields(name, email, password, confirm string) {
	c.name = name
	c.email = email
	c.password = password
	c.confirm = confirm
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account and log in" }
func (c *SignupCmd) Usage() string {
	return "taskdash signup --name <name> --email <email> --password <password> --confirm <password>"
}
func (c *SignupCmd) NeedsBackend() bool { return true }
func (c *SignupCmd) NeedsAuth() bool    { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	reg := service.Registration{
		Name:                 strings.TrimSpace(c.name),
		Email:                strings.TrimSpace(c.email),
		Password:             c.password,
		PasswordConfirmation: c.confirm,
	}
	if err := reg.Validate(); err != nil {
		return userFailure(err, errOut)
	}

	token, err := svc.Register(ctx, reg)
	if err != nil {
		return sessionFailure(err, errOut)
	}
	return storeSession(ctx, cfg, token, out, errOut)
}
