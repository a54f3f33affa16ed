package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the --email and --password values (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Log in and store the session token" }
func (c *LoginCmd) Usage() string      { return "taskdash login --email <email> [--password <password>]" }
func (c *LoginCmd) NeedsBackend() bool { return true }
func (c *LoginCmd) NeedsAuth() bool    { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	creds := service.Credentials{
		Email:    strings.TrimSpace(c.email),
		Password: c.password,
	}
	if creds.Password == "" {
		// TASKDASH_PASSWORD keeps the password out of shell history.
		creds.Password = cfg.Password
	}
	if err := creds.Validate(); err != nil {
		return userFailure(err, errOut)
	}

	token, err := svc.Login(ctx, creds)
	if err != nil {
		return sessionFailure(err, errOut)
	}
	return storeSession(ctx, cfg, token, out, errOut)
}

// sessionFailure reports a failed login or signup. Unlike backendFailure it
// leaves any stored token alone: a 401 here means bad credentials.
func sessionFailure(err error, errOut io.Writer) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	if errors.Is(err, service.ErrUnauthorized) {
		return exitcode.AuthError
	}
	return exitcode.BackendError
}

// storeSession saves token to token.json in the config directory.
func storeSession(ctx context.Context, cfg *config.Config, token string, out, errOut io.Writer) int {
	if err := cfg.SaveToken(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	zerolog.Ctx(ctx).Debug().Str("path", cfg.TokenPath()).Msg("session stored")

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
