package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

// now is replaced in tests.
var now = time.Now

// today returns local midnight of the current day.
func today() time.Time {
	return localDay(now())
}

// localDay returns local midnight of the day t falls on locally.
// The zero time stays zero.
func localDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// parseDate parses a YYYY-MM-DD flag value as local midnight.
func parseDate(flagName, value string) (time.Time, error) {
	t, err := time.ParseInLocation(output.DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date for --%s: %s (want YYYY-MM-DD)", flagName, value)
	}
	return t, nil
}

// backendFailure reports an API error and returns its exit code.
// A rejected token is removed so the next command asks for a login.
func backendFailure(ctx context.Context, cfg *config.Config, err error, errOut io.Writer) int {
	if errors.Is(err, service.ErrUnauthorized) {
		if rmErr := cfg.RemoveToken(); rmErr != nil {
			zerolog.Ctx(ctx).Debug().Err(rmErr).Msg("remove token")
		}
		fmt.Fprintln(errOut, "error: session expired (run: taskdash login)")
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}

// userFailure reports a bad argument or failed validation.
func userFailure(err error, errOut io.Writer) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// resolveTask parses a task reference from args and finds it in a fresh
// task list. On failure the error is already reported and code is non-zero.
func resolveTask(ctx context.Context, cfg *config.Config, svc service.Service, args []string, errOut io.Writer) (task service.Task, ref TaskRef, code int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return service.Task{}, ref, userFailure(err, errOut)
	}
	if extra := args[refArgCount(args):]; len(extra) > 0 {
		return service.Task{}, ref, userFailure(fmt.Errorf("unexpected argument: %s", extra[0]), errOut)
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return service.Task{}, ref, backendFailure(ctx, cfg, err, errOut)
	}

	task, err = lookupTask(tasks, ref)
	if err != nil {
		return service.Task{}, ref, userFailure(err, errOut)
	}
	return task, ref, exitcode.Success
}

// refreshed logs the completed action, prints the mutation result and
// refetches the task list. A failed refetch is reported as a warning; the
// mutation already succeeded.
func refreshed(ctx context.Context, cfg *config.Config, svc service.Service, action string, out, errOut io.Writer) int {
	zerolog.Ctx(ctx).Debug().Str("action", action).Msg("task changed")

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "warning: failed to refresh tasks: %v\n", err)
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	}

	if !cfg.Quiet {
		current := len(service.FilterTasks(tasks, false))
		fmt.Fprintln(out, "ok")
		fmt.Fprintf(out, "%d current, %d completed\n", current, len(tasks)-current)
	}
	return exitcode.Success
}

// taskInputFrom returns the editable fields of an existing task.
// Dates are cut to local days so they compare like --created and --due.
func taskInputFrom(t service.Task) service.TaskInput {
	return service.TaskInput{
		Name:           t.Name,
		CreatedDate:    localDay(t.CreatedDate),
		CompletionDate: localDay(t.CompletionDate),
	}
}
