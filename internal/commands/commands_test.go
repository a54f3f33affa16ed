package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
	"taskdash/internal/testutil"
)

// newConfig returns a config rooted in a temp dir.
func newConfig(t *testing.T, quiet bool) *config.Config {
	t.Helper()
	return &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}
}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runWithConfig(t, cmd, newConfig(t, quiet), svc, args)
}

func runWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, svc *testutil.FakeService, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// day returns local midnight.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// seed adds two current tasks around one completed task.
func seed(svc *testutil.FakeService) {
	svc.AddTask(service.Task{Name: "Buy milk", CreatedDate: day(2024, 5, 1), CompletionDate: day(2024, 5, 3)})
	svc.AddTask(service.Task{Name: "File taxes", CreatedDate: day(2024, 4, 20), CompletionDate: day(2024, 4, 22), Completed: true})
	svc.AddTask(service.Task{Name: "Call mom", CreatedDate: day(2024, 5, 2)})
}

// newFlagSet registers cmd's flags the way the dispatcher does.
func newFlagSet(cmd commands.Command) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	return fs
}

func fixedNow(t *testing.T) {
	t.Helper()
	restore := commands.SetNow(func() time.Time {
		return time.Date(2024, 5, 1, 15, 30, 0, 0, time.Local)
	})
	t.Cleanup(restore)
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdash 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "signup (register)", "taskdash upload <image-file>", "--api-url"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestHelpCommand_CustomRegistry(t *testing.T) {
	reg := commands.NewRegistry()
	if err := reg.Register(&commands.VersionCmd{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	stdout, _, _ := runCommand(t, &commands.HelpCmd{Registry: reg}, nil, nil, false)
	if !strings.Contains(stdout, "taskdash version") {
		t.Error("expected version usage in help output")
	}
	if strings.Contains(stdout, "taskdash add") {
		t.Error("expected only registered commands in help output")
	}
}

func TestRegistry_DuplicateAlias(t *testing.T) {
	reg := commands.NewRegistry()
	if err := reg.Register(&commands.AddCmd{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := reg.Register(&commands.AddCmd{})
	if err == nil || err.Error() != "command already registered: add" {
		t.Errorf("unexpected error: %v", err)
	}
	if cmd, ok := reg.Find("create"); !ok || cmd.Name() != "add" {
		t.Error("expected alias create to resolve to add")
	}
	if n := len(reg.All()); n != 1 {
		t.Errorf("expected 1 unique command, got %d", n)
	}
}

// Tests for list command
func TestListCommand_CurrentTab(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "    #  CREATED     COMPLETION  NAME\n" +
		"    1  2024-05-01  2024-05-03  Buy milk\n" +
		"    2  2024-05-02  -           Call mom\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_AllTabs(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.ListCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--all"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	stdout, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	testutil.Golden(t, "list_all", stdout)
}

func TestListCommand_CompletedTab(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.ListCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--completed"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	stdout, _, code := runCommand(t, cmd, svc, fs.Args(), false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "    #  CREATED     COMPLETION  NAME\n" +
		"   c1  2024-04-20  2024-04-22  File taxes\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_CompletedAndAll_Error(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--completed", "--all"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: cannot use both --completed and --all\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.ListTasksCalls != 0 {
		t.Errorf("expected no fetch, got %d", svc.ListTasksCalls)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	// Quiet mode should suppress "no tasks found"
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_JSON(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.ListCmd{}
	cmd.SetFormat("json")
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}

	var views []output.TaskView
	if err := json.Unmarshal([]byte(stdout), &views); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 current tasks, got %d", len(views))
	}
	if views[1].Ref != "2" || views[1].Name != "Call mom" || views[1].CompletionDate != "" {
		t.Errorf("unexpected view %+v", views[1])
	}
	if !strings.Contains(stdout, `"created_date": "2024-05-02"`) {
		t.Errorf("expected indented created_date in %q", stdout)
	}
}

func TestListCommand_YAMLEmpty(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	cmd.SetFormat("yaml")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "[]\n" {
		t.Errorf("expected empty yaml sequence, got %q", stdout)
	}
}

func TestListCommand_InvalidFormat(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	cmd.SetFormat("xml")
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid format: xml (want table, json or yaml)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("Failed to fetch tasks")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: Failed to fetch tasks\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_UnauthorizedClearsToken(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = service.ErrUnauthorized
	cfg := newConfig(t, false)
	if err := cfg.SaveToken("stale"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	_, stderr, code := runWithConfig(t, &commands.ListCmd{}, cfg, svc, nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired (run: taskdash login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if cfg.HasToken() {
		t.Error("expected token to be removed")
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	fixedNow(t)
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetDates("", "2024-05-03")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "groceries"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n1 current, 0 completed\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	task, ok := svc.Task("1")
	if !ok {
		t.Fatal("expected task to be created")
	}
	if task.Name != "Buy groceries" {
		t.Errorf("expected name 'Buy groceries', got %q", task.Name)
	}
	if !task.CreatedDate.Equal(day(2024, 5, 1)) {
		t.Errorf("expected created date to default to today, got %v", task.CreatedDate)
	}
	if !task.CompletionDate.Equal(day(2024, 5, 3)) {
		t.Errorf("unexpected completion date %v", task.CompletionDate)
	}
	if svc.ListTasksCalls != 1 {
		t.Errorf("expected one refetch, got %d", svc.ListTasksCalls)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetDates("2024-05-01", "2024-05-01")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
	// The list is refetched even when nothing is printed.
	if svc.ListTasksCalls != 1 {
		t.Errorf("expected one refetch, got %d", svc.ListTasksCalls)
	}
}

func TestAddCommand_NoName(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetDates("", "2024-05-03")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"  "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task name is required\n" {
		t.Errorf("expected name required error, got %q", stderr)
	}
	if svc.TaskCount() != 0 {
		t.Error("expected no task to be created")
	}
}

func TestAddCommand_NoDueDate(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Plan"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: completion date is required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_DueBeforeCreated(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetDates("2024-05-03", "2024-05-01")
	_, stderr, code := runCommand(t, cmd, svc, []string{"Plan"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: completion date cannot be earlier than creation date\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.TaskCount() != 0 {
		t.Error("expected no task to be created")
	}
}

func TestAddCommand_InvalidDate(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetDates("", "tomorrow")
	_, stderr, code := runCommand(t, cmd, svc, []string{"Plan"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid date for --due: tomorrow (want YYYY-MM-DD)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errors.New("Failed to create task")

	cmd := &commands.AddCmd{}
	cmd.SetDates("2024-05-01", "2024-05-02")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Plan"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: Failed to create task\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.ListTasksCalls != 0 {
		t.Errorf("expected no refetch after a failed create, got %d", svc.ListTasksCalls)
	}
}

func TestAddCommand_RefreshFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("Failed to fetch tasks")

	cmd := &commands.AddCmd{}
	cmd.SetDates("2024-05-01", "2024-05-02")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Plan"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if stderr != "warning: failed to refresh tasks: Failed to fetch tasks\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.TaskCount() != 1 {
		t.Error("expected task to be created")
	}
}

// Tests for edit command
func TestEditCommand_Name(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.EditCmd{}
	cmd.SetFields("  Buy oat milk ", "", "")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n2 current, 1 completed\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	task, _ := svc.Task("1")
	if task.Name != "Buy oat milk" {
		t.Errorf("expected renamed task, got %q", task.Name)
	}
	if !task.CreatedDate.Equal(day(2024, 5, 1)) || !task.CompletionDate.Equal(day(2024, 5, 3)) {
		t.Errorf("expected dates to be kept, got %v / %v", task.CreatedDate, task.CompletionDate)
	}
	// One fetch to resolve the reference, one after the update.
	if svc.ListTasksCalls != 2 {
		t.Errorf("expected 2 fetches, got %d", svc.ListTasksCalls)
	}
}

func TestEditCommand_Dates(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.EditCmd{}
	cmd.SetFields("", "2024-05-02", "2024-05-09")
	_, stderr, code := runCommand(t, cmd, svc, []string{"2"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	task, _ := svc.Task("3")
	if task.Name != "Call mom" || !task.CompletionDate.Equal(day(2024, 5, 9)) {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestEditCommand_CompletedTask(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.EditCmd{}
	cmd.SetFields("Renamed", "", "")
	_, stderr, code := runCommand(t, cmd, svc, []string{"c1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: completed tasks cannot be edited: c1\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to change (use --name, --created or --due)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_DueBeforeCreated(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.EditCmd{}
	cmd.SetFields("", "", "2024-04-01")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: completion date cannot be earlier than creation date\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if task, _ := svc.Task("1"); !task.CompletionDate.Equal(day(2024, 5, 3)) {
		t.Error("expected task to be unchanged")
	}
}

func TestEditCommand_DueSameDayAsTimedCreation(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Name: "Plan", CreatedDate: time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local)})

	cmd := &commands.EditCmd{}
	cmd.SetFields("", "", "2024-05-01")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	task, _ := svc.Task("1")
	if !task.CreatedDate.Equal(day(2024, 5, 1)) {
		t.Errorf("expected creation date cut to the local day, got %v", task.CreatedDate)
	}
	if !task.CompletionDate.Equal(day(2024, 5, 1)) {
		t.Errorf("unexpected completion date %v", task.CompletionDate)
	}
}

func TestEditCommand_OutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	cmd := &commands.EditCmd{}
	cmd.SetFields("x", "", "")
	_, stderr, code := runCommand(t, cmd, svc, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: 5\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n1 current, 2 completed\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if task, _ := svc.Task("1"); !task.Completed {
		t.Error("expected task to be completed")
	}
	if svc.ListTasksCalls != 2 {
		t.Errorf("expected 2 fetches, got %d", svc.ListTasksCalls)
	}
}

func TestDoneCommand_AlreadyCompleted(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"c", "1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task already completed: c1\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required error, got %q", stderr)
	}
}

func TestDoneCommand_InvalidRef(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"abc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task reference: abc\n" {
		t.Errorf("expected invalid task reference error, got %q", stderr)
	}
	if svc.ListTasksCalls != 0 {
		t.Error("expected no fetch for an invalid reference")
	}
}

func TestDoneCommand_ExtraArgument(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1", "2"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: 2\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)
	svc.CompleteTaskErr = errors.New("Failed to mark task as complete")

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"2"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Failed to mark task as complete\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_CurrentTask(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n1 current, 1 completed\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if _, ok := svc.Task("3"); ok {
		t.Error("expected task 3 to be deleted")
	}
}

func TestRmCommand_DebugLogsAction(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	var logBuf, outBuf, errBuf bytes.Buffer
	ctx := zerolog.New(&logBuf).Level(zerolog.DebugLevel).WithContext(context.Background())
	code := (&commands.RmCmd{}).Run(ctx, newConfig(t, true), svc, []string{"1"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, errBuf.String())
	}
	if !strings.Contains(logBuf.String(), `"action":"deleted"`) {
		t.Errorf("expected deleted action in debug log, got %q", logBuf.String())
	}
}

func TestRmCommand_CompletedTask(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)

	_, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"c1"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if _, ok := svc.Task("2"); ok {
		t.Error("expected completed task to be deleted")
	}
	if svc.TaskCount() != 2 {
		t.Errorf("expected 2 tasks remaining, got %d", svc.TaskCount())
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required error, got %q", stderr)
	}
}

func TestRmCommand_NotFound(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc)
	svc.DeleteTaskErr = errors.New("Task not found")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Task not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_ListUnauthorized(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = service.ErrUnauthorized

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired (run: taskdash login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for profile command
func TestProfileCommand_Table(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetProfile(service.Profile{Name: "Ada", ImageURL: "https://cdn.example.com/ada.png"})

	stdout, stderr, code := runCommand(t, &commands.ProfileCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "Name:  Ada\nImage: https://cdn.example.com/ada.png\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestProfileCommand_NoImage(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, _ := runCommand(t, &commands.ProfileCmd{}, svc, nil, false)

	if stdout != "Name:  User\nImage: (none)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestProfileCommand_YAML(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetProfile(service.Profile{Name: "Ada", ImageURL: "https://cdn.example.com/ada.png"})

	cmd := &commands.ProfileCmd{}
	cmd.SetFormat("yaml")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}

	var view output.ProfileView
	if err := yaml.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("invalid yaml %q: %v", stdout, err)
	}
	if view.Name != "Ada" || view.ImageURL != "https://cdn.example.com/ada.png" {
		t.Errorf("unexpected profile %+v", view)
	}
}

func TestProfileCommand_UnauthorizedClearsToken(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ProfileErr = service.ErrUnauthorized
	cfg := newConfig(t, false)
	if err := cfg.SaveToken("stale"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	_, stderr, code := runWithConfig(t, &commands.ProfileCmd{}, cfg, svc, nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired (run: taskdash login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if cfg.HasToken() {
		t.Error("expected token to be removed")
	}
}

func TestProfileCommand_BackendErrorKeepsToken(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ProfileErr = errors.New("Failed to fetch profile info")
	cfg := newConfig(t, false)
	if err := cfg.SaveToken("tok"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	_, stderr, code := runWithConfig(t, &commands.ProfileCmd{}, cfg, svc, nil)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Failed to fetch profile info\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if !cfg.HasToken() {
		t.Error("expected token to be kept")
	}
}
