package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"taskchain/internal/commands"
	"taskchain/internal/config"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
	"taskchain/internal/testutil"
)

// runCommand is a helper to run a command over a FakeBackend.
func runCommand(t *testing.T, cmd commands.Command, backend *testutil.FakeBackend, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var store service.Store
	if backend != nil {
		store = service.NewClient(backend, nil)
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, store, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// parseFlags registers cmd's flags and parses args, returning positionals.
func parseFlags(t *testing.T, cmd commands.Command, args ...string) []string {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs.Args()
}

func seeded() *testutil.FakeBackend {
	b := testutil.NewFakeBackend()
	b.AddTask("Buy milk", "2 litres", service.StatusPending)
	b.AddTask("Write report", "quarterly numbers", service.StatusOngoing)
	b.AddTask("Call plumber", "kitchen sink", service.StatusCancelled)
	b.AddTask("File taxes", "before april", service.StatusCompleted)
	return b
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
	if stdout != "taskchain 0.1.0\n" {
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
	for _, want := range []string{"Usage:", "taskchain edit", "Pending, Ongoing, Cancelled, Completed"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_all", stdout)
}

func TestListCommand_StatusFilter(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetStatus("ongoing")

	stdout, _, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	// Numbering follows the full listing.
	if stdout != "   2  Write report - quarterly numbers (Ongoing)\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListCommand_BadStatus(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetStatus("blocked")

	_, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown status: blocked\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeBackend(), nil, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.ListCmd{}, testutil.NewFakeBackend(), nil, true)
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	backend := seeded()
	backend.ListErr = errors.New("connection refused")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, backend, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: list: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), []string{"work"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	backend := testutil.NewFakeBackend()
	cmd := &commands.AddCmd{}
	args := parseFlags(t, cmd, "--description", "2 litres", "-s", "ongoing", "Buy", "milk")

	stdout, stderr, code := runCommand(t, cmd, backend, args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	tasks := backend.Tasks()
	want := service.Task{ID: "1", Name: "Buy milk", Description: "2 litres", Status: service.StatusOngoing}
	if len(tasks) != 1 || tasks[0] != want {
		t.Errorf("expected %+v, got %+v", want, tasks)
	}
	if got := strings.Join(backend.CallOps(), ","); got != "create,list" {
		t.Errorf("expected create then list, got %s", got)
	}
}

func TestAddCommand_DefaultStatusPending(t *testing.T) {
	backend := testutil.NewFakeBackend()
	cmd := &commands.AddCmd{}
	cmd.SetDescription("d")

	_, _, code := runCommand(t, cmd, backend, []string{"n"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if tasks := backend.Tasks(); len(tasks) != 1 || tasks[0].Status != service.StatusPending {
		t.Errorf("expected a Pending task, got %+v", tasks)
	}
}

func TestAddCommand_Validation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		description string
		status      string
		want        string
	}{
		{name: "no name", description: "d", want: "error: name required\n"},
		{name: "blank name", args: []string{"  "}, description: "d", want: "error: name required\n"},
		{name: "no description", args: []string{"n"}, want: "error: description required\n"},
		{name: "bad status", args: []string{"n"}, description: "d", status: "later", want: "error: unknown status: later\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend()
			cmd := &commands.AddCmd{}
			cmd.SetDescription(tt.description)
			cmd.SetStatus(tt.status)

			_, stderr, code := runCommand(t, cmd, backend, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if len(backend.Calls()) != 0 {
				t.Errorf("expected no remote calls, got %v", backend.CallOps())
			}
		})
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.CreateErr = errors.New("HTTP 503")
	cmd := &commands.AddCmd{}
	cmd.SetDescription("d")

	_, stderr, code := runCommand(t, cmd, backend, []string{"n"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: create: HTTP 503\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	backend := seeded()
	cmd := &commands.EditCmd{}
	args := parseFlags(t, cmd, "--status", "completed", "2")

	stdout, stderr, code := runCommand(t, cmd, backend, args, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	got := backend.Tasks()[1]
	want := service.Task{ID: "2", Name: "Write report", Description: "quarterly numbers", Status: service.StatusCompleted}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if ops := strings.Join(backend.CallOps(), ","); ops != "list,update,list" {
		t.Errorf("expected list,update,list, got %s", ops)
	}
}

func TestEditCommand_ByIDAllFields(t *testing.T) {
	backend := seeded()
	cmd := &commands.EditCmd{}
	cmd.SetName("Buy oat milk")
	cmd.SetDescription("1 litre")
	cmd.SetStatus("Ongoing")

	_, stderr, code := runCommand(t, cmd, backend, []string{"#1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr)
	}
	want := service.Task{ID: "1", Name: "Buy oat milk", Description: "1 litre", Status: service.StatusOngoing}
	if got := backend.Tasks()[0]; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*commands.EditCmd)
		args  []string
		code  int
		want  string
	}{
		{
			name: "nothing to change",
			args: []string{"1"},
			code: exitcode.UserError,
			want: "error: nothing to change (use --name, --description or --status)\n",
		},
		{
			name:  "missing ref",
			setup: func(c *commands.EditCmd) { c.SetName("x") },
			code:  exitcode.UserError,
			want:  "error: task reference required\n",
		},
		{
			name:  "out of range",
			setup: func(c *commands.EditCmd) { c.SetName("x") },
			args:  []string{"9"},
			code:  exitcode.UserError,
			want:  "error: task number out of range: 9\n",
		},
		{
			name:  "bad status",
			setup: func(c *commands.EditCmd) { c.SetStatus("soon") },
			args:  []string{"1"},
			code:  exitcode.UserError,
			want:  "error: unknown status: soon\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := seeded()
			cmd := &commands.EditCmd{}
			if tt.setup != nil {
				tt.setup(cmd)
			}

			_, stderr, code := runCommand(t, cmd, backend, tt.args, false)

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			for _, op := range backend.CallOps() {
				if op != "list" {
					t.Errorf("expected no mutation, got %v", backend.CallOps())
				}
			}
		})
	}
}

func TestEditCommand_BackendError(t *testing.T) {
	backend := seeded()
	backend.UpdateErr = errors.New("conflict")
	cmd := &commands.EditCmd{}
	cmd.SetName("x")

	_, stderr, code := runCommand(t, cmd, backend, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: backend error: update: conflict") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if backend.Tasks()[0].Name != "Buy milk" {
		t.Error("expected task unchanged")
	}
}

// Tests for done command
func TestDoneCommand(t *testing.T) {
	backend := seeded()

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, backend, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if got := backend.Tasks()[0]; got.Status != service.StatusCompleted || got.Description != "2 litres" {
		t.Errorf("expected completed task with description kept, got %+v", got)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ShowCmd{}, seeded(), []string{"3"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	testutil.GoldenString(t, "show_task", stdout)
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	backend := seeded()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, backend, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if _, ok := findTask(backend, "2"); ok {
		t.Error("expected task 2 deleted")
	}
	if ops := strings.Join(backend.CallOps(), ","); ops != "list,delete,list" {
		t.Errorf("expected list,delete,list, got %s", ops)
	}
}

func TestRmCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.RmCmd{}, seeded(), []string{"id:4"}, true)
	if code != exitcode.Success || stdout != "" {
		t.Errorf("expected silent success, got %d %q", code, stdout)
	}
}

func TestRmCommand_NotFound(t *testing.T) {
	backend := seeded()

	_, stderr, code := runCommand(t, &commands.RmCmd{}, backend, []string{"nope"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(backend.Tasks()) != 4 {
		t.Error("expected no deletion")
	}
}

func TestRmCommand_BackendError(t *testing.T) {
	backend := seeded()
	backend.DeleteErr = errors.New("forbidden")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, backend, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: delete: forbidden\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for registry
func TestRegistry(t *testing.T) {
	for _, name := range []string{"list", "ls", "add", "create", "edit", "update", "done", "show", "rm", "delete", "ui", "login", "logout", "help", "version"} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("expected command %q registered", name)
		}
	}
	for _, name := range []string{"lists", "createlist", "rmlist"} {
		if _, ok := commands.DefaultRegistry.Find(name); ok {
			t.Errorf("did not expect command %q", name)
		}
	}
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if got := len(r.All()); got != 1 {
		t.Errorf("expected 1 command, got %d", got)
	}
}

func findTask(b *testutil.FakeBackend, id string) (service.Task, bool) {
	for _, t := range b.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

func TestRegistry_WriteSummary(t *testing.T) {
	r := commands.NewRegistry()
	r.Register(&commands.RmCmd{})
	r.Register(&commands.DoneCmd{})

	var buf bytes.Buffer
	r.WriteSummary(&buf)

	want := "  done" + strings.Repeat(" ", 9) + "Mark a task completed\n" +
		"  rm (delete)  Delete a task\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
