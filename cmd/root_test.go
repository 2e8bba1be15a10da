package cmd

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	runErr := fn()
	_ = w.Close()

	output, readErr := io.ReadAll(r)
	_ = r.Close()
	if readErr != nil {
		t.Fatalf("ReadAll() error = %v", readErr)
	}

	return string(output), runErr
}

// setup isolates config discovery and returns a tasks file path in a
// fresh directory.
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{
		"TASKLIST_FILE", "TASKLIST_FORMAT", "TASKLIST_NO_COLOR", "NO_COLOR",
		"TASKLIST_LOG_LEVEL", "TASKLIST_LOG_FORMAT", "TASKLIST_LOG_TIMESTAMPS", "TASKLIST_LOG_CALLER",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("TASKLIST_LOG_LEVEL", "error")
	// Equivalent of t.Chdir (Go 1.24+) for older toolchains.
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", work)
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	return filepath.Join(work, "tasks.json")
}

func run(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	return captureStdout(t, func() error {
		return Run(context.Background(), append([]string{"-file", path}, args...))
	})
}

func mustRun(t *testing.T, path string, args ...string) string {
	t.Helper()
	out, err := run(t, path, args...)
	if err != nil {
		t.Fatalf("Run(%v) failed: %v\noutput: %s", args, err, out)
	}
	return out
}

func TestRunHelpAndVersion(t *testing.T) {
	path := setup(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--help"}, "Commands:"},
		{[]string{"-h"}, "Commands:"},
		{[]string{"help"}, "Global Options:"},
		{[]string{"--version"}, "tasklist version dev"},
		{[]string{"-v"}, "tasklist version dev"},
		{[]string{"version"}, "tasklist version dev"},
	}
	for _, tt := range tests {
		out := mustRun(t, path, tt.args...)
		if !strings.Contains(out, tt.want) {
			t.Errorf("Run(%v): got %q, want it to contain %q", tt.args, out, tt.want)
		}
	}
}

func TestRunWithoutValidCommand(t *testing.T) {
	path := setup(t)

	for _, args := range [][]string{nil, {"frobnicate"}} {
		out, err := run(t, path, args...)
		if err != nil {
			t.Errorf("Run(%v): got error %v, want nil", args, err)
		}
		if out != "" {
			t.Errorf("Run(%v): stdout %q, want empty", args, out)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("tasks file should not be created, stat err = %v", err)
	}
}

func TestSubcommandHelp(t *testing.T) {
	path := setup(t)

	for _, args := range [][]string{
		{"add", "-h"},
		{"list", "--help"},
		{"mark", "-h"},
		{"edit", "1", "-h"},
		{"delete", "-help"},
		{"config", "-h"},
	} {
		if _, err := run(t, path, args...); err != nil {
			t.Errorf("Run(%v): got error %v, want nil", args, err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("help must not write the tasks file, stat err = %v", err)
	}
}

func TestRunConfigError(t *testing.T) {
	path := setup(t)
	_, err := run(t, path, "-format", "xml", "list")
	if err == nil || !strings.Contains(err.Error(), "loading config") {
		t.Errorf("got %v, want config error", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	path := setup(t)

	out := mustRun(t, path, "add", "Buy milk", "--due_date", "2099-05-01", "--priority", "low")
	if strings.TrimSpace(out) != "Task 'Buy milk' added." {
		t.Errorf("add: got %q", out)
	}
	mustRun(t, path, "add", "--priority", "HIGH", "Write", "report")

	out = mustRun(t, path, "list")
	want := []string{
		"Tasks:",
		"ID: 1 | Buy milk | Due: 2099-05-01T00:00:00 | Priority: low | Status: Pending",
		"ID: 2 | Write report | Due: No due date | Priority: high | Status: Pending",
	}
	if got := strings.Split(strings.TrimSpace(out), "\n"); !reflect.DeepEqual(got, want) {
		t.Errorf("list:\ngot  %q\nwant %q", got, want)
	}

	out = mustRun(t, path, "mark", "1")
	if strings.TrimSpace(out) != "Task 'Buy milk' marked as completed." {
		t.Errorf("mark: got %q", out)
	}
	out = mustRun(t, path, "list")
	if strings.Contains(out, "Buy milk") {
		t.Errorf("list should hide completed tasks, got %q", out)
	}
	out = mustRun(t, path, "list", "--show_completed", "--filter_by", "due_date")
	if !strings.Contains(out, "Status: Completed") || strings.Contains(out, "Write report") {
		t.Errorf("list --show_completed --filter_by due_date: got %q", out)
	}

	out = mustRun(t, path, "edit", "2", "--description", "Write final report", "--due_date", "2099-06-01")
	if strings.TrimSpace(out) != "Task 'Write final report' updated." {
		t.Errorf("edit: got %q", out)
	}
	out = mustRun(t, path, "edit", "--clear_priority", "2")
	if !strings.Contains(out, "updated") {
		t.Errorf("edit --clear_priority: got %q", out)
	}
	out = mustRun(t, path, "list")
	if !strings.Contains(out, "ID: 2 | Write final report | Due: 2099-06-01T00:00:00 | Priority: None") {
		t.Errorf("list after edit: got %q", out)
	}

	out = mustRun(t, path, "delete", "2")
	if strings.TrimSpace(out) != "Task 'Write final report' deleted." {
		t.Errorf("delete: got %q", out)
	}

	mustRun(t, path, "add", "Call mom")
	out = mustRun(t, path, "list")
	if !strings.Contains(out, "ID: 3 | Call mom") {
		t.Errorf("IDs must not be reused after delete, got %q", out)
	}
}

func TestListEmpty(t *testing.T) {
	path := setup(t)
	out := mustRun(t, path, "list")
	if strings.TrimSpace(out) != "No tasks found." {
		t.Errorf("list: got %q, want No tasks found.", out)
	}
}

func TestNotFound(t *testing.T) {
	path := setup(t)
	mustRun(t, path, "add", "Buy milk")

	for _, args := range [][]string{
		{"mark", "99"},
		{"edit", "99", "--description", "x"},
		{"delete", "99"},
	} {
		out, err := run(t, path, args...)
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != 1 {
			t.Errorf("Run(%v): got error %v, want ExitError 1", args, err)
		}
		if strings.TrimSpace(out) != "Task with ID 99 not found." {
			t.Errorf("Run(%v): got %q", args, out)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"add without description", []string{"add"}, "requires a task description"},
		{"bad date", []string{"add", "x", "--due_date", "2024-13-99"}, "invalid date format"},
		{"bad priority", []string{"add", "x", "--priority", "urgent"}, "invalid priority"},
		{"bad filter", []string{"list", "--filter_by", "color"}, "unknown filter"},
		{"bad id", []string{"mark", "abc"}, "must be a number"},
		{"missing id", []string{"delete"}, "exactly one task ID"},
		{"shell without terminal", []string{"shell"}, "interactive terminal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setup(t)
			_, err := run(t, path, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Errorf("tasks file written on error")
			}
		})
	}
}

func TestEditInvalidDateLeavesFile(t *testing.T) {
	path := setup(t)
	mustRun(t, path, "add", "Buy milk", "--due_date", "2099-05-01")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, path, "edit", "1", "--due_date", "bad"); err == nil {
		t.Fatal("expected error")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("file changed after failed edit:\nbefore %s\nafter  %s", before, after)
	}
}

func TestCorruptFileFailsCommand(t *testing.T) {
	path := setup(t)
	if err := os.WriteFile(path, []byte(`{"schema_version": 1, "next_id": 2, "tasks": [{"id": 1}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, path, "list")
	if err == nil || !strings.Contains(err.Error(), "tasks[0]") {
		t.Errorf("list on corrupt file: got %v", err)
	}

	out, err := run(t, path, "doctor")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("doctor: got %v, want ExitError", err)
	}
	if !strings.Contains(out, "❌") || !strings.Contains(out, "Some checks failed.") {
		t.Errorf("doctor output: %q", out)
	}
}

func TestDoctor(t *testing.T) {
	path := setup(t)

	out := mustRun(t, path, "doctor")
	if !strings.Contains(out, "Not created yet") || !strings.Contains(out, "All checks passed.") {
		t.Errorf("doctor on missing file: %q", out)
	}

	mustRun(t, path, "add", "Buy milk")
	out = mustRun(t, path, "doctor")
	if !strings.Contains(out, "1 tasks, next ID 2") {
		t.Errorf("doctor: %q", out)
	}
}

func TestYAMLTasksFile(t *testing.T) {
	path := setup(t)
	yamlPath := strings.TrimSuffix(path, ".json") + ".yaml"

	mustRun(t, yamlPath, "add", "Buy milk", "--priority", "medium")
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "priority: medium") {
		t.Errorf("expected YAML output, got:\n%s", data)
	}
}

func TestConfigCommand(t *testing.T) {
	path := setup(t)

	out := mustRun(t, path, "config")
	if !strings.Contains(out, "tasks_file = ") || !strings.Contains(out, "flag") {
		t.Errorf("config: %q", out)
	}

	out = mustRun(t, path, "config", "-example")
	if !strings.Contains(out, "tasks_file") {
		t.Errorf("config -example: %q", out)
	}
}

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		args       []string
		positional []string
		priority   string
		done       bool
	}{
		{[]string{"a", "b"}, []string{"a", "b"}, "", false},
		{[]string{"-priority", "low", "a"}, []string{"a"}, "low", false},
		{[]string{"a", "--priority", "high", "b", "--done"}, []string{"a", "b"}, "high", true},
		{[]string{"a", "--", "--done"}, []string{"a", "--done"}, "", false},
		{nil, nil, "", false},
	}
	for _, tt := range tests {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		priority := fs.String("priority", "", "")
		done := fs.Bool("done", false, "")

		got, err := parseInterspersed(fs, tt.args)
		if err != nil {
			t.Fatalf("parseInterspersed(%v) failed: %v", tt.args, err)
		}
		if !reflect.DeepEqual(got, tt.positional) {
			t.Errorf("parseInterspersed(%v): got %v, want %v", tt.args, got, tt.positional)
		}
		if *priority != tt.priority || *done != tt.done {
			t.Errorf("parseInterspersed(%v): priority=%q done=%v", tt.args, *priority, *done)
		}
	}
}
