// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/taskfile"
	"github.com/nibzard/tasklist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

const noCommandHint = "No valid command provided. Use --help for usage information."

// ExitError ends the process with Code. Its message has already been
// shown to the user, so callers should not print it again.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	file   *taskfile.File
	styles ui.Styles
}

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	a, err := newApp(cws.Config)
	if err != nil {
		return err
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		fmt.Fprintln(os.Stderr, noCommandHint)
		return nil
	}
	err = a.dispatch(ctx, fs, cws, remainingArgs[0], remainingArgs[1:])
	if errors.Is(err, flag.ErrHelp) {
		// The subcommand's FlagSet has already printed its usage.
		return nil
	}
	return err
}

func (a *app) dispatch(ctx context.Context, fs *flag.FlagSet, cws *config.ConfigWithSources, subcommand string, remainingArgs []string) error {
	switch subcommand {
	case "add":
		return a.addCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "mark", "done":
		return a.markCommand(remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "delete", "rm":
		return a.deleteCommand(remainingArgs)
	case "shell":
		return a.shellCommand(ctx, remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		a.logger.Debug("unknown command", "command", subcommand)
		fmt.Fprintln(os.Stderr, noCommandHint)
		return nil
	}
}

func newApp(cfg *config.Config) (*app, error) {
	logger := logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if len(cfg.ConfigFiles) > 0 {
		logger.Debug("loaded config", "files", cfg.ConfigFiles)
	}

	format, err := taskfile.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		file:   taskfile.New(cfg.TasksFile, format, logger),
		styles: ui.NewStyles(os.Stdout, cfg.NoColor),
	}, nil
}

// parseInterspersed parses fs over args, allowing flags to appear before,
// between, or after positional arguments. A "--" ends flag parsing.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newSubcommandFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasklist "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("tasklist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	lines := []string{
		"tasklist - a personal to-do list",
		"",
		"Usage:",
		"  tasklist [global options] <command> [args]",
		"",
		"Commands:",
		"  add <description>     Add a task",
		"      --due_date YYYY-MM-DD   Due date",
		"      --priority LEVEL        Priority (low, medium, high)",
		"  list                  List tasks",
		"      --filter_by FIELD       Only tasks with FIELD set (priority, due_date, status)",
		"      --show_completed        Include completed tasks",
		"  mark <task_id>        Mark a task as completed",
		"  edit <task_id>        Edit a task",
		"      --description TEXT      New description",
		"      --due_date YYYY-MM-DD   New due date",
		"      --priority LEVEL        New priority",
		"      --clear_due_date        Remove the due date",
		"      --clear_priority        Remove the priority",
		"  delete <task_id>      Delete a task",
		"  shell                 Start the interactive menu",
		"  doctor                Check config and tasks file",
		"  config [-example]     Print the effective configuration",
		"  version               Show version information",
		"  help                  Show this help message",
		"",
		"Global Options:",
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "User config: %s\n", config.UserConfigPath())
	fmt.Fprintln(w, "Project config: ./tasklist.toml or ./.tasklist.toml")
}
