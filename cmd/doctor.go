package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/nibzard/tasklist/internal/config"
)

// doctorCommand reports on the config files and the tasks file.
func (a *app) doctorCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	fmt.Println("Tasklist Doctor")
	fmt.Println("===============")
	fmt.Println()

	fmt.Println("Config:")
	if len(a.cfg.ConfigFiles) == 0 {
		fmt.Println("  (no config files, using defaults)")
	}
	for _, path := range a.cfg.ConfigFiles {
		fmt.Printf("  ✅ %s\n", path)
	}
	fmt.Println()

	report := a.file.Check()
	fmt.Printf("Tasks file: %s (%s)\n", report.Path, report.Format)
	switch {
	case !report.Exists && report.Valid():
		fmt.Println("  ✅ Not created yet, will be created on first save")
	case report.Valid():
		fmt.Printf("  ✅ %d tasks, next ID %d\n", report.Tasks, report.NextID)
	}
	for _, w := range report.Warnings {
		if !report.Exists {
			continue
		}
		fmt.Printf("  ⚠️  %s\n", w)
	}
	for _, err := range report.Errors {
		fmt.Printf("  ❌ %v\n", err)
	}
	fmt.Println()

	if !report.Valid() {
		fmt.Println("Some checks failed.")
		return &ExitError{Code: 1}
	}
	fmt.Println("All checks passed.")
	return nil
}

// configCommand prints the effective configuration as TOML, followed by
// where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := newSubcommandFlags("config")
	example := fs.Bool("example", false, "Print an example config file instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	if err := cws.Config.Encode(os.Stdout); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fmt.Println()
	fmt.Println("# Sources:")
	for _, field := range fields {
		fmt.Printf("#   %-15s %s\n", field, cws.Sources[field])
	}
	if path := cws.GetConfigFile(); path != "" {
		fmt.Printf("# Config file: %s\n", path)
	}
	return nil
}
