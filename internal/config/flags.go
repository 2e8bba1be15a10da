package config

import "flag"

// flagToField maps flag names to source field names.
var flagToField = map[string]string{
	"file":           "tasks_file",
	"format":         "format",
	"no-color":       "no_color",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines and parses the global CLI flags. Flags bind directly
// to cfg, so only explicitly set flags override earlier layers.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Tasks file
	fs.StringVar(&cfg.TasksFile, "file", cfg.TasksFile, "Path to tasks file")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Tasks file format (json, yaml; default by extension)")

	// Output
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagToField[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
