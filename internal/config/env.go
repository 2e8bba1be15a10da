package config

import "os"

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		sources[field] = SourceEnv
	}

	if v := os.Getenv("TASKLIST_FILE"); v != "" {
		cfg.TasksFile = v
		setEnv("tasks_file")
	}
	if v := os.Getenv("TASKLIST_FORMAT"); v != "" {
		cfg.Format = v
		setEnv("format")
	}
	// https://no-color.org: any non-empty value disables color.
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.NoColor = true
		setEnv("no_color")
	}
	if v := os.Getenv("TASKLIST_NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
		setEnv("no_color")
	}

	// Logging configuration
	if v := os.Getenv("TASKLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TASKLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TASKLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TASKLIST_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}
