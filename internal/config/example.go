package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by environment variables or CLI flags

# Tasks file (relative to the working directory, supports ~ and $VAR)
tasks_file = "tasks.json"

# Tasks file format: "json" or "yaml" (default: by file extension)
# format = "yaml"

# Disable colored output (also honored via NO_COLOR)
no_color = false

# Diagnostic logging goes to stderr
log_level = "warn"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
