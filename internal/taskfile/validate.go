package taskfile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasklist/internal/todo"
)

//go:embed tasks.schema.json
var schemaJSON string

var taskSchema = jsonschema.MustCompileString("tasks.schema.json", schemaJSON)

// Report describes the state of a tasks file without loading it for use.
type Report struct {
	Path     string
	Format   Format
	Exists   bool
	Legacy   bool
	Tasks    int
	NextID   int
	Errors   []error
	Warnings []string
}

// Valid reports whether no errors were found.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// Check inspects the tasks file and reports every problem found. It never
// modifies the file.
func (f *File) Check() *Report {
	r := &Report{
		Path:   f.Path,
		Format: f.format(),
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.Warnings = append(r.Warnings, "tasks file does not exist yet")
			r.NextID = 1
			return r
		}
		r.Errors = append(r.Errors, fmt.Errorf("%w: read tasks file: %w", ErrIO, err))
		return r
	}
	r.Exists = true

	res, err := f.decode(data)
	if err != nil {
		var ce *CorruptError
		if errors.As(err, &ce) {
			r.Errors = append(r.Errors, ce.Errors...)
		} else {
			r.Errors = append(r.Errors, err)
		}
		return r
	}
	r.Legacy = res.legacy
	r.Warnings = append(r.Warnings, res.warnings...)
	r.Tasks = res.store.Len()
	r.NextID = res.store.NextID()
	return r
}

func validateSchema(raw interface{}, legacy bool) []error {
	err := taskSchema.Validate(raw)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}

	var errs []error
	collectSchemaErrors(&errs, ve, legacy)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError, legacy bool) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		path := jsonPointerToPath(err.InstanceLocation)
		if legacy {
			path = "tasks" + path
		}
		*errs = append(*errs, &todo.ValidationError{
			Path: path,
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause, legacy)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
