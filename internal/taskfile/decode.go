package taskfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasklist/internal/todo"
)

type decoded struct {
	store    *todo.Store
	legacy   bool
	warnings []string
}

// decode turns raw file content into a store. Every failure is a
// *CorruptError.
func (f *File) decode(data []byte) (*decoded, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &decoded{
			store:    todo.NewStore(),
			warnings: []string{"tasks file is empty, starting with an empty list"},
		}, nil
	}

	corrupt := func(errs ...error) error {
		return &CorruptError{Path: f.Path, Errors: errs}
	}

	jsonData, err := normalize(data, f.format())
	if err != nil {
		return nil, corrupt(err)
	}

	var raw interface{}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, corrupt(fmt.Errorf("parse tasks file: %w", err))
	}
	_, legacy := raw.([]interface{})

	if errs := validateSchema(raw, legacy); len(errs) > 0 {
		return nil, corrupt(errs...)
	}

	res := &decoded{legacy: legacy}
	var (
		tasks  []todo.Task
		nextID int
	)
	if legacy {
		if err := json.Unmarshal(jsonData, &tasks); err != nil {
			return nil, corrupt(fmt.Errorf("parse tasks: %w", err))
		}
		var repaired int
		tasks, repaired = renumberDuplicates(tasks)
		res.warnings = append(res.warnings, "tasks file uses the legacy list format, it will be upgraded on the next save")
		if repaired > 0 {
			res.warnings = append(res.warnings, fmt.Sprintf("renumbered %d task(s) with duplicate ids", repaired))
		}
	} else {
		var doc document
		if err := json.Unmarshal(jsonData, &doc); err != nil {
			return nil, corrupt(fmt.Errorf("parse tasks file: %w", err))
		}
		tasks, nextID = doc.Tasks, doc.NextID
	}

	store, err := todo.Restore(tasks, nextID)
	if err != nil {
		return nil, corrupt(err)
	}
	res.store = store
	return res, nil
}

// normalize converts YAML content to JSON so both formats share one
// validation and decoding path.
func normalize(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse tasks file: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert tasks file: %w", err)
	}
	return out, nil
}

// renumberDuplicates gives later copies of a repeated ID fresh IDs past the
// current maximum. Files written by older versions reused IDs after deletes.
func renumberDuplicates(tasks []todo.Task) ([]todo.Task, int) {
	maxID := 0
	for _, task := range tasks {
		if task.ID > maxID {
			maxID = task.ID
		}
	}

	seen := make(map[int]bool, len(tasks))
	repaired := 0
	for i := range tasks {
		if seen[tasks[i].ID] {
			maxID++
			tasks[i].ID = maxID
			repaired++
		}
		seen[tasks[i].ID] = true
	}
	return tasks, repaired
}
