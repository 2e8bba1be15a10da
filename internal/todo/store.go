package todo

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field names a task field that List can filter on.
type Field string

const (
	FieldNone     Field = ""
	FieldPriority Field = "priority"
	FieldDueDate  Field = "due_date"
	// FieldStatus is derived from Completed and always present, so
	// filtering on it keeps every task. Legacy tasks files never stored a
	// status field, and filtering on it there matched nothing.
	FieldStatus Field = "status"
)

// ParseField parses a filter field name. An empty string yields FieldNone.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldNone, FieldPriority, FieldDueDate, FieldStatus:
		return f, nil
	}
	return FieldNone, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// ListOptions controls which tasks List returns.
type ListOptions struct {
	// FilterBy keeps only tasks where the named field is set.
	// Status is derived and always set, so it keeps every task.
	FilterBy Field
	// ShowCompleted includes completed tasks.
	ShowCompleted bool
}

// Changes describes an edit. Empty fields leave the stored value alone.
type Changes struct {
	Description string
	DueDate     string // YYYY-MM-DD
	Priority    Priority

	// ClearDueDate and ClearPriority reset the field to unset when no new
	// value is given for it.
	ClearDueDate  bool
	ClearPriority bool
}

// IsZero reports whether c would change nothing.
func (c Changes) IsZero() bool {
	return strings.TrimSpace(c.Description) == "" &&
		strings.TrimSpace(c.DueDate) == "" &&
		c.Priority == PriorityNone &&
		!c.ClearDueDate && !c.ClearPriority
}

// Store is an ordered, in-memory collection of tasks.
type Store struct {
	tasks  []Task
	nextID int
}

// NewStore returns an empty store whose first task gets ID 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Restore rebuilds a store from persisted tasks. nextID is raised past the
// largest ID present, so files without a counter still never reuse IDs.
func Restore(tasks []Task, nextID int) (*Store, error) {
	s := &Store{
		tasks:  make([]Task, 0, len(tasks)),
		nextID: 1,
	}
	seen := make(map[int]int, len(tasks))
	for i, task := range tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if task.ID < 1 {
			return nil, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("must be at least 1, got %d", task.ID),
			}
		}
		if prev, ok := seen[task.ID]; ok {
			return nil, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %d (first seen at tasks[%d])", task.ID, prev),
			}
		}
		if err := checkDescription(task.Description); err != nil {
			return nil, &ValidationError{
				Path: path + ".description",
				Err:  err,
			}
		}
		if !task.Priority.Valid() {
			return nil, &ValidationError{
				Path: path + ".priority",
				Err:  fmt.Errorf("%w: %q", ErrInvalidPriority, task.Priority),
			}
		}
		seen[task.ID] = i
		s.tasks = append(s.tasks, task)
		if task.ID >= s.nextID {
			s.nextID = task.ID + 1
		}
	}
	if nextID > s.nextID {
		s.nextID = nextID
	}
	return s, nil
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the ID the next added task will receive.
func (s *Store) NextID() int {
	return s.nextID
}

// Tasks returns a copy of all tasks in creation order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given ID.
func (s *Store) Get(id int) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i], nil
}

// Add creates a task and appends it to the store. dueDate may be empty.
// Nothing is changed if any argument is invalid.
func (s *Store) Add(description, dueDate string, priority Priority) (Task, error) {
	description = strings.TrimSpace(description)
	if err := checkDescription(description); err != nil {
		return Task{}, err
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	var due Date
	if strings.TrimSpace(dueDate) != "" {
		d, err := ParseDate(dueDate)
		if err != nil {
			return Task{}, err
		}
		due = d
	}

	task := Task{
		ID:          s.nextID,
		Description: description,
		DueDate:     due,
		Priority:    priority,
	}
	s.nextID++
	s.tasks = append(s.tasks, task)
	return task, nil
}

// List returns the tasks matching opts in creation order. The result is a
// copy and may be empty.
func (s *Store) List(opts ListOptions) ([]Task, error) {
	if _, err := ParseField(string(opts.FilterBy)); err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.Completed && !opts.ShowCompleted {
			continue
		}
		switch opts.FilterBy {
		case FieldPriority:
			if !task.Priority.IsSet() {
				continue
			}
		case FieldDueDate:
			if !task.HasDueDate() {
				continue
			}
		}
		out = append(out, task)
	}
	return out, nil
}

// Complete marks a task as completed. Completing a completed task is a no-op.
func (s *Store) Complete(id int) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	s.tasks[i].Completed = true
	return s.tasks[i], nil
}

// Edit applies c to the task with the given ID. All values are validated
// before the task is touched.
func (s *Store) Edit(id int, c Changes) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	if !utf8.ValidString(c.Description) {
		return Task{}, ErrInvalidEncoding
	}
	if !c.Priority.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, c.Priority)
	}
	var due Date
	if strings.TrimSpace(c.DueDate) != "" {
		d, err := ParseDate(c.DueDate)
		if err != nil {
			return Task{}, err
		}
		due = d
	}

	task := &s.tasks[i]
	if desc := strings.TrimSpace(c.Description); desc != "" {
		task.Description = desc
	}
	switch {
	case !due.IsZero():
		task.DueDate = due
	case c.ClearDueDate:
		task.DueDate = Date{}
	}
	switch {
	case c.Priority.IsSet():
		task.Priority = c.Priority
	case c.ClearPriority:
		task.Priority = PriorityNone
	}
	return *task, nil
}

// Delete removes the task with the given ID permanently.
func (s *Store) Delete(id int) error {
	i := s.index(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// checkDescription rejects blank descriptions and text that would not
// survive encoding.
func checkDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return ErrEmptyDescription
	}
	if !utf8.ValidString(desc) {
		return ErrInvalidEncoding
	}
	return nil
}

func (s *Store) index(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
