package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDateFormat is returned when a due date is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	// ErrTaskNotFound is returned when no task has the requested ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyDescription is returned when a new task has no description.
	ErrEmptyDescription = errors.New("description must not be empty")
	// ErrInvalidEncoding is returned for descriptions that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("description must be valid UTF-8")
	// ErrInvalidPriority is returned for priorities outside low, medium, high.
	ErrInvalidPriority = errors.New("invalid priority, must be one of: low, medium, high")
	// ErrUnknownFilter is returned by List for an unsupported filter field.
	ErrUnknownFilter = errors.New("unknown filter, must be one of: priority, due_date, status")
)

// NotFoundError reports the ID that could not be found.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// Unwrap returns ErrTaskNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrTaskNotFound
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // path to the offending field, e.g. tasks[2].id
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
