package taskfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCorruptState is returned when a tasks file exists but cannot be decoded.
	ErrCorruptState = errors.New("corrupt tasks file")
	// ErrIO is returned when the tasks file cannot be read or written.
	ErrIO = errors.New("tasks file I/O failure")
)

// CorruptError lists every problem found in a malformed tasks file.
type CorruptError struct {
	Path   string
	Errors []error
}

func (e *CorruptError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("%s: %s", ErrCorruptState, e.Path)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCorruptState, e.Path, strings.Join(msgs, "; "))
}

// Is reports whether target is ErrCorruptState.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorruptState
}

// Unwrap returns the individual problems.
func (e *CorruptError) Unwrap() []error {
	return e.Errors
}
