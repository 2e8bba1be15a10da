package todo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the only accepted input form for due dates.
	DateLayout = "2006-01-02"
	// StoredDateLayout is the normalized form written to the tasks file.
	StoredDateLayout = "2006-01-02T15:04:05"
)

// Priority represents a task priority. The zero value means unset.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is unset or one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// IsSet reports whether a priority has been assigned.
func (p Priority) IsSet() bool {
	return p != PriorityNone
}

// ParsePriority parses a user supplied priority. Case and surrounding
// whitespace are ignored. An empty string yields PriorityNone.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return PriorityNone, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// MarshalJSON encodes an unset priority as null.
func (p Priority) MarshalJSON() ([]byte, error) {
	if p == PriorityNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts null or a known priority string.
func (p *Priority) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = PriorityNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed := Priority(s)
	if !parsed.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	*p = parsed
	return nil
}

// MarshalYAML encodes an unset priority as null.
func (p Priority) MarshalYAML() (interface{}, error) {
	if p == PriorityNone {
		return nil, nil
	}
	return string(p), nil
}

// Date is a calendar date without time of day. The zero value means no date.
type Date struct {
	time.Time
}

// ParseDate parses s in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return Date{Time: t}, nil
}

// NewDate returns the date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the stored form, or an empty string for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(StoredDateLayout)
}

// Before reports whether d falls on an earlier calendar day than t.
func (d Date) Before(t time.Time) bool {
	if d.IsZero() {
		return false
	}
	y, m, day := t.Date()
	return d.Time.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

// MarshalJSON encodes the zero date as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts null or a date in the stored form.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(StoredDateLayout, s)
	if err != nil {
		return fmt.Errorf("parse due date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalYAML encodes the zero date as null.
func (d Date) MarshalYAML() (interface{}, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Task represents a single task in the store.
type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	DueDate     Date     `json:"due_date" yaml:"due_date"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Completed   bool     `json:"completed" yaml:"completed"`
}

// HasDueDate reports whether the task has a due date.
func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// Status returns "Completed" or "Pending".
func (t Task) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}

// Overdue reports whether an incomplete task's due date is before now.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}
