// Package ui renders tasks for the terminal and runs the interactive shell.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nibzard/tasklist/internal/todo"
)

// Styles holds the lipgloss styles used for task output.
type Styles struct {
	renderer *lipgloss.Renderer

	High    lipgloss.Style
	Medium  lipgloss.Style
	Low     lipgloss.Style
	Info    lipgloss.Style
	Overdue lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Title   lipgloss.Style
	Prompt  lipgloss.Style
}

// NewStyles builds styles for output written to w. With noColor set, or
// when w is not a terminal, every style renders plain text.
func NewStyles(w io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		renderer: r,
		High:     r.NewStyle().Foreground(lipgloss.Color("9")),
		Medium:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Low:      r.NewStyle().Foreground(lipgloss.Color("10")),
		Info:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Overdue:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("9")),
		Title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		Prompt:   r.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// PlainStyles returns styles that never emit escape sequences.
func PlainStyles() Styles {
	return NewStyles(io.Discard, true)
}

// ForPriority returns the style for tasks with priority p.
func (s Styles) ForPriority(p todo.Priority) lipgloss.Style {
	switch p {
	case todo.PriorityHigh:
		return s.High
	case todo.PriorityMedium:
		return s.Medium
	case todo.PriorityLow:
		return s.Low
	default:
		return s.renderer.NewStyle()
	}
}

// FormatTask renders one task as a single line. Completed tasks are dimmed,
// others are colored by priority, and overdue tasks get a marker.
func (s Styles) FormatTask(t todo.Task, now time.Time) string {
	due := "No due date"
	if t.HasDueDate() {
		due = t.DueDate.String()
	}
	priority := "None"
	if t.Priority.IsSet() {
		priority = string(t.Priority)
	}

	line := fmt.Sprintf("ID: %d | %s | Due: %s | Priority: %s | Status: %s",
		t.ID, t.Description, due, priority, t.Status())

	style := s.ForPriority(t.Priority)
	if t.Completed {
		style = s.Info
	}
	line = style.Render(line)
	if t.Overdue(now) {
		line += " " + s.Overdue.Render("(overdue)")
	}
	return line
}

// FormatTasks renders a task listing, or a notice when tasks is empty.
func (s Styles) FormatTasks(tasks []todo.Task, now time.Time) []string {
	if len(tasks) == 0 {
		return []string{s.Info.Render("No tasks found.")}
	}
	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, s.Title.Render("Tasks:"))
	for _, t := range tasks {
		lines = append(lines, s.FormatTask(t, now))
	}
	return lines
}

// PriorityHint renders "low, medium, high" with each word in its color.
func (s Styles) PriorityHint() string {
	words := make([]string, 0, len(todo.Priorities))
	for _, p := range todo.Priorities {
		words = append(words, s.ForPriority(p).Render(string(p)))
	}
	return strings.Join(words, ", ")
}

// Added reports a newly created task.
func (s Styles) Added(t todo.Task) string {
	return s.Success.Render(fmt.Sprintf("Task '%s' added.", t.Description))
}

// Completed reports a task marked as completed.
func (s Styles) Completed(t todo.Task) string {
	return s.Success.Render(fmt.Sprintf("Task '%s' marked as completed.", t.Description))
}

// Updated reports an edited task.
func (s Styles) Updated(t todo.Task) string {
	return s.Success.Render(fmt.Sprintf("Task '%s' updated.", t.Description))
}

// Deleted reports a removed task.
func (s Styles) Deleted(t todo.Task) string {
	return s.Success.Render(fmt.Sprintf("Task '%s' deleted.", t.Description))
}

// NotFound reports a missing task ID.
func (s Styles) NotFound(id int) string {
	return s.Warning.Render(fmt.Sprintf("Task with ID %d not found.", id))
}
