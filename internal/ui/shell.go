package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist/internal/todo"
)

// Saver persists the store after each change made in the shell.
type Saver interface {
	Save(*todo.Store) error
}

type action int

const (
	actionAdd action = iota + 1
	actionList
	actionMark
	actionEdit
	actionDelete
	actionExit
)

type shellState int

const (
	stateMenu shellState = iota
	statePrompt
)

// menuItem implements list.DefaultItem for the main menu.
type menuItem struct {
	title  string
	desc   string
	action action
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

func menuItems() []list.Item {
	return []list.Item{
		menuItem{title: "1. Add Task", desc: "Create a task with optional due date and priority", action: actionAdd},
		menuItem{title: "2. List Tasks", desc: "Show pending or all tasks", action: actionList},
		menuItem{title: "3. Mark Task as Completed", desc: "Complete a task by ID", action: actionMark},
		menuItem{title: "4. Edit Task", desc: "Change description, due date or priority", action: actionEdit},
		menuItem{title: "5. Delete Task", desc: "Remove a task permanently", action: actionDelete},
		menuItem{title: "6. Exit", desc: "Leave the application", action: actionExit},
	}
}

// field is one prompt in an action's form.
type field struct {
	prompt      string
	placeholder string
	validate    func(string) error
}

var errInvalidID = errors.New("Invalid ID format. Please enter a number.")

func validateID(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errInvalidID
	}
	return nil
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := todo.ParseDate(s)
	return err
}

func validateEditDate(s string) error {
	if strings.TrimSpace(s) == clearValue {
		return nil
	}
	return validateDate(s)
}

func validatePriority(s string) error {
	_, err := todo.ParsePriority(s)
	return err
}

func validateEditPriority(s string) error {
	if strings.TrimSpace(s) == clearValue {
		return nil
	}
	return validatePriority(s)
}

func validateYesNo(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "y", "yes", "n", "no":
		return nil
	}
	return errors.New("please answer yes or no")
}

func validateField(s string) error {
	_, err := todo.ParseField(s)
	return err
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

// clearValue entered at an edit prompt resets the field to unset.
const clearValue = "-"

// Shell is the interactive menu. Each completed action is applied to the
// store and flushed through the Saver before the menu is shown again.
type Shell struct {
	store  *todo.Store
	saver  Saver
	styles Styles
	now    func() time.Time

	menu  list.Model
	input textinput.Model

	state   shellState
	action  action
	fields  []field
	step    int
	answers []string

	output   []string
	notice   string
	saveErr  error
	quitting bool
}

// NewShell returns a shell operating on store.
func NewShell(store *todo.Store, saver Saver, styles Styles) *Shell {
	menu := list.New(menuItems(), list.NewDefaultDelegate(), 60, 22)
	menu.Title = "To-Do List Application"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)

	input := textinput.New()
	input.CharLimit = 256
	input.Width = 50

	return &Shell{
		store:  store,
		saver:  saver,
		styles: styles,
		now:    time.Now,
		menu:   menu,
		input:  input,
	}
}

// RunShell runs the shell until the user exits or ctx is cancelled.
func RunShell(ctx context.Context, store *todo.Store, saver Saver, styles Styles) error {
	model := NewShell(store, saver, styles)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*Shell); ok && m.saveErr != nil {
		return fmt.Errorf("last save failed: %w", m.saveErr)
	}
	return nil
}

func (m *Shell) Init() tea.Cmd {
	return nil
}

func (m *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.menu.SetSize(msg.Width, max(10, msg.Height-len(m.output)-2))
		m.input.Width = max(20, msg.Width-30)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.state == stateMenu {
			return m.updateMenu(msg)
		}
		return m.updatePrompt(msg)
	}

	var cmd tea.Cmd
	if m.state == statePrompt {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Shell) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc":
		return m.choose(actionExit)
	case "1", "2", "3", "4", "5", "6":
		n, _ := strconv.Atoi(key)
		m.menu.Select(n - 1)
		return m.choose(action(n))
	case "enter":
		item, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		return m.choose(item.action)
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Shell) choose(a action) (tea.Model, tea.Cmd) {
	m.notice = ""
	if a == actionExit {
		m.quitting = true
		m.output = []string{m.styles.Info.Render("Exiting the application.")}
		return m, tea.Quit
	}

	m.state = statePrompt
	m.action = a
	m.fields = m.formFor(a)
	m.step = 0
	m.answers = m.answers[:0]
	m.output = nil

	switch a {
	case actionMark, actionEdit, actionDelete:
		m.output = m.styles.FormatTasks(m.store.Tasks(), m.now())
	}
	return m, m.focusField()
}

func (m *Shell) formFor(a action) []field {
	switch a {
	case actionAdd:
		return []field{
			{prompt: "Enter task description", validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return todo.ErrEmptyDescription
				}
				return nil
			}},
			{prompt: "Enter due date", placeholder: "YYYY-MM-DD (optional)", validate: validateDate},
			{prompt: "Enter priority (" + m.styles.PriorityHint() + ")", placeholder: "optional", validate: validatePriority},
		}
	case actionList:
		return []field{
			{prompt: "Show completed tasks?", placeholder: "yes/no", validate: validateYesNo},
			{prompt: "Filter by", placeholder: "priority, due_date, status (optional)", validate: validateField},
		}
	case actionMark:
		return []field{
			{prompt: "Enter task ID to mark as completed", validate: validateID},
		}
	case actionEdit:
		return []field{
			{prompt: "Enter task ID to edit", validate: validateID},
			{prompt: "Enter new description", placeholder: "leave blank to keep current"},
			{prompt: "Enter new due date", placeholder: "YYYY-MM-DD, blank to keep, - to clear", validate: validateEditDate},
			{prompt: "Enter new priority (" + m.styles.PriorityHint() + ")", placeholder: "blank to keep, - to clear", validate: validateEditPriority},
		}
	case actionDelete:
		return []field{
			{prompt: "Enter task ID to delete", validate: validateID},
		}
	}
	return nil
}

func (m *Shell) focusField() tea.Cmd {
	f := m.fields[m.step]
	m.input.Reset()
	m.input.Prompt = m.styles.Prompt.Render(f.prompt) + ": "
	m.input.Placeholder = f.placeholder
	return m.input.Focus()
}

func (m *Shell) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.backToMenu()
		m.output = []string{m.styles.Info.Render("Cancelled.")}
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		if v := m.fields[m.step].validate; v != nil {
			if err := v(value); err != nil {
				m.notice = err.Error()
				return m, nil
			}
		}
		m.notice = ""
		m.answers = append(m.answers, value)
		m.step++
		if m.step < len(m.fields) {
			return m, m.focusField()
		}
		out := m.apply(m.action, m.answers)
		m.backToMenu()
		m.output = out
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Shell) backToMenu() {
	m.state = stateMenu
	m.notice = ""
	m.input.Blur()
	m.input.Reset()
}

// apply runs a completed form against the store and returns the lines to
// display. Answers have already been validated.
func (m *Shell) apply(a action, answers []string) []string {
	s := m.styles
	switch a {
	case actionAdd:
		p, _ := todo.ParsePriority(answers[2])
		task, err := m.store.Add(answers[0], answers[1], p)
		if err != nil {
			return []string{s.Error.Render(err.Error())}
		}
		return []string{s.Added(task), m.save()}

	case actionList:
		filter, _ := todo.ParseField(answers[1])
		tasks, err := m.store.List(todo.ListOptions{FilterBy: filter, ShowCompleted: isYes(answers[0])})
		if err != nil {
			return []string{s.Error.Render(err.Error())}
		}
		return s.FormatTasks(tasks, m.now())

	case actionMark:
		id, _ := strconv.Atoi(strings.TrimSpace(answers[0]))
		task, err := m.store.Complete(id)
		if err != nil {
			return []string{m.describeErr(id, err)}
		}
		return []string{s.Completed(task), m.save()}

	case actionEdit:
		id, _ := strconv.Atoi(strings.TrimSpace(answers[0]))
		changes := todo.Changes{Description: answers[1]}
		if strings.TrimSpace(answers[2]) == clearValue {
			changes.ClearDueDate = true
		} else {
			changes.DueDate = answers[2]
		}
		if strings.TrimSpace(answers[3]) == clearValue {
			changes.ClearPriority = true
		} else {
			changes.Priority, _ = todo.ParsePriority(answers[3])
		}
		task, err := m.store.Edit(id, changes)
		if err != nil {
			return []string{m.describeErr(id, err)}
		}
		return []string{s.Updated(task), m.save()}

	case actionDelete:
		id, _ := strconv.Atoi(strings.TrimSpace(answers[0]))
		task, err := m.store.Get(id)
		if err != nil {
			return []string{m.describeErr(id, err)}
		}
		if err := m.store.Delete(id); err != nil {
			return []string{m.describeErr(id, err)}
		}
		return []string{s.Deleted(task), m.save()}
	}
	return nil
}

func (m *Shell) describeErr(id int, err error) string {
	if errors.Is(err, todo.ErrTaskNotFound) {
		return m.styles.NotFound(id)
	}
	return m.styles.Error.Render(err.Error())
}

// save flushes the store. A failure is reported but leaves the store as
// is, so the next change retries the write.
func (m *Shell) save() string {
	if err := m.saver.Save(m.store); err != nil {
		m.saveErr = err
		return m.styles.Error.Render(fmt.Sprintf("Error saving tasks: %v", err))
	}
	m.saveErr = nil
	return m.styles.Info.Render("Tasks saved to file.")
}

func (m *Shell) View() string {
	var b strings.Builder

	for _, line := range m.output {
		b.WriteString(line + "\n")
	}
	if len(m.output) > 0 {
		b.WriteString("\n")
	}
	if m.quitting {
		return b.String()
	}

	if m.state == stateMenu {
		b.WriteString(m.menu.View())
		b.WriteString("\n" + m.styles.Info.Render("1-6 or enter to choose | q to quit") + "\n")
		return b.String()
	}

	b.WriteString(m.input.View() + "\n")
	if m.notice != "" {
		b.WriteString(m.styles.Warning.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.styles.Info.Render("enter to confirm | esc to cancel") + "\n")
	return b.String()
}
