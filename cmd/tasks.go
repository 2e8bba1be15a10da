package cmd

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasklist/internal/todo"
)

func (a *app) addCommand(args []string) error {
	fs := newSubcommandFlags("add")
	dueDate := fs.String("due_date", "", "Due date (YYYY-MM-DD)")
	priority := fs.String("priority", "", "Priority (low, medium, high)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return errors.New("add requires a task description")
	}
	p, err := todo.ParsePriority(*priority)
	if err != nil {
		return err
	}

	store, err := a.file.Load()
	if err != nil {
		return err
	}
	task, err := store.Add(strings.Join(positional, " "), *dueDate, p)
	if err != nil {
		return err
	}
	if err := a.file.Save(store); err != nil {
		return err
	}
	fmt.Println(a.styles.Added(task))
	return nil
}

func (a *app) listCommand(args []string) error {
	fs := newSubcommandFlags("list")
	filterBy := fs.String("filter_by", "", "Only tasks with this field set (priority, due_date, status)")
	showCompleted := fs.Bool("show_completed", false, "Include completed tasks")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}
	field, err := todo.ParseField(*filterBy)
	if err != nil {
		return err
	}

	store, err := a.file.Load()
	if err != nil {
		return err
	}
	tasks, err := store.List(todo.ListOptions{FilterBy: field, ShowCompleted: *showCompleted})
	if err != nil {
		return err
	}
	for _, line := range a.styles.FormatTasks(tasks, time.Now()) {
		fmt.Println(line)
	}
	return nil
}

func (a *app) markCommand(args []string) error {
	id, err := parseIDArg("mark", newSubcommandFlags("mark"), args)
	if err != nil {
		return err
	}

	store, err := a.file.Load()
	if err != nil {
		return err
	}
	task, err := store.Complete(id)
	if err != nil {
		return a.reportNotFound(id, err)
	}
	if err := a.file.Save(store); err != nil {
		return err
	}
	fmt.Println(a.styles.Completed(task))
	return nil
}

func (a *app) editCommand(args []string) error {
	fs := newSubcommandFlags("edit")
	description := fs.String("description", "", "New description")
	dueDate := fs.String("due_date", "", "New due date (YYYY-MM-DD)")
	priority := fs.String("priority", "", "New priority (low, medium, high)")
	clearDue := fs.Bool("clear_due_date", false, "Remove the due date")
	clearPriority := fs.Bool("clear_priority", false, "Remove the priority")

	id, err := parseIDArg("edit", fs, args)
	if err != nil {
		return err
	}
	p, err := todo.ParsePriority(*priority)
	if err != nil {
		return err
	}
	changes := todo.Changes{
		Description:   *description,
		DueDate:       *dueDate,
		Priority:      p,
		ClearDueDate:  *clearDue,
		ClearPriority: *clearPriority,
	}

	store, err := a.file.Load()
	if err != nil {
		return err
	}
	task, err := store.Edit(id, changes)
	if err != nil {
		return a.reportNotFound(id, err)
	}
	if changes.IsZero() {
		a.logger.Info("edit made no changes", "id", id)
	}
	if err := a.file.Save(store); err != nil {
		return err
	}
	fmt.Println(a.styles.Updated(task))
	return nil
}

func (a *app) deleteCommand(args []string) error {
	id, err := parseIDArg("delete", newSubcommandFlags("delete"), args)
	if err != nil {
		return err
	}

	store, err := a.file.Load()
	if err != nil {
		return err
	}
	task, err := store.Get(id)
	if err != nil {
		return a.reportNotFound(id, err)
	}
	if err := store.Delete(id); err != nil {
		return err
	}
	if err := a.file.Save(store); err != nil {
		return err
	}
	fmt.Println(a.styles.Deleted(task))
	return nil
}

// parseIDArg parses fs over args and returns the single task ID argument.
func parseIDArg(command string, fs *flag.FlagSet, args []string) (int, error) {
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return 0, err
	}
	if len(positional) != 1 {
		return 0, fmt.Errorf("%s requires exactly one task ID", command)
	}
	id, err := strconv.Atoi(positional[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q: must be a number", positional[0])
	}
	return id, nil
}

// reportNotFound prints the not-found message for TaskNotFound errors and
// turns them into exit status 1. Other errors pass through.
func (a *app) reportNotFound(id int, err error) error {
	if !errors.Is(err, todo.ErrTaskNotFound) {
		return err
	}
	fmt.Println(a.styles.NotFound(id))
	return &ExitError{Code: 1}
}
