package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// List fetches the caller's tasks and prints them as a table.
func (a *App) List(ctx context.Context) error {
	tasks, err := a.tasks.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, due, t.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printCounts()
	return nil
}

func (a *App) printCounts() {
	counts := a.tasks.Counts()
	parts := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
	}
	fmt.Fprintln(a.out, strings.Join(parts, ", "))
}

// Add prompts for the task fields. Empty priority and due date are left to
// the server defaults.
func (a *App) Add(ctx context.Context) error {
	title, err := a.prompt("Enter title")
	if err != nil {
		return err
	}
	description, err := getMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	priority, err := a.prompt("Enter priority (low, medium, high) or leave empty")
	if err != nil {
		return err
	}
	due, err := a.prompt("Enter due date (YYYY-MM-DD) or leave empty")
	if err != nil {
		return err
	}

	in := models.TaskInput{Title: &title, Description: &description}
	if priority != "" {
		in.Priority = &priority
	}
	if due != "" {
		in.DueDate = &due
	}

	t, err := a.tasks.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", t.ID)
	return nil
}

// Status sets a task's status: status <id> <status>. Missing arguments are
// prompted for.
func (a *App) Status(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	var status string
	if len(args) > 1 {
		status = args[1]
	} else if status, err = a.prompt("Enter status (" + strings.Join(models.Statuses, ", ") + ")"); err != nil {
		return err
	}

	t, err := a.tasks.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s: %s\n", t.ID, t.Status)
	return nil
}

// Edit prompts for each editable field. An empty answer keeps the current
// value; "-" clears the due date.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	current, known := a.tasks.Get(id)

	hint := func(label, value string) string {
		if known && value != "" {
			return fmt.Sprintf("%s [%s]", label, value)
		}
		return label
	}

	var in models.TaskInput
	fields := []struct {
		label string
		value string
		dst   **string
	}{
		{"New title", current.Title, &in.Title},
		{"New description", current.Description, &in.Description},
		{"New priority", current.Priority, &in.Priority},
		{"New due date (YYYY-MM-DD, - to clear)", "", &in.DueDate},
	}
	changed := false
	for _, f := range fields {
		v, err := a.prompt(hint(f.label, f.value))
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		if f.dst == &in.DueDate && v == "-" {
			v = ""
		}
		*f.dst = &v
		changed = true
	}
	if !changed {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	t, err := a.tasks.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", t.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	if err := a.tasks.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}
