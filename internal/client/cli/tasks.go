package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
)

// List prints one page of the user's tasks. args may carry an optional
// page number and status filter, e.g. "list 2 completed".
func (a *App) List(ctx context.Context, args []string) error {
	opts := api.ListOptions{}

	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page number %q", args[0])
		}
		opts.Page = page
	}
	if len(args) > 1 {
		opts.Status = args[1]
	}

	tasks, pagination, err := a.client.ListTasks(ctx, opts)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	for _, task := range tasks {
		line := fmt.Sprintf("%d\t[%s]\t%s", task.ID, task.Status, task.Title)
		if task.Description != nil && *task.Description != "" {
			line += " - " + firstLine(*task.Description)
		}
		fmt.Println(line)
	}

	if pagination != nil {
		fmt.Printf("page %d of %d (%d total)\n",
			pagination.Page, pagination.TotalPages, pagination.Total)
	}
	return nil
}

// Add prompts for the fields of a new task and creates it.
// An empty status lets the server default to "pending".
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := GetMultiline(a.reader, "Enter description", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.client.CreateTask(ctx, title, description, "")
	if err != nil {
		return err
	}

	fmt.Printf("Created task %d\n", task.ID)
	return nil
}

// Update applies a partial update to a task by id.
// Fields left empty at the prompts remain unchanged.
func (a *App) Update(ctx context.Context, args []string) error {
	id, err := parseTaskID(args)
	if err != nil {
		return err
	}

	upd := api.TaskUpdate{}

	title, err := getSimpleText(a.reader, "New title (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		upd.Title = &title
	}

	description, err := getSimpleText(a.reader, "New description (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if description != "" {
		upd.Description = &description
	}

	status, err := getSimpleText(a.reader, "New status: pending, in_progress or completed (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if status != "" {
		upd.Status = &status
	}

	task, err := a.client.UpdateTask(ctx, id, upd)
	if err != nil {
		return err
	}

	fmt.Printf("Updated task %d [%s] %s\n", task.ID, task.Status, task.Title)
	return nil
}

// Delete removes a task by id.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseTaskID(args)
	if err != nil {
		return err
	}

	if err := a.client.DeleteTask(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Deleted task %d\n", id)
	return nil
}

func parseTaskID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("task id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
