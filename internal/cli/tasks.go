package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/avolkov/hearth/internal/models"
)

func (c *CLI) ListTasks(ctx context.Context) error {
	tasks := c.app.Tasks.List()
	if len(tasks) == 0 {
		fmt.Fprintln(c.out, "No tasks.")
		return nil
	}
	for i, t := range tasks {
		mark := " "
		if t.Completed() {
			mark = "x"
		}
		urgent := ""
		if t.Priority == models.TaskPriorityUrgent {
			urgent = " !"
		}
		fmt.Fprintf(c.out, "%3d. [%s] %s%s\n", i+1, mark, t.Title, urgent)
	}
	return nil
}

func (c *CLI) AddTask(ctx context.Context) error {
	title, err := GetSimpleText(c.reader, "Task title:", c.out)
	if err != nil {
		return err
	}
	pr, err := GetSimpleText(c.reader, "Urgent? (y/N):", c.out)
	if err != nil {
		return err
	}
	priority := models.TaskPriorityRegular
	if pr == "y" || pr == "Y" {
		priority = models.TaskPriorityUrgent
	}

	if _, err := c.app.Tasks.Add(ctx, title, priority, c.actorName(), ""); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Added.")
	return nil
}

func (c *CLI) ToggleTask(ctx context.Context, args []string) error {
	t, err := c.taskAt(args)
	if err != nil {
		return err
	}
	return c.app.Tasks.Toggle(ctx, t.ID, c.actorName())
}

// DeleteTask removes a completed task. The completed-only rule lives here,
// not in the store.
func (c *CLI) DeleteTask(ctx context.Context, args []string) error {
	t, err := c.taskAt(args)
	if err != nil {
		return err
	}
	if !t.Completed() {
		return fmt.Errorf("task %q is not completed", t.Title)
	}
	return c.app.Tasks.Delete(ctx, t.ID)
}

// taskAt resolves a 1-based list position from the args.
func (c *CLI) taskAt(args []string) (models.Task, error) {
	tasks := c.app.Tasks.List()
	i, err := listIndex(args, len(tasks))
	if err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}

// listIndex parses args[0] as a 1-based position into a list of length n.
func listIndex(args []string, n int) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: <command> <number>")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("no item %q (have %d)", args[0], n)
	}
	return i - 1, nil
}
