package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkov/hearth/internal/models"
)

func (c *CLI) ListEvents(ctx context.Context) error {
	events := c.app.Events.List()
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No scheduled events.")
		return nil
	}
	now := time.Now()
	for i, e := range events {
		mark := " "
		if e.Status == models.TaskStatusCompleted {
			mark = "x"
		}
		late := ""
		if at, err := models.ParseISO(e.ScheduledAt); err == nil && e.Status == models.TaskStatusPending && at.Before(now) {
			late = " (overdue)"
		}
		fmt.Fprintf(c.out, "%3d. [%s] %s  %s%s\n", i+1, mark, e.ScheduledAt, e.Title, late)
	}
	return nil
}

func (c *CLI) AddEvent(ctx context.Context) error {
	title, err := GetSimpleText(c.reader, "Event title:", c.out)
	if err != nil {
		return err
	}
	when, err := GetSimpleText(c.reader, "Scheduled at (RFC 3339, e.g. 2026-09-01T18:00:00Z):", c.out)
	if err != nil {
		return err
	}

	if _, err := c.app.Events.Add(ctx, title, when, c.actorName()); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Scheduled.")
	return nil
}

func (c *CLI) CompleteEvent(ctx context.Context, args []string) error {
	events := c.app.Events.List()
	i, err := listIndex(args, len(events))
	if err != nil {
		return err
	}
	return c.app.Events.Complete(ctx, events[i].ID, c.actorName())
}
