// Package cli is the interactive terminal front end. It is a thin layer over
// the app: every command reads its arguments, calls one store action and
// prints the result. State changes reach the screen through the stores, not
// through command-local bookkeeping.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/avolkov/hearth/internal/app"
	"github.com/avolkov/hearth/internal/models"
)

type CLI struct {
	app    *app.App
	reader *bufio.Reader
	out    io.Writer
}

func NewCLI(a *app.App) *CLI {
	return &CLI{
		app:    a,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run starts the REPL and blocks until the user exits or ctx is cancelled.
func (c *CLI) Run(ctx context.Context) {
	fmt.Fprintln(c.out, "Hearth (type 'help' for commands)")
	runREPL(ctx, c, c.status, bufio.NewScanner(os.Stdin), c.out)
}

// status is the prompt fragment: the active owner's name, or "locked".
func (c *CLI) status() string {
	owner, ok := c.activeOwner()
	if !ok {
		return "locked"
	}
	if c.isUnlocked() {
		return owner.Name + "*"
	}
	return owner.Name
}

// activeOwner resolves the selected profile, unlocked or not.
func (c *CLI) activeOwner() (models.Owner, bool) {
	id := c.app.Settings.State().ActiveOwnerID
	if id == "" {
		return models.Owner{}, false
	}
	return c.app.Owners.ByID(id)
}

// isUnlocked reports whether a valid admin session exists.
func (c *CLI) isUnlocked() bool {
	_, ok := c.app.SessionOwner()
	return ok
}

// actorName is the name recorded in createdBy/approvedBy fields.
func (c *CLI) actorName() string {
	if owner, ok := c.activeOwner(); ok {
		return owner.Name
	}
	return ""
}
