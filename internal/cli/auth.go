package cli

import (
	"context"
	"fmt"

	"github.com/avolkov/hearth/internal/common"
)

// Use selects the active owner profile by name. No password: regular
// profiles are a display identity, not an account.
func (c *CLI) Use(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: use <name>")
	}
	owner, ok := c.app.Owners.ByName(args[0])
	if !ok {
		return common.ErrOwnerNotFound
	}
	c.app.Settings.SetActiveOwner(owner.ID)
	fmt.Fprintf(c.out, "Active owner: %s\n", owner.Name)
	return nil
}

// Unlock opens an admin session for the active owner.
func (c *CLI) Unlock(ctx context.Context) error {
	owner, ok := c.activeOwner()
	if !ok {
		return common.ErrOwnerNotFound
	}

	pw, err := GetPassword(c.out)
	if err != nil {
		return err
	}

	if _, err := c.app.Unlock(ctx, owner.Name, string(pw)); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Unlocked.")
	return nil
}

func (c *CLI) Lock(ctx context.Context) error {
	c.app.Lock()
	fmt.Fprintln(c.out, "Locked.")
	return nil
}

func (c *CLI) ListOwners(ctx context.Context) error {
	owners := c.app.Owners.List()
	if len(owners) == 0 {
		fmt.Fprintln(c.out, "No owners yet.")
		return nil
	}
	for i, o := range owners {
		marker := ""
		if o.IsMaster {
			marker = " (admin)"
		}
		fmt.Fprintf(c.out, "%3d. %s%s\n", i+1, o.Name, marker)
	}
	return nil
}

// AddOwner creates a profile; admin profiles require an unlocked session and
// a password for the new admin.
func (c *CLI) AddOwner(ctx context.Context) error {
	name, err := GetSimpleText(c.reader, "Owner name:", c.out)
	if err != nil {
		return err
	}
	isAdmin, err := GetSimpleText(c.reader, "Admin profile? (y/N):", c.out)
	if err != nil {
		return err
	}

	password := ""
	if isAdmin == "y" || isAdmin == "Y" {
		if !c.isUnlocked() {
			return common.ErrPermissionDenied
		}
		pw, err := GetPassword(c.out)
		if err != nil {
			return err
		}
		password = string(pw)
	}

	owner, err := c.app.Owners.Add(ctx, name, password, password != "")
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added owner %s\n", owner.Name)
	return nil
}

// requireApprover checks the active owner may resolve expenses.
func (c *CLI) requireApprover(ctx context.Context) (string, error) {
	owner, ok := c.activeOwner()
	if !ok {
		return "", common.ErrOwnerNotFound
	}
	if !c.app.Permissions.CanApproveExpenses(ctx, owner) {
		return "", common.ErrPermissionDenied
	}
	return owner.Name, nil
}
