package cli

import (
	"context"
	"fmt"

	"github.com/avolkov/hearth/internal/models"
)

func (c *CLI) Balance(ctx context.Context) error {
	st := c.app.Tab.State()
	if st.Tab == nil {
		fmt.Fprintln(c.out, "Balance not initialized (run 'init').")
		return nil
	}
	fmt.Fprintf(c.out, "Balance: %d (started at %d on %s)\n",
		st.Tab.CurrentBalance, st.Tab.InitialBalance, st.Tab.InitializedAt)
	if pending := c.app.Tab.PendingExpenses(); len(pending) > 0 {
		fmt.Fprintf(c.out, "Pending expenses: %d\n", len(pending))
	}
	return nil
}

func (c *CLI) InitBalance(ctx context.Context) error {
	by, err := c.requireApprover(ctx)
	if err != nil {
		return err
	}
	amount, err := GetAmount(c.reader, "Initial balance:", c.out)
	if err != nil {
		return err
	}
	if err := c.app.Tab.InitializeBalance(ctx, amount, by); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Initialized.")
	return nil
}

func (c *CLI) AddBalance(ctx context.Context) error {
	by, err := c.requireApprover(ctx)
	if err != nil {
		return err
	}
	amount, err := GetAmount(c.reader, "Amount to add:", c.out)
	if err != nil {
		return err
	}
	desc, err := GetSimpleText(c.reader, "Description (optional):", c.out)
	if err != nil {
		return err
	}
	return c.app.Tab.AddToBalance(ctx, amount, desc, by)
}

func (c *CLI) AdjustBalance(ctx context.Context) error {
	by, err := c.requireApprover(ctx)
	if err != nil {
		return err
	}
	amount, err := GetAmount(c.reader, "New balance:", c.out)
	if err != nil {
		return err
	}
	reason, err := GetSimpleText(c.reader, "Reason:", c.out)
	if err != nil {
		return err
	}
	return c.app.Tab.AdjustBalance(ctx, amount, reason, by)
}

func (c *CLI) ShowHistory(ctx context.Context) error {
	entries := c.app.Tab.History()
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No history.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(c.out, "%s  %-17s %+d  %s\n", e.CreatedAt, e.Type, e.Amount, e.Description)
	}
	return nil
}

func (c *CLI) ListExpenses(ctx context.Context) error {
	expenses := c.app.Tab.Expenses()
	if len(expenses) == 0 {
		fmt.Fprintln(c.out, "No expenses.")
		return nil
	}
	for i, e := range expenses {
		sign := "-"
		if e.EffectiveKind() == models.ExpenseKindTopUp {
			sign = "+"
		}
		fmt.Fprintf(c.out, "%3d. %-9s %s%d  %s\n", i+1, e.Status, sign, e.Amount, e.Name)
	}
	return nil
}

func (c *CLI) AddExpense(ctx context.Context) error {
	name, err := GetSimpleText(c.reader, "Expense name:", c.out)
	if err != nil {
		return err
	}
	amount, err := GetAmount(c.reader, "Amount:", c.out)
	if err != nil {
		return err
	}
	topup, err := GetSimpleText(c.reader, "Top-up? (y/N):", c.out)
	if err != nil {
		return err
	}
	kind := models.ExpenseKind("")
	if topup == "y" || topup == "Y" {
		kind = models.ExpenseKindTopUp
	}

	if _, err := c.app.Tab.AddExpense(ctx, name, amount, kind, c.actorName(), ""); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Filed for approval.")
	return nil
}

func (c *CLI) Approve(ctx context.Context, args []string) error {
	by, err := c.requireApprover(ctx)
	if err != nil {
		return err
	}
	expenses := c.app.Tab.Expenses()
	i, err := listIndex(args, len(expenses))
	if err != nil {
		return err
	}
	return c.app.Tab.ApproveExpense(ctx, expenses[i].ID, by)
}

func (c *CLI) ApproveAll(ctx context.Context) error {
	by, err := c.requireApprover(ctx)
	if err != nil {
		return err
	}
	return c.app.Tab.ApproveAllPendingExpenses(ctx, by)
}

func (c *CLI) Reject(ctx context.Context, args []string) error {
	by, err := c.requireApprover(ctx)
	if err != nil {
		return err
	}
	expenses := c.app.Tab.Expenses()
	i, err := listIndex(args, len(expenses))
	if err != nil {
		return err
	}
	reason, err := GetSimpleText(c.reader, "Rejection reason:", c.out)
	if err != nil {
		return err
	}
	return c.app.Tab.RejectExpense(ctx, expenses[i].ID, reason, by)
}

func (c *CLI) RejectAll(ctx context.Context) error {
	by, err := c.requireApprover(ctx)
	if err != nil {
		return err
	}
	reason, err := GetSimpleText(c.reader, "Rejection reason:", c.out)
	if err != nil {
		return err
	}
	return c.app.Tab.RejectAllPendingExpenses(ctx, reason, by)
}

func (c *CLI) ClearCompleted(ctx context.Context) error {
	return c.app.Tab.ClearCompletedExpenses(ctx)
}
