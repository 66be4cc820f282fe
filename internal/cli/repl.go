package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the minimal command surface the REPL dispatches to. The real
// CLI type satisfies it; tests can provide a stub.
type execIface interface {
	isUnlocked() bool

	Use(ctx context.Context, args []string) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error

	ListTasks(ctx context.Context) error
	AddTask(ctx context.Context) error
	ToggleTask(ctx context.Context, args []string) error
	DeleteTask(ctx context.Context, args []string) error

	ListEvents(ctx context.Context) error
	AddEvent(ctx context.Context) error
	CompleteEvent(ctx context.Context, args []string) error

	Balance(ctx context.Context) error
	InitBalance(ctx context.Context) error
	AddBalance(ctx context.Context) error
	AdjustBalance(ctx context.Context) error
	ShowHistory(ctx context.Context) error

	ListExpenses(ctx context.Context) error
	AddExpense(ctx context.Context) error
	Approve(ctx context.Context, args []string) error
	ApproveAll(ctx context.Context) error
	Reject(ctx context.Context, args []string) error
	RejectAll(ctx context.Context) error
	ClearCompleted(ctx context.Context) error

	ListOwners(ctx context.Context) error
	AddOwner(ctx context.Context) error
}

const helpLocked = `Available commands:
  use <name>        select an owner profile
  unlock            open an admin session (password required)
  tasks, events, balance, history, expenses   read-only views
  exit | quit`

const helpUnlocked = `Available commands:
  use <name> | unlock | lock
  tasks | addtask | toggle <n> | deltask <n>
  events | addevent | done <n>
  balance | init | topup | adjust | history
  expenses | addexpense | approve <n> | approveall | reject <n> | rejectall | clear
  owners | addowner
  exit | quit`

// runREPL reads a command per line and dispatches it. Command handlers print
// their own errors; the loop only reports unknown commands. It exits on EOF,
// "exit"/"quit", or ctx cancellation. The prompt and all loop output go to
// out, the same writer the command handlers use.
func runREPL(ctx context.Context, c execIface, statusFn func() string, scanner *bufio.Scanner, out io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(out, "hearth %s > ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if c.isUnlocked() {
				fmt.Fprintln(out, helpUnlocked)
			} else {
				fmt.Fprintln(out, helpLocked)
			}
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		case "use":
			err = c.Use(ctx, args)
		case "unlock":
			err = c.Unlock(ctx)
		case "lock":
			err = c.Lock(ctx)
		case "tasks":
			err = c.ListTasks(ctx)
		case "addtask":
			err = c.AddTask(ctx)
		case "toggle":
			err = c.ToggleTask(ctx, args)
		case "deltask":
			err = c.DeleteTask(ctx, args)
		case "events":
			err = c.ListEvents(ctx)
		case "addevent":
			err = c.AddEvent(ctx)
		case "done":
			err = c.CompleteEvent(ctx, args)
		case "balance":
			err = c.Balance(ctx)
		case "init":
			err = c.InitBalance(ctx)
		case "topup":
			err = c.AddBalance(ctx)
		case "adjust":
			err = c.AdjustBalance(ctx)
		case "history":
			err = c.ShowHistory(ctx)
		case "expenses":
			err = c.ListExpenses(ctx)
		case "addexpense":
			err = c.AddExpense(ctx)
		case "approve":
			err = c.Approve(ctx, args)
		case "approveall":
			err = c.ApproveAll(ctx)
		case "reject":
			err = c.Reject(ctx, args)
		case "rejectall":
			err = c.RejectAll(ctx)
		case "clear":
			err = c.ClearCompleted(ctx)
		case "owners":
			err = c.ListOwners(ctx)
		case "addowner":
			err = c.AddOwner(ctx)
		default:
			fmt.Fprintf(out, "Unknown command: %s (try 'help')\n", cmd)
		}

		if err != nil {
			fmt.Fprintln(out, "Error: "+err.Error())
		}
	}
}
