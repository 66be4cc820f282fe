package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
	"github.com/avolkov/hearth/internal/remote"
	"github.com/avolkov/hearth/internal/syncx"
)

// TabState is the ledger store's state: the singleton tab, the expense list
// and the history ledger, both newest first.
type TabState struct {
	Tab           *models.RunningTab       `json:"tab,omitempty"`
	Expenses      []models.Expense         `json:"expenses"`
	History       []models.TabHistoryEntry `json:"history"`
	SearchedMonth string                   `json:"searchedMonth,omitempty"`
}

// persistedTab is the snapshot subset. History is deliberately excluded from
// local persistence and re-fetched from the backend on load; the ad-hoc
// searched month is kept.
type persistedTab struct {
	Tab           *models.RunningTab `json:"tab,omitempty"`
	Expenses      []models.Expense   `json:"expenses"`
	SearchedMonth string             `json:"searchedMonth,omitempty"`
}

// AttachmentDeleter removes stored attachment blobs by URL.
type AttachmentDeleter interface {
	DeleteByURL(ctx context.Context, url string) error
}

// Tab owns the shared running-tab ledger. Every balance mutation appends its
// matching history entry in the same atomic state update, so the cached
// CurrentBalance always equals InitialBalance plus the sum of history deltas.
type Tab struct {
	c           *Container[TabState]
	tabs        remote.TabRepository
	expenses    remote.ExpenseRepository
	history     remote.HistoryRepository
	attachments AttachmentDeleter
	log         logging.Logger
	now         func() time.Time
}

func NewTab(tabs remote.TabRepository, expenses remote.ExpenseRepository, history remote.HistoryRepository, attachments AttachmentDeleter, log logging.Logger) *Tab {
	return &Tab{
		c:           NewContainer(TabState{}),
		tabs:        tabs,
		expenses:    expenses,
		history:     history,
		attachments: attachments,
		log:         log.With("store", "runningTab"),
		now:         time.Now,
	}
}

func (s *Tab) State() TabState {
	return s.c.Get()
}

// Balance returns the cached current balance, or 0 when no tab exists.
func (s *Tab) Balance() int64 {
	if tab := s.c.Get().Tab; tab != nil {
		return tab.CurrentBalance
	}
	return 0
}

func (s *Tab) History() []models.TabHistoryEntry {
	return s.c.Get().History
}

func (s *Tab) Expenses() []models.Expense {
	return s.c.Get().Expenses
}

func (s *Tab) PendingExpenses() []models.Expense {
	var out []models.Expense
	for _, e := range s.c.Get().Expenses {
		if !e.Resolved() {
			out = append(out, e)
		}
	}
	return out
}

func (s *Tab) expenseByID(id string) (models.Expense, bool) {
	for _, e := range s.c.Get().Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return models.Expense{}, false
}

// SetSearchedMonth records the month ("2026-08") the ledger view last
// queried; it rides along in the local snapshot.
func (s *Tab) SetSearchedMonth(month string) {
	s.c.Update(func(st TabState) TabState {
		st.SearchedMonth = month
		return st
	})
}

// InitializeBalance creates the tab and its `initial` history entry in one
// atomic update. First call wins; a second initialize is rejected.
func (s *Tab) InitializeBalance(ctx context.Context, amount int64, by string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if s.c.Get().Tab != nil {
		return common.ErrTabInitialized
	}

	now := models.NowISO()
	tab := models.RunningTab{
		ID:             models.RunningTabID,
		InitialBalance: amount,
		CurrentBalance: amount,
		InitializedBy:  by,
		InitializedAt:  now,
		UpdatedAt:      now,
	}
	entry := models.TabHistoryEntry{
		ID:          models.NewID(),
		Type:        models.HistoryTypeInitial,
		Amount:      amount,
		Description: "Initial balance",
		CreatedBy:   by,
		CreatedAt:   now,
	}

	s.c.Update(func(st TabState) TabState {
		st.Tab = &tab
		st.History = append([]models.TabHistoryEntry{entry}, st.History...)
		return st
	})

	s.mirrorTab(ctx, tab)
	s.mirrorHistory(ctx, entry)
	return nil
}

// AdjustBalance replaces the balance outright and records the derived delta
// as an `adjustment` entry. The delta exists for the audit trail, not for
// the mutation itself.
func (s *Tab) AdjustBalance(ctx context.Context, newBalance int64, reason, by string) error {
	if strings.TrimSpace(reason) == "" {
		return common.ErrEmptyReason
	}
	cur := s.c.Get().Tab
	if cur == nil {
		return common.ErrTabNotInitialized
	}

	now := models.NowISO()
	entry := models.TabHistoryEntry{
		ID:          models.NewID(),
		Type:        models.HistoryTypeAdjustment,
		Amount:      newBalance - cur.CurrentBalance,
		Description: reason,
		CreatedBy:   by,
		CreatedAt:   now,
	}

	var tab models.RunningTab
	s.c.Update(func(st TabState) TabState {
		t := *st.Tab
		t.CurrentBalance = newBalance
		t.UpdatedAt = now
		st.Tab = &t
		st.History = append([]models.TabHistoryEntry{entry}, st.History...)
		tab = t
		return st
	})

	s.mirrorTab(ctx, tab)
	s.mirrorHistory(ctx, entry)
	return nil
}

// AddToBalance credits the tab and records an `add` entry.
func (s *Tab) AddToBalance(ctx context.Context, amount int64, description, by string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if s.c.Get().Tab == nil {
		return common.ErrTabNotInitialized
	}
	if strings.TrimSpace(description) == "" {
		description = "Added to balance"
	}

	now := models.NowISO()
	entry := models.TabHistoryEntry{
		ID:          models.NewID(),
		Type:        models.HistoryTypeAdd,
		Amount:      amount,
		Description: description,
		CreatedBy:   by,
		CreatedAt:   now,
	}

	var tab models.RunningTab
	s.c.Update(func(st TabState) TabState {
		t := *st.Tab
		t.CurrentBalance += amount
		t.UpdatedAt = now
		st.Tab = &t
		st.History = append([]models.TabHistoryEntry{entry}, st.History...)
		tab = t
		return st
	})

	s.mirrorTab(ctx, tab)
	s.mirrorHistory(ctx, entry)
	return nil
}

// AddExpense files a pending expense. Amount is always positive; the kind
// carries the balance direction and is classified from the name when the
// caller does not set one.
func (s *Tab) AddExpense(ctx context.Context, name string, amount int64, kind models.ExpenseKind, by, attachmentURL string) (models.Expense, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Expense{}, common.ErrEmptyName
	}
	if amount <= 0 {
		return models.Expense{}, common.ErrInvalidAmount
	}
	if kind == "" {
		kind = models.KindForName(name)
	}

	now := models.NowISO()
	e := models.Expense{
		ID:            models.NewID(),
		Name:          name,
		Amount:        amount,
		Kind:          kind,
		CreatedBy:     by,
		CreatedAt:     now,
		Status:        models.ExpenseStatusPending,
		AttachmentURL: attachmentURL,
		UpdatedAt:     now,
	}

	s.c.Update(func(st TabState) TabState {
		st.Expenses = append([]models.Expense{e}, st.Expenses...)
		return st
	})

	if err := s.expenses.Upsert(ctx, e); err != nil {
		s.log.Error(ctx, "expense sync failed", "id", e.ID, "error", err)
	}
	return e, nil
}

// ApproveExpense resolves one pending expense. Approving an already resolved
// expense is a silent no-op.
func (s *Tab) ApproveExpense(ctx context.Context, id, by string) error {
	e, ok := s.expenseByID(id)
	if !ok {
		return common.ErrNotFound
	}
	if e.Resolved() {
		return nil
	}
	return s.approve(ctx, by, func(candidate models.Expense) bool { return candidate.ID == id })
}

// ApproveAllPendingExpenses resolves every pending expense in one atomic
// state update, then mirrors the batch remotely.
func (s *Tab) ApproveAllPendingExpenses(ctx context.Context, by string) error {
	return s.approve(ctx, by, func(models.Expense) bool { return true })
}

// approve applies the matched pending expenses to the balance and appends
// one history entry per expense, all merged into a single state update so
// subscribers never see an expense resolved without its balance effect.
func (s *Tab) approve(ctx context.Context, by string, match func(models.Expense) bool) error {
	if s.c.Get().Tab == nil {
		return common.ErrTabNotInitialized
	}

	now := models.NowISO()
	var resolved []models.Expense
	var entries []models.TabHistoryEntry
	var tab models.RunningTab

	s.c.Update(func(st TabState) TabState {
		next := make([]models.Expense, len(st.Expenses))
		copy(next, st.Expenses)
		t := *st.Tab

		for i, e := range next {
			if e.Resolved() || !match(e) {
				continue
			}

			e.Status = models.ExpenseStatusApproved
			e.ApprovedBy = by
			e.ApprovedAt = now
			e.UpdatedAt = now
			next[i] = e
			resolved = append(resolved, e)

			delta := e.SignedAmount()
			t.CurrentBalance += delta
			t.UpdatedAt = now

			entryType := models.HistoryTypeExpenseApproved
			if e.EffectiveKind() == models.ExpenseKindTopUp {
				entryType = models.HistoryTypeAdd
			}
			entries = append(entries, models.TabHistoryEntry{
				ID:               models.NewID(),
				Type:             entryType,
				Amount:           delta,
				Description:      e.Name,
				RelatedExpenseID: e.ID,
				CreatedBy:        by,
				CreatedAt:        now,
			})
		}

		st.Expenses = next
		st.Tab = &t
		st.History = append(reversed(entries), st.History...)
		tab = t
		return st
	})

	if len(resolved) == 0 {
		return nil
	}

	for _, e := range resolved {
		if err := s.expenses.Upsert(ctx, e); err != nil {
			s.log.Error(ctx, "expense sync failed", "id", e.ID, "error", err)
		}
	}
	s.mirrorTab(ctx, tab)
	if err := s.history.UpsertAll(ctx, entries); err != nil {
		s.log.Error(ctx, "history sync failed", "error", err)
	}
	return nil
}

// RejectExpense resolves one pending expense with no balance effect. The
// reason is mandatory and checked before any mutation; rejecting an already
// resolved expense is a silent no-op.
func (s *Tab) RejectExpense(ctx context.Context, id, reason, by string) error {
	if strings.TrimSpace(reason) == "" {
		return common.ErrEmptyReason
	}
	e, ok := s.expenseByID(id)
	if !ok {
		return common.ErrNotFound
	}
	if e.Resolved() {
		return nil
	}
	return s.reject(ctx, reason, by, func(candidate models.Expense) bool { return candidate.ID == id })
}

// RejectAllPendingExpenses rejects every pending expense with one shared
// reason.
func (s *Tab) RejectAllPendingExpenses(ctx context.Context, reason, by string) error {
	if strings.TrimSpace(reason) == "" {
		return common.ErrEmptyReason
	}
	return s.reject(ctx, reason, by, func(models.Expense) bool { return true })
}

func (s *Tab) reject(ctx context.Context, reason, by string, match func(models.Expense) bool) error {
	now := models.NowISO()
	var resolved []models.Expense
	var entries []models.TabHistoryEntry

	s.c.Update(func(st TabState) TabState {
		next := make([]models.Expense, len(st.Expenses))
		copy(next, st.Expenses)

		for i, e := range next {
			if e.Resolved() || !match(e) {
				continue
			}

			e.Status = models.ExpenseStatusRejected
			e.RejectionReason = reason
			e.ApprovedBy = by
			e.ApprovedAt = now
			e.UpdatedAt = now
			next[i] = e
			resolved = append(resolved, e)

			entries = append(entries, models.TabHistoryEntry{
				ID:               models.NewID(),
				Type:             models.HistoryTypeExpenseRejected,
				Amount:           0,
				Description:      fmt.Sprintf("%s: %s", e.Name, reason),
				RelatedExpenseID: e.ID,
				CreatedBy:        by,
				CreatedAt:        now,
			})
		}

		st.Expenses = next
		st.History = append(reversed(entries), st.History...)
		return st
	})

	if len(resolved) == 0 {
		return nil
	}

	for _, e := range resolved {
		if err := s.expenses.Upsert(ctx, e); err != nil {
			s.log.Error(ctx, "expense sync failed", "id", e.ID, "error", err)
		}
	}
	if err := s.history.UpsertAll(ctx, entries); err != nil {
		s.log.Error(ctx, "history sync failed", "error", err)
	}
	return nil
}

// ClearCompletedExpenses removes every resolved expense, locally and
// remotely, and cleans up their attachment blobs. Pending expenses are
// untouched.
func (s *Tab) ClearCompletedExpenses(ctx context.Context) error {
	s.removeExpenses(ctx, func(e models.Expense) bool { return e.Resolved() })
	return nil
}

// AutoCleanExpiredExpenses removes resolved expenses whose resolution
// timestamp is older than ttl. Pending expenses are exempt regardless of
// age. Runs once per startup after initial load.
func (s *Tab) AutoCleanExpiredExpenses(ctx context.Context, ttl time.Duration) {
	now := s.now()
	s.removeExpenses(ctx, func(e models.Expense) bool {
		return e.Resolved() && models.OlderThan(e.ApprovedAt, ttl, now)
	})
}

func (s *Tab) removeExpenses(ctx context.Context, match func(models.Expense) bool) {
	var removed []models.Expense

	s.c.Update(func(st TabState) TabState {
		next := make([]models.Expense, 0, len(st.Expenses))
		for _, e := range st.Expenses {
			if match(e) {
				removed = append(removed, e)
				continue
			}
			next = append(next, e)
		}
		st.Expenses = next
		return st
	})

	for _, e := range removed {
		if err := s.expenses.Delete(ctx, e.ID); err != nil {
			s.log.Error(ctx, "expense delete failed remotely", "id", e.ID, "error", err)
		}
		if e.AttachmentURL != "" && s.attachments != nil {
			if err := s.attachments.DeleteByURL(ctx, e.AttachmentURL); err != nil {
				s.log.Error(ctx, "attachment delete failed", "id", e.ID, "error", err)
			}
		}
	}
}

func (s *Tab) mirrorTab(ctx context.Context, tab models.RunningTab) {
	if err := s.tabs.Upsert(ctx, tab); err != nil {
		s.log.Error(ctx, "tab sync failed", "error", err)
	}
}

func (s *Tab) mirrorHistory(ctx context.Context, entry models.TabHistoryEntry) {
	if err := s.history.Upsert(ctx, entry); err != nil {
		s.log.Error(ctx, "history sync failed", "id", entry.ID, "error", err)
	}
}

// reversed returns a copy with the order flipped, so a batch of entries
// created oldest-to-newest prepends as newest-first.
func reversed(entries []models.TabHistoryEntry) []models.TabHistoryEntry {
	out := make([]models.TabHistoryEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

func (s *Tab) Hydrate(ctx context.Context, snaps *localdb.Snapshots) error {
	var p persistedTab
	ok, err := snaps.Load(ctx, localdb.KeyTab, &p)
	if err != nil {
		return err
	}
	if ok {
		s.c.Replace(TabState{Tab: p.Tab, Expenses: p.Expenses, SearchedMonth: p.SearchedMonth})
	}
	return nil
}

func (s *Tab) AttachPersistence(ctx context.Context, snaps *localdb.Snapshots) {
	persistOn(ctx, s.c, snaps, localdb.KeyTab, func(st TabState) persistedTab {
		return persistedTab{Tab: st.Tab, Expenses: st.Expenses, SearchedMonth: st.SearchedMonth}
	}, s.log)
}

// AttachPush wires one debounced push per backing table: the tab row, the
// expense slice and the history slice each mirror independently.
func (s *Tab) AttachPush(ctx context.Context, delay time.Duration) {
	tabDeb := syncx.NewDebounced(delay)
	expDeb := syncx.NewDebounced(delay)
	histDeb := syncx.NewDebounced(delay)

	s.c.Subscribe(func(st TabState) {
		if !s.c.Loaded() {
			return
		}

		if st.Tab != nil {
			tab := *st.Tab
			tabDeb.Call(func() {
				if err := s.tabs.Upsert(ctx, tab); err != nil {
					s.log.Error(ctx, "tab push failed", "error", err)
				}
			})
		}

		expenses := st.Expenses
		expDeb.Call(func() {
			if err := s.expenses.UpsertAll(ctx, expenses); err != nil {
				s.log.Error(ctx, "bulk expense push failed", "error", err)
			}
		})

		history := st.History
		histDeb.Call(func() {
			if err := s.history.UpsertAll(ctx, history); err != nil {
				s.log.Error(ctx, "bulk history push failed", "error", err)
			}
		})
	})
}

// Domains adapts the store's three backing tables to the reconciler.
func (s *Tab) Domains(log logging.Logger, attempts int, base time.Duration) []syncx.Domain {
	return []syncx.Domain{
		syncx.SliceDomain[models.RunningTab]{
			DomainName: "running_tab",
			Log:        log,
			Attempts:   attempts,
			BaseDelay:  base,
			Fetch:      s.tabs.FetchAll,
			Local: func() []models.RunningTab {
				if tab := s.c.Get().Tab; tab != nil {
					return []models.RunningTab{*tab}
				}
				return nil
			},
			Apply: func(tabs []models.RunningTab) {
				tab := tabs[0]
				s.c.Update(func(st TabState) TabState {
					st.Tab = &tab
					return st
				})
			},
			Push: s.tabs.UpsertAll,
		},
		syncx.SliceDomain[models.Expense]{
			DomainName: "expenses",
			Log:        log,
			Attempts:   attempts,
			BaseDelay:  base,
			Fetch:      s.expenses.FetchAll,
			Local:      func() []models.Expense { return s.c.Get().Expenses },
			Apply: func(es []models.Expense) {
				s.c.Update(func(st TabState) TabState {
					st.Expenses = es
					return st
				})
			},
			Push: s.expenses.UpsertAll,
		},
		syncx.SliceDomain[models.TabHistoryEntry]{
			DomainName: "tab_history",
			Log:        log,
			Attempts:   attempts,
			BaseDelay:  base,
			Fetch:      s.history.FetchAll,
			Local:      func() []models.TabHistoryEntry { return s.c.Get().History },
			Apply: func(es []models.TabHistoryEntry) {
				s.c.Update(func(st TabState) TabState {
					st.History = es
					return st
				})
			},
			Push: s.history.UpsertAll,
		},
	}
}

func (s *Tab) MarkLoaded() {
	s.c.MarkLoaded()
}
