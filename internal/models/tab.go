package models

// RunningTabID is the primary key of the singleton running_tab row.
const RunningTabID = "main"

// RunningTab is the shared household balance. CurrentBalance is a cached
// value; the full ledger in tab_history is the audit trail it derives from.
// The balance must only ever change together with a matching history entry in
// the same state update.
type RunningTab struct {
	ID             string `json:"id"`
	InitialBalance int64  `json:"initialBalance"`
	CurrentBalance int64  `json:"currentBalance"`
	InitializedBy  string `json:"initializedBy,omitempty"`
	InitializedAt  string `json:"initializedAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// HistoryType classifies a ledger entry.
type HistoryType string

const (
	HistoryTypeInitial         HistoryType = "initial"
	HistoryTypeAdd             HistoryType = "add"
	HistoryTypeExpenseApproved HistoryType = "expense_approved"
	HistoryTypeExpenseRejected HistoryType = "expense_rejected"
	HistoryTypeAdjustment      HistoryType = "adjustment"
)

// TabHistoryEntry is an immutable audit record of a balance-affecting event.
// Amount is a signed delta; rejections always record 0.
type TabHistoryEntry struct {
	ID               string      `json:"id"`
	Type             HistoryType `json:"type"`
	Amount           int64       `json:"amount"`
	Description      string      `json:"description"`
	RelatedExpenseID string      `json:"relatedExpenseId,omitempty"`
	CreatedBy        string      `json:"createdBy,omitempty"`
	CreatedAt        string      `json:"createdAt"`
}
