package models

import "strings"

// ExpenseStatus is the expense lifecycle state. Pending expenses may be
// approved or rejected; both outcomes are terminal.
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
)

// ExpenseKind determines which direction an approved expense moves the
// running-tab balance.
type ExpenseKind string

const (
	ExpenseKindDebit ExpenseKind = "debit"
	ExpenseKindTopUp ExpenseKind = "top_up"
)

// TopUpMarker is the legacy expense name that historically meant "credit".
// Rows without an explicit kind still get classified by it, so data written
// before the kind column existed keeps its balance direction.
const TopUpMarker = "Kia Top Up"

// KindForName classifies an expense name using the legacy marker.
func KindForName(name string) ExpenseKind {
	if strings.TrimSpace(name) == TopUpMarker {
		return ExpenseKindTopUp
	}
	return ExpenseKindDebit
}

// Expense is a spending request against the shared running tab. Amount is in
// integer currency units and always positive; Kind carries the direction.
type Expense struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Amount          int64         `json:"amount"`
	Kind            ExpenseKind   `json:"kind"`
	CreatedBy       string        `json:"createdBy,omitempty"`
	CreatedAt       string        `json:"createdAt"`
	ApprovedBy      string        `json:"approvedBy,omitempty"`
	ApprovedAt      string        `json:"approvedAt,omitempty"`
	Status          ExpenseStatus `json:"status"`
	AttachmentURL   string        `json:"attachmentUrl,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	UpdatedAt       string        `json:"updatedAt"`
}

// EffectiveKind returns the stored kind, falling back to name classification
// for rows that predate the kind column.
func (e Expense) EffectiveKind() ExpenseKind {
	if e.Kind != "" {
		return e.Kind
	}
	return KindForName(e.Name)
}

// SignedAmount is the delta an approval applies to the running balance.
func (e Expense) SignedAmount() int64 {
	if e.EffectiveKind() == ExpenseKindTopUp {
		return e.Amount
	}
	return -e.Amount
}

// Resolved reports whether the expense reached a terminal status.
func (e Expense) Resolved() bool {
	return e.Status != ExpenseStatusPending
}
