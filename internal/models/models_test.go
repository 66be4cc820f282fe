package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewIDShape(t *testing.T) {
	id := NewID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(4), parsed.Version())

	require.NotEqual(t, id, NewID())
}

func TestFallbackIDShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		id := fallbackID()
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		require.Equal(t, uuid.Version(4), parsed.Version())
	}
}

func TestISOTimestamps(t *testing.T) {
	ts := NowISO()
	parsed, err := ParseISO(ts)
	require.NoError(t, err)
	require.Equal(t, time.UTC, parsed.Location())
	require.WithinDuration(t, time.Now(), parsed, time.Minute)

	_, err = ParseISO("yesterday")
	require.Error(t, err)
}

func TestOlderThan(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	age := 30 * 24 * time.Hour

	old := now.Add(-31 * 24 * time.Hour).Format(time.RFC3339Nano)
	recent := now.Add(-29 * 24 * time.Hour).Format(time.RFC3339Nano)

	require.True(t, OlderThan(old, age, now))
	require.False(t, OlderThan(recent, age, now))
	require.False(t, OlderThan("", age, now), "empty never expires")
	require.False(t, OlderThan("garbage", age, now))
}

func TestExpenseKindClassification(t *testing.T) {
	require.Equal(t, ExpenseKindTopUp, KindForName("Kia Top Up"))
	require.Equal(t, ExpenseKindTopUp, KindForName("  Kia Top Up  "))
	require.Equal(t, ExpenseKindDebit, KindForName("Kia top up"), "the marker is exact")
	require.Equal(t, ExpenseKindDebit, KindForName("Groceries"))
}

func TestExpenseSignedAmount(t *testing.T) {
	debit := Expense{Name: "Groceries", Amount: 50_000, Kind: ExpenseKindDebit}
	require.Equal(t, int64(-50_000), debit.SignedAmount())

	topUp := Expense{Name: "Salary", Amount: 5_000_000, Kind: ExpenseKindTopUp}
	require.Equal(t, int64(5_000_000), topUp.SignedAmount())

	// rows without a stored kind classify by the legacy marker name
	legacy := Expense{Name: TopUpMarker, Amount: 5_000_000}
	require.Equal(t, ExpenseKindTopUp, legacy.EffectiveKind())
	require.Equal(t, int64(5_000_000), legacy.SignedAmount())
}

func TestExpenseResolved(t *testing.T) {
	require.False(t, Expense{Status: ExpenseStatusPending}.Resolved())
	require.True(t, Expense{Status: ExpenseStatusApproved}.Resolved())
	require.True(t, Expense{Status: ExpenseStatusRejected}.Resolved())
}
