package remote

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avolkov/hearth/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

var (
	taskSelectQ    = regexp.MustCompile(`SELECT id, title, priority, created_by, created_at, completed_by, completed_at, status, attachment_url, updated_at FROM tasks ORDER BY created_at DESC`)
	taskUpsertQ    = regexp.MustCompile(`INSERT INTO tasks .* ON CONFLICT \(id\) DO UPDATE SET .* updated_at = EXCLUDED\.updated_at`)
	expenseUpsertQ = regexp.MustCompile(`INSERT INTO expenses .* ON CONFLICT \(id\) DO UPDATE SET .* rejection_reason = EXCLUDED\.rejection_reason`)
	historyInsertQ = regexp.MustCompile(`INSERT INTO tab_history .* ON CONFLICT \(id\) DO NOTHING`)
)

var taskColumns = []string{
	"id", "title", "priority", "created_by", "created_at",
	"completed_by", "completed_at", "status", "attachment_url", "updated_at",
}

func TestTasksFetchAll_NullColumnsBecomeEmptyStrings(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(taskColumns).
		AddRow("t1", "Vacuum", "urgent", "ann", "2026-01-02T03:04:05Z",
			"ben", "2026-01-03T00:00:00Z", "completed", "https://files/vacuum.jpg", "2026-01-03T00:00:00Z").
		AddRow("t2", "Dishes", "regular", nil, "2026-01-04T00:00:00Z",
			nil, nil, "pending", nil, "2026-01-04T00:00:00Z")

	mock.ExpectQuery(taskSelectQ.String()).WillReturnRows(rows)

	got, err := NewPostgresTasks(db).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].CreatedBy != "ann" || got[0].CompletedBy != "ben" || got[0].AttachmentURL != "https://files/vacuum.jpg" {
		t.Fatalf("unexpected populated row: %+v", got[0])
	}
	if got[1].CreatedBy != "" || got[1].CompletedBy != "" || got[1].CompletedAt != "" || got[1].AttachmentURL != "" {
		t.Fatalf("NULL columns must map to empty strings: %+v", got[1])
	}
	if got[1].Status != models.TaskStatusPending || got[1].Priority != models.TaskPriorityRegular {
		t.Fatalf("unexpected typed columns: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTasksFetchAll_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery(taskSelectQ.String()).WillReturnError(errors.New("db is down"))

	_, err := NewPostgresTasks(db).FetchAll(context.Background())
	if err == nil || !regexp.MustCompile(`failed to select tasks: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped select error, got %v", err)
	}
}

func TestTasksFetchAll_RowError(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(taskColumns).
		AddRow("t1", "Vacuum", "regular", nil, "2026-01-02T00:00:00Z",
			nil, nil, "pending", nil, "2026-01-02T00:00:00Z").
		RowError(0, errors.New("row-err"))

	mock.ExpectQuery(taskSelectQ.String()).WillReturnRows(rows)

	_, err := NewPostgresTasks(db).FetchAll(context.Background())
	if err == nil || err.Error() != "row-err" {
		t.Fatalf("expected rows.Err 'row-err', got %v", err)
	}
}

func TestExpensesUpsert_BindsNullableColumnsAsNULL(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(expenseUpsertQ.String()).
		WithArgs("x1", "Lego set", int64(50000), "debit", "ann", "2026-02-01T00:00:00Z",
			nil, nil, "pending", nil, nil, "2026-02-01T00:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewPostgresExpenses(db).Upsert(context.Background(), models.Expense{
		ID:        "x1",
		Name:      "Lego set",
		Amount:    50000,
		Kind:      models.ExpenseKindDebit,
		CreatedBy: "ann",
		CreatedAt: "2026-02-01T00:00:00Z",
		Status:    models.ExpenseStatusPending,
		UpdatedAt: "2026-02-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpensesUpsert_BindsResolvedColumns(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(expenseUpsertQ.String()).
		WithArgs("x2", "Gadget", int64(120000), "debit", "ann", "2026-02-01T00:00:00Z",
			"ben", "2026-02-02T00:00:00Z", "rejected", nil, "too expensive", "2026-02-02T00:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewPostgresExpenses(db).Upsert(context.Background(), models.Expense{
		ID:              "x2",
		Name:            "Gadget",
		Amount:          120000,
		Kind:            models.ExpenseKindDebit,
		CreatedBy:       "ann",
		CreatedAt:       "2026-02-01T00:00:00Z",
		ApprovedBy:      "ben",
		ApprovedAt:      "2026-02-02T00:00:00Z",
		Status:          models.ExpenseStatusRejected,
		RejectionReason: "too expensive",
		UpdatedAt:       "2026-02-02T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpensesUpsert_ExecError(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(expenseUpsertQ.String()).WillReturnError(errors.New("db is down"))

	err := NewPostgresExpenses(db).Upsert(context.Background(), models.Expense{ID: "x1"})
	if err == nil || !regexp.MustCompile(`failed to upsert expense: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}
}

func TestTasksUpsertAll_CommitsOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(taskUpsertQ.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(taskUpsertQ.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewPostgresTasks(db).UpsertAll(context.Background(), []models.Task{
		{ID: "t1", Title: "Vacuum", Priority: models.TaskPriorityRegular, Status: models.TaskStatusPending},
		{ID: "t2", Title: "Dishes", Priority: models.TaskPriorityUrgent, Status: models.TaskStatusPending},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTasksUpsertAll_RollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(taskUpsertQ.String()).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := NewPostgresTasks(db).UpsertAll(context.Background(), []models.Task{
		{ID: "t1", Title: "Vacuum"},
		{ID: "t2", Title: "Dishes"},
	})
	if err == nil || !regexp.MustCompile(`failed to upsert task: .*constraint`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped upsert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTasksUpsertAll_ReusesExistingTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(taskUpsertQ.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}

	// a repo handed a tx must not open a nested transaction
	err = NewPostgresTasks(tx).UpsertAll(context.Background(), []models.Task{{ID: "t1", Title: "Vacuum"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTasksDelete_BindsID(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewPostgresTasks(db).Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHistoryUpsert_ConflictLeavesRowUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(historyInsertQ.String()).
		WithArgs("h1", "initial", int64(1000000), "Started the tab", nil, "ann", "2026-02-01T00:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostgresHistory(db).Upsert(context.Background(), models.TabHistoryEntry{
		ID:          "h1",
		Type:        models.HistoryTypeInitial,
		Amount:      1000000,
		Description: "Started the tab",
		CreatedBy:   "ann",
		CreatedAt:   "2026-02-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
