package remote

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Manager opens the backend connection once and hands out the per-table
// repositories bound to it.
type Manager struct {
	db          *sql.DB
	tasks       TaskRepository
	events      EventRepository
	expenses    ExpenseRepository
	owners      OwnerRepository
	permissions PermissionsRepository
	tags        TagRepository
	tab         TabRepository
	history     HistoryRepository
}

// NewManager connects to the backend through the pgx stdlib driver.
func NewManager(dsn string) (*Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &Manager{
		db:          db,
		tasks:       NewPostgresTasks(db),
		events:      NewPostgresEvents(db),
		expenses:    NewPostgresExpenses(db),
		owners:      NewPostgresOwners(db),
		permissions: NewPostgresPermissions(db),
		tags:        NewPostgresTags(db),
		tab:         NewPostgresTab(db),
		history:     NewPostgresHistory(db),
	}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) Conn() *sql.DB {
	return m.db
}

func (m *Manager) Tasks() TaskRepository              { return m.tasks }
func (m *Manager) Events() EventRepository            { return m.events }
func (m *Manager) Expenses() ExpenseRepository        { return m.expenses }
func (m *Manager) Owners() OwnerRepository            { return m.owners }
func (m *Manager) Permissions() PermissionsRepository { return m.permissions }
func (m *Manager) Tags() TagRepository                { return m.tags }
func (m *Manager) Tab() TabRepository                 { return m.tab }
func (m *Manager) History() HistoryRepository         { return m.history }
