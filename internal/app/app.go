// Package app wires the client together: local snapshot database, backend
// connection, attachment storage and the per-domain stores, in the startup
// order the sync engine requires (hydrate, persist, push, initial load).
package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/avolkov/hearth/internal/auth"
	"github.com/avolkov/hearth/internal/blob"
	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/config"
	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
	"github.com/avolkov/hearth/internal/remote"
	"github.com/avolkov/hearth/internal/store"
	"github.com/avolkov/hearth/internal/syncx"
)

// App owns every long-lived resource of a running client.
type App struct {
	Config *config.Config
	Log    logging.Logger

	Tasks       *store.Tasks
	Events      *store.Events
	Tab         *store.Tab
	Owners      *store.Owners
	Permissions *store.Permissions
	Tags        *store.Tags
	Settings    *store.Settings

	Blobs blob.Storage

	localDB *sql.DB
	manager *remote.Manager
}

// New opens the databases and builds the stores. No sync traffic happens
// here; Start runs the load sequence.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}

	manager, err := remote.NewManager(cfg.DatabaseDSN)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	// Attachment storage is optional: without it expense and task
	// attachments are disabled, everything else works.
	var blobs blob.Storage
	if s3, err := blob.NewS3Storage(ctx, cfg); err != nil {
		log.Warn(ctx, "attachment storage unavailable", "error", err)
	} else {
		blobs = s3
	}

	var deleter store.AttachmentDeleter
	if blobs != nil {
		deleter = blobs
	}

	return &App{
		Config:      cfg,
		Log:         log,
		Tasks:       store.NewTasks(manager.Tasks(), log),
		Events:      store.NewEvents(manager.Events(), log),
		Tab:         store.NewTab(manager.Tab(), manager.Expenses(), manager.History(), deleter, log),
		Owners:      store.NewOwners(manager.Owners(), log),
		Permissions: store.NewPermissions(manager.Permissions(), log),
		Tags:        store.NewTags(manager.Tags(), log),
		Settings:    store.NewSettings(log),
		Blobs:       blobs,
		localDB:     db,
		manager:     manager,
	}, nil
}

// Start runs the load sequence: hydrate from local snapshots, attach
// persistence and debounced pushes, reconcile every domain against the
// backend, then mark the stores loaded so pushes start flowing. Hydration
// and reconciliation happen before MarkLoaded, so neither triggers sync
// traffic of its own.
func (a *App) Start(ctx context.Context) error {
	snaps := localdb.NewSnapshots(a.localDB)
	cfg := a.Config

	type hydrator interface {
		Hydrate(ctx context.Context, snaps *localdb.Snapshots) error
		AttachPersistence(ctx context.Context, snaps *localdb.Snapshots)
	}
	hydrators := []hydrator{a.Tasks, a.Events, a.Tab, a.Owners, a.Permissions, a.Tags, a.Settings}

	for _, h := range hydrators {
		if err := h.Hydrate(ctx, snaps); err != nil {
			return err
		}
	}
	for _, h := range hydrators {
		h.AttachPersistence(ctx, snaps)
	}

	a.Tasks.AttachPush(ctx, cfg.SyncDebounce)
	a.Events.AttachPush(ctx, cfg.SyncDebounce)
	a.Tab.AttachPush(ctx, cfg.SyncDebounce)
	a.Owners.AttachPush(ctx, cfg.SyncDebounce)
	a.Permissions.AttachPush(ctx, cfg.SyncDebounce)
	a.Tags.AttachPush(ctx, cfg.SyncDebounce)

	domains := []syncx.Domain{
		a.Tasks.Domain(a.Log, cfg.RetryAttempts, cfg.RetryBaseDelay),
		a.Events.Domain(a.Log, cfg.RetryAttempts, cfg.RetryBaseDelay),
		a.Owners.Domain(a.Log, cfg.RetryAttempts, cfg.RetryBaseDelay),
		a.Permissions.Domain(a.Log, cfg.RetryAttempts, cfg.RetryBaseDelay),
		a.Tags.Domain(a.Log, cfg.RetryAttempts, cfg.RetryBaseDelay),
	}
	domains = append(domains, a.Tab.Domains(a.Log, cfg.RetryAttempts, cfg.RetryBaseDelay)...)
	syncx.InitialLoad(ctx, domains...)

	for _, s := range []interface{ MarkLoaded() }{a.Tasks, a.Events, a.Tab, a.Owners, a.Permissions, a.Tags} {
		s.MarkLoaded()
	}

	a.Tab.AutoCleanExpiredExpenses(ctx, cfg.ExpenseTTL)

	if overdue := a.Events.Overdue(time.Now()); len(overdue) > 0 {
		a.Log.Warn(ctx, "overdue scheduled events", "count", len(overdue))
	}

	a.Log.Info(ctx, "startup finished",
		"tasks", len(a.Tasks.List()),
		"events", len(a.Events.List()),
		"expenses", len(a.Tab.Expenses()),
		"owners", len(a.Owners.List()),
	)
	return nil
}

// Unlock verifies an admin owner's password and opens a session.
func (a *App) Unlock(ctx context.Context, name, password string) (models.Owner, error) {
	owner, err := a.Owners.Verify(name, password)
	if err != nil {
		return models.Owner{}, err
	}
	if !owner.IsMaster {
		return models.Owner{}, common.ErrNotMaster
	}

	token, err := auth.GenerateToken(owner.ID, []byte(a.Config.SessionSecret), a.Config.SessionTTL)
	if err != nil {
		return models.Owner{}, err
	}

	a.Settings.SetActiveOwner(owner.ID)
	a.Settings.SetSessionToken(token)
	return owner, nil
}

// SessionOwner resolves the stored session token to its owner, if the
// session is still valid.
func (a *App) SessionOwner() (models.Owner, bool) {
	token := a.Settings.State().SessionToken
	if token == "" {
		return models.Owner{}, false
	}
	id, err := auth.OwnerIDFromToken(token, []byte(a.Config.SessionSecret))
	if err != nil {
		return models.Owner{}, false
	}
	return a.Owners.ByID(id)
}

// Lock drops the admin session.
func (a *App) Lock() {
	a.Settings.SetSessionToken("")
}

// Close flushes every pending debounced push and releases the connections.
// Flushing before close is what guarantees the last local edit of a session
// reaches the backend.
func (a *App) Close(ctx context.Context) {
	syncx.FlushAll()

	if err := a.manager.Close(); err != nil {
		a.Log.Error(ctx, "backend close failed", "error", err)
	}
	if err := a.localDB.Close(); err != nil {
		a.Log.Error(ctx, "local db close failed", "error", err)
	}
}
