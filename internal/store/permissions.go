package store

import (
	"context"
	"sort"
	"time"

	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
	"github.com/avolkov/hearth/internal/remote"
	"github.com/avolkov/hearth/internal/syncx"
)

// PermissionsState keys capability records by owner id. The backend delivers
// them as an array; this store does the conversion both ways.
type PermissionsState struct {
	ByOwner map[string]models.OwnerPermissions `json:"byOwner"`
}

// Permissions owns the per-owner capability map.
type Permissions struct {
	c      *Container[PermissionsState]
	remote remote.PermissionsRepository
	log    logging.Logger
}

func NewPermissions(repo remote.PermissionsRepository, log logging.Logger) *Permissions {
	return &Permissions{
		c:      NewContainer(PermissionsState{ByOwner: map[string]models.OwnerPermissions{}}),
		remote: repo,
		log:    log.With("store", "permissions"),
	}
}

// For returns the capability record for ownerID, lazily initializing the
// default entry for owners that lack one.
func (s *Permissions) For(ctx context.Context, ownerID string) models.OwnerPermissions {
	if p, ok := s.c.Get().ByOwner[ownerID]; ok {
		return p
	}

	p := models.DefaultPermissions(ownerID)
	s.set(ctx, p)
	return p
}

// CanApproveExpenses reports whether the owner may resolve expenses. Masters
// always may.
func (s *Permissions) CanApproveExpenses(ctx context.Context, o models.Owner) bool {
	return o.IsMaster || s.For(ctx, o.ID).CanApproveExpenses
}

// Set stores a capability record explicitly.
func (s *Permissions) Set(ctx context.Context, p models.OwnerPermissions) {
	s.set(ctx, p)
}

func (s *Permissions) set(ctx context.Context, p models.OwnerPermissions) {
	s.c.Update(func(st PermissionsState) PermissionsState {
		next := make(map[string]models.OwnerPermissions, len(st.ByOwner)+1)
		for k, v := range st.ByOwner {
			next[k] = v
		}
		next[p.OwnerID] = p
		st.ByOwner = next
		return st
	})

	if err := s.remote.Upsert(ctx, p); err != nil {
		s.log.Error(ctx, "permissions sync failed", "ownerId", p.OwnerID, "error", err)
	}
}

func (s *Permissions) asSlice() []models.OwnerPermissions {
	byOwner := s.c.Get().ByOwner
	out := make([]models.OwnerPermissions, 0, len(byOwner))
	for _, p := range byOwner {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out
}

func (s *Permissions) Hydrate(ctx context.Context, snaps *localdb.Snapshots) error {
	var st PermissionsState
	ok, err := snaps.Load(ctx, localdb.KeyPermissions, &st)
	if err != nil {
		return err
	}
	if ok {
		if st.ByOwner == nil {
			st.ByOwner = map[string]models.OwnerPermissions{}
		}
		s.c.Replace(st)
	}
	return nil
}

func (s *Permissions) AttachPersistence(ctx context.Context, snaps *localdb.Snapshots) {
	persistOn(ctx, s.c, snaps, localdb.KeyPermissions, func(st PermissionsState) PermissionsState { return st }, s.log)
}

func (s *Permissions) AttachPush(ctx context.Context, delay time.Duration) {
	deb := syncx.NewDebounced(delay)
	s.c.Subscribe(func(PermissionsState) {
		if !s.c.Loaded() {
			return
		}
		snapshot := s.asSlice()
		deb.Call(func() {
			if err := s.remote.UpsertAll(ctx, snapshot); err != nil {
				s.log.Error(ctx, "bulk permissions push failed", "error", err)
			}
		})
	})
}

// Domain applies the initial-load rule with the array-to-map conversion the
// backend's row shape requires.
func (s *Permissions) Domain(log logging.Logger, attempts int, base time.Duration) syncx.Domain {
	return syncx.SliceDomain[models.OwnerPermissions]{
		DomainName: "app_permissions",
		Log:        log,
		Attempts:   attempts,
		BaseDelay:  base,
		Fetch:      s.remote.FetchAll,
		Local:      s.asSlice,
		Apply: func(ps []models.OwnerPermissions) {
			byOwner := make(map[string]models.OwnerPermissions, len(ps))
			for _, p := range ps {
				byOwner[p.OwnerID] = p
			}
			s.c.Replace(PermissionsState{ByOwner: byOwner})
		},
		Push: s.remote.UpsertAll,
	}
}

func (s *Permissions) MarkLoaded() {
	s.c.MarkLoaded()
}
