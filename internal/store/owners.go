package store

import (
	"context"
	"strings"
	"time"

	"github.com/avolkov/hearth/internal/auth"
	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
	"github.com/avolkov/hearth/internal/remote"
	"github.com/avolkov/hearth/internal/syncx"
)

// OwnersState is the profile list.
type OwnersState struct {
	Owners []models.Owner `json:"owners"`
}

// Owners owns the household profiles and their credentials.
type Owners struct {
	c      *Container[OwnersState]
	remote remote.OwnerRepository
	log    logging.Logger
}

func NewOwners(repo remote.OwnerRepository, log logging.Logger) *Owners {
	return &Owners{
		c:      NewContainer(OwnersState{}),
		remote: repo,
		log:    log.With("store", "owners"),
	}
}

func (s *Owners) List() []models.Owner {
	return s.c.Get().Owners
}

func (s *Owners) ByID(id string) (models.Owner, bool) {
	for _, o := range s.c.Get().Owners {
		if o.ID == id {
			return o, true
		}
	}
	return models.Owner{}, false
}

func (s *Owners) ByName(name string) (models.Owner, bool) {
	for _, o := range s.c.Get().Owners {
		if o.Name == name {
			return o, true
		}
	}
	return models.Owner{}, false
}

// Add creates a profile. A non-empty password is hashed; an empty one makes
// a passwordless profile, which cannot be a master.
func (s *Owners) Add(ctx context.Context, name, password string, isMaster bool) (models.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Owner{}, common.ErrEmptyName
	}
	if isMaster && password == "" {
		return models.Owner{}, common.ErrValidation
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Owner{}, err
	}

	o := models.Owner{
		ID:           models.NewID(),
		Name:         name,
		PasswordHash: hash,
		IsMaster:     isMaster,
		CreatedAt:    models.NowISO(),
	}

	s.c.Update(func(st OwnersState) OwnersState {
		st.Owners = append(st.Owners, o)
		return st
	})

	if err := s.remote.Upsert(ctx, o); err != nil {
		s.log.Error(ctx, "owner sync failed", "id", o.ID, "error", err)
	}
	return o, nil
}

// Verify checks a profile's password and returns the owner on success.
func (s *Owners) Verify(name, password string) (models.Owner, error) {
	o, ok := s.ByName(name)
	if !ok {
		return models.Owner{}, common.ErrOwnerNotFound
	}
	if !auth.VerifyPassword(o.PasswordHash, password) {
		return models.Owner{}, common.ErrInvalidPassword
	}
	return o, nil
}

func (s *Owners) Delete(ctx context.Context, id string) error {
	found := false

	s.c.Update(func(st OwnersState) OwnersState {
		next := make([]models.Owner, 0, len(st.Owners))
		for _, o := range st.Owners {
			if o.ID == id {
				found = true
				continue
			}
			next = append(next, o)
		}
		st.Owners = next
		return st
	})

	if !found {
		return common.ErrNotFound
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "owner delete failed remotely", "id", id, "error", err)
	}
	return nil
}

func (s *Owners) Hydrate(ctx context.Context, snaps *localdb.Snapshots) error {
	var st OwnersState
	ok, err := snaps.Load(ctx, localdb.KeyOwners, &st)
	if err != nil {
		return err
	}
	if ok {
		s.c.Replace(st)
	}
	return nil
}

func (s *Owners) AttachPersistence(ctx context.Context, snaps *localdb.Snapshots) {
	persistOn(ctx, s.c, snaps, localdb.KeyOwners, func(st OwnersState) OwnersState { return st }, s.log)
}

func (s *Owners) AttachPush(ctx context.Context, delay time.Duration) {
	deb := syncx.NewDebounced(delay)
	s.c.Subscribe(func(st OwnersState) {
		if !s.c.Loaded() {
			return
		}
		snapshot := st.Owners
		deb.Call(func() {
			if err := s.remote.UpsertAll(ctx, snapshot); err != nil {
				s.log.Error(ctx, "bulk owner push failed", "error", err)
			}
		})
	})
}

func (s *Owners) Domain(log logging.Logger, attempts int, base time.Duration) syncx.Domain {
	return syncx.SliceDomain[models.Owner]{
		DomainName: "owners",
		Log:        log,
		Attempts:   attempts,
		BaseDelay:  base,
		Fetch:      s.remote.FetchAll,
		Local:      func() []models.Owner { return s.c.Get().Owners },
		Apply:      func(os []models.Owner) { s.c.Replace(OwnersState{Owners: os}) },
		Push:       s.remote.UpsertAll,
	}
}

func (s *Owners) MarkLoaded() {
	s.c.MarkLoaded()
}
