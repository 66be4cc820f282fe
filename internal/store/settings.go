package store

import (
	"context"

	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
)

// SettingsState is device-local preference state. It never syncs to the
// backend; it only survives restarts through the snapshot store.
type SettingsState struct {
	ActiveOwnerID string `json:"activeOwnerId,omitempty"`
	SessionToken  string `json:"sessionToken,omitempty"`
}

// Settings owns the local preferences.
type Settings struct {
	c   *Container[SettingsState]
	log logging.Logger
}

func NewSettings(log logging.Logger) *Settings {
	return &Settings{
		c:   NewContainer(SettingsState{}),
		log: log.With("store", "settings"),
	}
}

func (s *Settings) State() SettingsState {
	return s.c.Get()
}

func (s *Settings) SetActiveOwner(id string) {
	s.c.Update(func(st SettingsState) SettingsState {
		st.ActiveOwnerID = id
		return st
	})
}

// SetSessionToken stores (or clears) the admin session token.
func (s *Settings) SetSessionToken(token string) {
	s.c.Update(func(st SettingsState) SettingsState {
		st.SessionToken = token
		return st
	})
}

func (s *Settings) Hydrate(ctx context.Context, snaps *localdb.Snapshots) error {
	var st SettingsState
	ok, err := snaps.Load(ctx, localdb.KeySettings, &st)
	if err != nil {
		return err
	}
	if ok {
		s.c.Replace(st)
	}
	return nil
}

func (s *Settings) AttachPersistence(ctx context.Context, snaps *localdb.Snapshots) {
	persistOn(ctx, s.c, snaps, localdb.KeySettings, func(st SettingsState) SettingsState { return st }, s.log)
}
