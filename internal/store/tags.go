package store

import (
	"context"
	"strings"
	"time"

	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
	"github.com/avolkov/hearth/internal/remote"
	"github.com/avolkov/hearth/internal/syncx"
)

type TagsState struct {
	Tags []models.Tag `json:"tags"`
}

// Tags owns the label list.
type Tags struct {
	c      *Container[TagsState]
	remote remote.TagRepository
	log    logging.Logger
}

func NewTags(repo remote.TagRepository, log logging.Logger) *Tags {
	return &Tags{
		c:      NewContainer(TagsState{}),
		remote: repo,
		log:    log.With("store", "tags"),
	}
}

func (s *Tags) List() []models.Tag {
	return s.c.Get().Tags
}

func (s *Tags) Add(ctx context.Context, name, color string) (models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, common.ErrEmptyName
	}

	t := models.Tag{
		ID:        models.NewID(),
		Name:      name,
		Color:     color,
		CreatedAt: models.NowISO(),
	}

	s.c.Update(func(st TagsState) TagsState {
		st.Tags = append(st.Tags, t)
		return st
	})

	if err := s.remote.Upsert(ctx, t); err != nil {
		s.log.Error(ctx, "tag sync failed", "id", t.ID, "error", err)
	}
	return t, nil
}

func (s *Tags) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrEmptyName
	}

	var updated models.Tag
	found := false

	s.c.Update(func(st TagsState) TagsState {
		next := make([]models.Tag, len(st.Tags))
		copy(next, st.Tags)
		for i, t := range next {
			if t.ID != id {
				continue
			}
			t.Name = name
			next[i] = t
			updated = t
			found = true
			break
		}
		st.Tags = next
		return st
	})

	if !found {
		return common.ErrNotFound
	}

	if err := s.remote.Upsert(ctx, updated); err != nil {
		s.log.Error(ctx, "tag sync failed", "id", id, "error", err)
	}
	return nil
}

func (s *Tags) Delete(ctx context.Context, id string) error {
	found := false

	s.c.Update(func(st TagsState) TagsState {
		next := make([]models.Tag, 0, len(st.Tags))
		for _, t := range st.Tags {
			if t.ID == id {
				found = true
				continue
			}
			next = append(next, t)
		}
		st.Tags = next
		return st
	})

	if !found {
		return common.ErrNotFound
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "tag delete failed remotely", "id", id, "error", err)
	}
	return nil
}

func (s *Tags) Hydrate(ctx context.Context, snaps *localdb.Snapshots) error {
	var st TagsState
	ok, err := snaps.Load(ctx, localdb.KeyTags, &st)
	if err != nil {
		return err
	}
	if ok {
		s.c.Replace(st)
	}
	return nil
}

func (s *Tags) AttachPersistence(ctx context.Context, snaps *localdb.Snapshots) {
	persistOn(ctx, s.c, snaps, localdb.KeyTags, func(st TagsState) TagsState { return st }, s.log)
}

func (s *Tags) AttachPush(ctx context.Context, delay time.Duration) {
	deb := syncx.NewDebounced(delay)
	s.c.Subscribe(func(st TagsState) {
		if !s.c.Loaded() {
			return
		}
		snapshot := st.Tags
		deb.Call(func() {
			if err := s.remote.UpsertAll(ctx, snapshot); err != nil {
				s.log.Error(ctx, "bulk tag push failed", "error", err)
			}
		})
	})
}

func (s *Tags) Domain(log logging.Logger, attempts int, base time.Duration) syncx.Domain {
	return syncx.SliceDomain[models.Tag]{
		DomainName: "tags",
		Log:        log,
		Attempts:   attempts,
		BaseDelay:  base,
		Fetch:      s.remote.FetchAll,
		Local:      func() []models.Tag { return s.c.Get().Tags },
		Apply:      func(ts []models.Tag) { s.c.Replace(TagsState{Tags: ts}) },
		Push:       s.remote.UpsertAll,
	}
}

func (s *Tags) MarkLoaded() {
	s.c.MarkLoaded()
}
