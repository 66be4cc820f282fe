package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
)

func newTagsFixture(t *testing.T) (*Tags, *fakeRepo[models.Tag]) {
	t.Helper()
	repo := newFakeRepo(func(x models.Tag) string { return x.ID })
	return NewTags(repo, logging.NewNopLogger()), repo
}

func TestTagsLifecycle(t *testing.T) {
	s, repo := newTagsFixture(t)
	ctx := context.Background()

	_, err := s.Add(ctx, " ", "")
	require.ErrorIs(t, err, common.ErrEmptyName)

	tag, err := s.Add(ctx, "garden", "#00aa00")
	require.NoError(t, err)
	require.Equal(t, 1, repo.len())

	require.ErrorIs(t, s.Rename(ctx, tag.ID, ""), common.ErrEmptyName)
	require.ErrorIs(t, s.Rename(ctx, "missing", "yard"), common.ErrNotFound)

	require.NoError(t, s.Rename(ctx, tag.ID, "yard"))
	require.Equal(t, "yard", s.List()[0].Name)
	mirrored, _ := repo.get(tag.ID)
	require.Equal(t, "yard", mirrored.Name)

	require.NoError(t, s.Delete(ctx, tag.ID))
	require.Empty(t, s.List())
	require.ErrorIs(t, s.Delete(ctx, tag.ID), common.ErrNotFound)
}
