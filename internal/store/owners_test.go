package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
)

func newOwnersFixture(t *testing.T) (*Owners, *fakeRepo[models.Owner]) {
	t.Helper()
	repo := newFakeRepo(func(x models.Owner) string { return x.ID })
	return NewOwners(repo, logging.NewNopLogger()), repo
}

func TestOwnersAdd(t *testing.T) {
	s, repo := newOwnersFixture(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "  ", "", false)
	require.ErrorIs(t, err, common.ErrEmptyName)

	_, err = s.Add(ctx, "Admin", "", true)
	require.ErrorIs(t, err, common.ErrValidation, "a master needs a password")

	admin, err := s.Add(ctx, "Admin", "hunter2", true)
	require.NoError(t, err)
	require.True(t, admin.IsMaster)
	require.NotEmpty(t, admin.PasswordHash)
	require.NotContains(t, admin.PasswordHash, "hunter2")

	kid, err := s.Add(ctx, "Kid", "", false)
	require.NoError(t, err)
	require.Empty(t, kid.PasswordHash, "passwordless profile stores no hash")

	require.Equal(t, 2, repo.len())
}

func TestOwnersVerify(t *testing.T) {
	s, _ := newOwnersFixture(t)
	ctx := context.Background()

	s.Add(ctx, "Admin", "hunter2", true)

	_, err := s.Verify("Nobody", "hunter2")
	require.ErrorIs(t, err, common.ErrOwnerNotFound)

	_, err = s.Verify("Admin", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidPassword)

	o, err := s.Verify("Admin", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "Admin", o.Name)
}

func TestOwnersLookups(t *testing.T) {
	s, _ := newOwnersFixture(t)
	ctx := context.Background()

	added, _ := s.Add(ctx, "Alice", "", false)

	byID, ok := s.ByID(added.ID)
	require.True(t, ok)
	require.Equal(t, "Alice", byID.Name)

	_, ok = s.ByID("missing")
	require.False(t, ok)

	byName, ok := s.ByName("Alice")
	require.True(t, ok)
	require.Equal(t, added.ID, byName.ID)
}

func TestOwnersDelete(t *testing.T) {
	s, repo := newOwnersFixture(t)
	ctx := context.Background()

	o, _ := s.Add(ctx, "Alice", "", false)

	require.ErrorIs(t, s.Delete(ctx, "missing"), common.ErrNotFound)
	require.NoError(t, s.Delete(ctx, o.ID))
	require.Empty(t, s.List())
	require.Equal(t, 0, repo.len())
}

func newPermissionsFixture(t *testing.T) (*Permissions, *fakeRepo[models.OwnerPermissions]) {
	t.Helper()
	repo := newFakeRepo(func(x models.OwnerPermissions) string { return x.OwnerID })
	return NewPermissions(repo, logging.NewNopLogger()), repo
}

func TestPermissionsLazyDefault(t *testing.T) {
	s, repo := newPermissionsFixture(t)
	ctx := context.Background()

	p := s.For(ctx, "owner-1")
	require.Equal(t, "owner-1", p.OwnerID)
	require.False(t, p.CanApproveExpenses)

	// the default entry was materialized and mirrored
	_, ok := repo.get("owner-1")
	require.True(t, ok)
}

func TestPermissionsCanApproveExpenses(t *testing.T) {
	s, _ := newPermissionsFixture(t)
	ctx := context.Background()

	master := models.Owner{ID: "m", IsMaster: true}
	regular := models.Owner{ID: "r"}

	require.True(t, s.CanApproveExpenses(ctx, master), "masters bypass the check")
	require.False(t, s.CanApproveExpenses(ctx, regular))

	s.Set(ctx, models.OwnerPermissions{OwnerID: "r", CanApproveExpenses: true})
	require.True(t, s.CanApproveExpenses(ctx, regular))
}

func TestPermissionsDomainRoundTrip(t *testing.T) {
	s, repo := newPermissionsFixture(t)
	ctx := context.Background()

	repo.put(models.OwnerPermissions{OwnerID: "b", CanApproveExpenses: true})
	repo.put(models.OwnerPermissions{OwnerID: "a"})

	s.Domain(logging.NewNopLogger(), 1, time.Millisecond).Reconcile(ctx)

	require.True(t, s.For(ctx, "b").CanApproveExpenses)
	require.False(t, s.For(ctx, "a").CanApproveExpenses)

	// local view converts back to rows sorted by owner id
	slice := s.asSlice()
	require.Equal(t, "a", slice[0].OwnerID)
	require.Equal(t, "b", slice[1].OwnerID)
}
