package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
)

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := localdb.Open(ctx, "file:settingsroundtrip?mode=memory&cache=shared")
	require.NoError(t, err)
	defer db.Close()
	snaps := localdb.NewSnapshots(db)

	s := NewSettings(logging.NewNopLogger())
	s.AttachPersistence(ctx, snaps)
	s.SetActiveOwner("owner-1")
	s.SetSessionToken("tok")

	// a fresh store on the same database restores the session
	restored := NewSettings(logging.NewNopLogger())
	require.NoError(t, restored.Hydrate(ctx, snaps))
	require.Equal(t, "owner-1", restored.State().ActiveOwnerID)
	require.Equal(t, "tok", restored.State().SessionToken)

	// clearing the token persists too
	s.SetSessionToken("")
	again := NewSettings(logging.NewNopLogger())
	require.NoError(t, again.Hydrate(ctx, snaps))
	require.Empty(t, again.State().SessionToken)
}
