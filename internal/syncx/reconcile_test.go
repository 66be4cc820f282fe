package syncx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/hearth/internal/logging"
)

// sliceHarness wires a SliceDomain to in-memory remote and local sides.
type sliceHarness struct {
	mu       sync.Mutex
	remote   []string
	fetchErr error
	local    []string
	applied  [][]string
	pushed   [][]string
	pushErr  error
}

func (h *sliceHarness) domain() SliceDomain[string] {
	return SliceDomain[string]{
		DomainName: "test",
		Log:        logging.NewNopLogger(),
		Attempts:   2,
		BaseDelay:  time.Millisecond,
		Fetch: func(ctx context.Context) ([]string, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.fetchErr != nil {
				return nil, h.fetchErr
			}
			return h.remote, nil
		},
		Local: func() []string {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.local
		},
		Apply: func(items []string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.applied = append(h.applied, items)
			h.local = items
		},
		Push: func(ctx context.Context, items []string) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.pushErr != nil {
				return h.pushErr
			}
			h.pushed = append(h.pushed, items)
			h.remote = items
			return nil
		},
	}
}

func TestReconcileRemoteWins(t *testing.T) {
	h := &sliceHarness{
		remote: []string{"cloud-a", "cloud-b"},
		local:  []string{"stale"},
	}

	h.domain().Reconcile(context.Background())

	require.Equal(t, [][]string{{"cloud-a", "cloud-b"}}, h.applied)
	require.Empty(t, h.pushed, "remote data must never trigger a push")
	require.Equal(t, []string{"cloud-a", "cloud-b"}, h.local)
}

func TestReconcileRecoveryPush(t *testing.T) {
	h := &sliceHarness{
		local: []string{"only-local"},
	}

	h.domain().Reconcile(context.Background())

	require.Empty(t, h.applied)
	require.Equal(t, [][]string{{"only-local"}}, h.pushed)
	require.Equal(t, []string{"only-local"}, h.remote)
}

func TestReconcileBothEmpty(t *testing.T) {
	h := &sliceHarness{}

	h.domain().Reconcile(context.Background())

	require.Empty(t, h.applied)
	require.Empty(t, h.pushed)
}

func TestReconcileFetchFailureFallsBackToRecovery(t *testing.T) {
	h := &sliceHarness{
		fetchErr: errors.New("connection refused"),
		local:    []string{"survivor"},
	}

	h.domain().Reconcile(context.Background())

	require.Empty(t, h.applied)
	require.Equal(t, [][]string{{"survivor"}}, h.pushed)
}

func TestReconcileIsIdempotent(t *testing.T) {
	h := &sliceHarness{
		remote: []string{"cloud"},
		local:  []string{"stale"},
	}

	d := h.domain()
	d.Reconcile(context.Background())
	d.Reconcile(context.Background())

	require.Equal(t, [][]string{{"cloud"}, {"cloud"}}, h.applied)
	require.Empty(t, h.pushed)
	require.Equal(t, []string{"cloud"}, h.local)
}

func TestInitialLoadRunsEveryDomain(t *testing.T) {
	a := &sliceHarness{remote: []string{"a"}}
	b := &sliceHarness{local: []string{"b"}}
	c := &sliceHarness{}

	InitialLoad(context.Background(), a.domain(), b.domain(), c.domain())

	require.Equal(t, [][]string{{"a"}}, a.applied)
	require.Equal(t, [][]string{{"b"}}, b.pushed)
	require.Empty(t, c.applied)
	require.Empty(t, c.pushed)
}

func TestInitialLoadDomainsFailIndependently(t *testing.T) {
	broken := &sliceHarness{local: []string{"x"}, pushErr: errors.New("boom")}
	healthy := &sliceHarness{remote: []string{"fine"}}

	InitialLoad(context.Background(), broken.domain(), healthy.domain())

	require.Empty(t, broken.pushed)
	require.Equal(t, [][]string{{"fine"}}, healthy.applied)
}
