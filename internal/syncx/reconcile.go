package syncx

import (
	"context"
	"sync"
	"time"

	"github.com/avolkov/hearth/internal/logging"
)

// Domain is one independently reconciled data domain.
type Domain interface {
	Name() string
	Reconcile(ctx context.Context)
}

// SliceDomain adapts a store slice and its backend table to the initial-load
// policy: a non-empty remote copy overwrites local state unconditionally; an
// empty remote with local data triggers a one-shot recovery push; two empty
// sides are a no-op. There is no merge; the most recent load's remote
// snapshot wins.
type SliceDomain[T any] struct {
	DomainName string
	Log        logging.Logger
	Attempts   int
	BaseDelay  time.Duration

	Fetch func(ctx context.Context) ([]T, error)
	Local func() []T
	Apply func([]T)
	Push  func(ctx context.Context, items []T) error
}

func (d SliceDomain[T]) Name() string { return d.DomainName }

// Reconcile fetches the remote copy through the read-retry policy and applies
// the load rule. A read that fails all attempts counts as "no data", which
// deliberately falls into the recovery-push branch when local data exists.
func (d SliceDomain[T]) Reconcile(ctx context.Context) {
	remote, ok := FetchRetried(ctx, d.Log, d.DomainName, d.Attempts, d.BaseDelay, d.Fetch)
	if !ok {
		remote = nil
	}

	local := d.Local()

	switch {
	case len(remote) > 0:
		d.Apply(remote)
		d.Log.Info(ctx, "initial load applied remote state", "domain", d.DomainName, "rows", len(remote))
	case len(local) > 0:
		if err := d.Push(ctx, local); err != nil {
			d.Log.Error(ctx, "recovery push failed", "domain", d.DomainName, "error", err)
			return
		}
		d.Log.Info(ctx, "recovery push uploaded local state", "domain", d.DomainName, "rows", len(local))
	default:
		d.Log.Debug(ctx, "nothing to reconcile", "domain", d.DomainName)
	}
}

// InitialLoad fans out across all domains concurrently and waits for every
// one to finish. Each domain is fetched, retried and applied on its own;
// there is no cross-domain ordering or transactional guarantee.
func InitialLoad(ctx context.Context, domains ...Domain) {
	var wg sync.WaitGroup
	for _, d := range domains {
		wg.Add(1)
		go func(d Domain) {
			defer wg.Done()
			d.Reconcile(ctx)
		}(d)
	}
	wg.Wait()
}
