package store

import (
	"context"
	"errors"
	"sync"
)

var errBackendDown = errors.New("backend unavailable")

// fakeRepo is an in-memory stand-in for one backend table. The id function
// extracts the primary key; ops can be failed selectively to exercise the
// best-effort mirroring paths.
type fakeRepo[T any] struct {
	mu    sync.Mutex
	id    func(T) string
	items map[string]T
	order []string

	failUpsert bool
	failDelete bool
	failFetch  bool

	upserts    int
	bulkPushes int
	deletes    int
}

func newFakeRepo[T any](id func(T) string) *fakeRepo[T] {
	return &fakeRepo[T]{id: id, items: make(map[string]T)}
}

func (r *fakeRepo[T]) FetchAll(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFetch {
		return nil, errBackendDown
	}
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *fakeRepo[T]) Upsert(ctx context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert {
		return errBackendDown
	}
	r.upserts++
	r.putLocked(item)
	return nil
}

func (r *fakeRepo[T]) UpsertAll(ctx context.Context, items []T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert {
		return errBackendDown
	}
	r.bulkPushes++
	for _, item := range items {
		r.putLocked(item)
	}
	return nil
}

func (r *fakeRepo[T]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete {
		return errBackendDown
	}
	r.deletes++
	if _, ok := r.items[id]; ok {
		delete(r.items, id)
		for i, existing := range r.order {
			if existing == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// put seeds an item directly, as if another device had written it.
func (r *fakeRepo[T]) put(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(item)
}

func (r *fakeRepo[T]) putLocked(item T) {
	id := r.id(item)
	if _, ok := r.items[id]; !ok {
		r.order = append(r.order, id)
	}
	r.items[id] = item
}

func (r *fakeRepo[T]) get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	return v, ok
}

func (r *fakeRepo[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *fakeRepo[T]) counts() (upserts, bulkPushes, deletes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts, r.bulkPushes, r.deletes
}

func (r *fakeRepo[T]) setFail(upsert, del, fetch bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failUpsert, r.failDelete, r.failFetch = upsert, del, fetch
}

// fakeDeleter records attachment deletions.
type fakeDeleter struct {
	mu   sync.Mutex
	urls []string
}

func (d *fakeDeleter) DeleteByURL(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	return nil
}

func (d *fakeDeleter) deleted() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.urls...)
}
