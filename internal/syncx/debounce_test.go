package syncx

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncedCollapsesBurst(t *testing.T) {
	d := NewDebounced(30 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Call(func() { calls.Add(1) })
	}

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// no second firing
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestDebouncedRunsLatestClosure(t *testing.T) {
	d := NewDebounced(20 * time.Millisecond)

	var mu sync.Mutex
	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		d.Call(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{3}, got)
}

func TestDebouncedFlushRunsImmediately(t *testing.T) {
	d := NewDebounced(time.Hour)

	var calls atomic.Int32
	d.Call(func() { calls.Add(1) })
	require.Equal(t, int32(0), calls.Load())

	d.Flush()
	require.Equal(t, int32(1), calls.Load())

	// flush with nothing pending is a no-op
	d.Flush()
	require.Equal(t, int32(1), calls.Load())
}

func TestDebouncedCancelDiscards(t *testing.T) {
	d := NewDebounced(20 * time.Millisecond)

	var calls atomic.Int32
	d.Call(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestDebouncedRegistryTracksFiredTimers(t *testing.T) {
	// A timer firing right after Call must not leave its debouncer behind
	// in the registry. Short delays make the fire race the return of Call.
	const n = 200
	ds := make([]*Debounced, n)

	var calls atomic.Int32
	for i := range ds {
		ds[i] = NewDebounced(time.Microsecond)
		ds[i].Call(func() { calls.Add(1) })
	}

	require.Eventually(t, func() bool {
		return calls.Load() == n
	}, time.Second, 5*time.Millisecond)

	pendingMu.Lock()
	defer pendingMu.Unlock()
	for _, d := range ds {
		_, stale := pendingSet[d]
		require.False(t, stale)
	}
}

func TestFlushAllDrainsEveryPending(t *testing.T) {
	d1 := NewDebounced(time.Hour)
	d2 := NewDebounced(time.Hour)

	var calls atomic.Int32
	d1.Call(func() { calls.Add(1) })
	d2.Call(func() { calls.Add(1) })

	FlushAll()
	require.Equal(t, int32(2), calls.Load())

	// drained debouncers do not fire again
	FlushAll()
	require.Equal(t, int32(2), calls.Load())
}
