package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

func TestForEachVisitsEveryIndex(t *testing.T) {
	for _, limit := range []int{0, 1, 3, 16} {
		var (
			mu   sync.Mutex
			seen = map[int]int{}
		)
		err := ForEach(context.Background(), 10, limit, func(_ context.Context, i int) error {
			mu.Lock()
			seen[i]++
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, seen, 10)
		for i := 0; i < 10; i++ {
			assert.Equal(t, 1, seen[i], "index %d with limit %d", i, limit)
		}
	}
}

func TestForEachRespectsLimit(t *testing.T) {
	var inFlight, peak int32
	err := ForEach(context.Background(), 20, 3, func(_ context.Context, _ int) error {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak, int32(3))
}

func TestForEachReturnsLowestFailingIndex(t *testing.T) {
	errLow := errors.New("fold 2")
	errHigh := errors.New("fold 5")

	// every call starts before any returns, so both failures are recorded
	var start sync.WaitGroup
	start.Add(8)
	err := ForEach(context.Background(), 8, 8, func(_ context.Context, i int) error {
		start.Done()
		start.Wait()
		switch i {
		case 2:
			time.Sleep(5 * time.Millisecond)
			return errLow
		case 5:
			return errHigh
		}
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errLow))
}

func TestForEachIgnoresSiblingCancellation(t *testing.T) {
	boom := errors.New("boom")
	var start sync.WaitGroup
	start.Add(4)
	err := ForEach(context.Background(), 4, 4, func(ctx context.Context, i int) error {
		start.Done()
		start.Wait()
		if i == 3 {
			return boom
		}
		<-ctx.Done()
		return errors.Wrap(ctx.Err(), "interrupted")
	})
	assert.True(t, errors.Is(err, boom))
}

func TestForEachStopsSchedulingAfterFailure(t *testing.T) {
	var started int32
	err := ForEach(context.Background(), 100, 1, func(_ context.Context, i int) error {
		atomic.AddInt32(&started, 1)
		if i == 0 {
			return errors.New("first")
		}
		return nil
	})
	require.Error(t, err)
	assert.Less(t, atomic.LoadInt32(&started), int32(100))
}

func TestForEachRecoversPanics(t *testing.T) {
	err := ForEach(context.Background(), 3, 2, func(_ context.Context, i int) error {
		if i == 1 {
			panic("trainer exploded")
		}
		return nil
	})
	require.Error(t, err)
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "trainer exploded", panicErr.PanicValue)
}

func TestForEachParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	err := ForEach(ctx, 5, 2, func(ctx context.Context, _ int) error {
		atomic.AddInt32(&calls, 1)
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	assert.NoError(t, ForEach(context.Background(), 0, 4, nil))
}

func TestSequential(t *testing.T) {
	var order []int
	err := Sequential(context.Background(), 4, func(_ context.Context, i int) error {
		order = append(order, i)
		if i == 2 {
			return errors.New("stop")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)

	err = Sequential(context.Background(), 1, func(context.Context, int) error {
		panic("boom")
	})
	var panicErr *errors.PanicError
	assert.True(t, errors.As(err, &panicErr))
}
