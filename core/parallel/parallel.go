// Package parallel runs indexed units of work on a bounded pool of goroutines.
package parallel

import (
	"context"
	"sync"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// ForEach calls body for every index in [0, n) with at most limit calls in
// flight. The first failure cancels the context passed to the remaining calls
// and indices that have not started yet are never run.
//
// When several calls fail, the error of the lowest index is returned. Calls
// that only observed the cancellation triggered by a sibling are not counted
// as failures. If the parent context is cancelled and no call failed on its
// own, the parent's error is returned.
//
// A panic in body is recovered and reported as a *errors.PanicError for that index.
func ForEach(ctx context.Context, n, limit int, body func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > n {
		limit = n
	}

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed = make([]error, n)
		sem    = make(chan struct{}, limit)
	)

	for i := 0; i < n; i++ {
		// acquire a slot or stop scheduling once cancelled
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := run(ctx, i, body); err != nil {
				mu.Lock()
				failed[i] = err
				mu.Unlock()
				cancel()
			}
		}(i)
	}
	wg.Wait()

	for _, err := range failed {
		if err != nil && !isCancellation(err) {
			return err
		}
	}
	if err := parent.Err(); err != nil {
		return err
	}
	for _, err := range failed {
		if err != nil {
			return err
		}
	}
	return nil
}

// Sequential runs body for every index in order on the calling goroutine and
// stops at the first error. It shares the panic handling of ForEach.
func Sequential(ctx context.Context, n int, body func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := run(ctx, i, body); err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, i int, body func(ctx context.Context, i int) error) (err error) {
	defer errors.Recover(&err, "parallel.ForEach")
	return body(ctx, i)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
