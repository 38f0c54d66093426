package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrTaskPanic wraps a panic raised by a Map task.
var ErrTaskPanic = errors.New("task panicked")

// Map calls fn for every index in [0, n) on the pool and returns the results
// in index order, whatever order the workers finish in. The first error,
// including cancellation of ctx, stops further tasks from starting and is
// returned together with a nil slice.
func Map[T any](ctx context.Context, pool *WorkerPool, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]T, n)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := range n {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		ok := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("%w: index %d: %v", ErrTaskPanic, i, r))
				}
			}()
			if ctx.Err() != nil {
				return
			}
			v, err := fn(ctx, i)
			if err != nil {
				fail(err)
				return
			}
			results[i] = v
		})
		if !ok {
			wg.Done()
			fail(ErrPoolClosed)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Cancellation by the caller may land between tasks without any task failing
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
