// Package batch runs one function per input on a bounded worker pool,
// giving every item its own deadline.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultItemTimeout bounds a single item when the pool sets none.
const DefaultItemTimeout = 5 * time.Minute

// ErrTimeout matches every *TimeoutError.
var ErrTimeout = errors.New("operation timed out")

// TimeoutError reports an item that ran past its deadline.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation timed out after %s", e.After)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// Pool bounds concurrency and per-item duration.
type Pool struct {
	Workers     int           // <= 0 means 1
	ItemTimeout time.Duration // <= 0 means DefaultItemTimeout

	// Limiter, when set, spaces out item starts.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Result is the outcome of one item.
type Result[T any] struct {
	Index   int
	Key     string
	Value   T
	Err     error
	Elapsed time.Duration
}

// Func processes one item. It must return once ctx is done.
type Func[T any] func(ctx context.Context, index int, key string) (T, error)

// Run calls fn for every key and returns the results in input order. An
// item that outlives the pool's ItemTimeout gets a *TimeoutError. When ctx
// ends, items not yet started are not run and carry ctx's error.
func Run[T any](ctx context.Context, p Pool, keys []string, fn Func[T]) []Result[T] {
	workers := max(p.Workers, 1)
	timeout := p.ItemTimeout
	if timeout <= 0 {
		timeout = DefaultItemTimeout
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "batch")

	results := make([]Result[T], len(keys))
	for i, k := range keys {
		results[i] = Result[T]{Index: i, Key: k}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range keys {
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		if p.Limiter != nil {
			if err := p.Limiter.Wait(gctx); err != nil {
				results[i].Err = err
				continue
			}
		}
		g.Go(func() error {
			results[i] = runItem(gctx, i, keys[i], timeout, fn, log)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runItem[T any](ctx context.Context, i int, key string, timeout time.Duration, fn Func[T], log *slog.Logger) Result[T] {
	res := Result[T]{Index: i, Key: key}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	itemCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res.Value, res.Err = fn(itemCtx, i, key)
	res.Elapsed = time.Since(start)

	if ctx.Err() == nil && errors.Is(itemCtx.Err(), context.DeadlineExceeded) && res.Err != nil {
		log.Warn("item timed out", "index", i, "key", key, "timeout", timeout)
		res.Err = &TimeoutError{After: timeout}
	}
	return res
}

// ByKey indexes items by key. For duplicate keys the later item wins.
func ByKey[T any](items []T, key func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[key(it)] = it
	}
	return out
}
