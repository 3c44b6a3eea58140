// Package asyncx has the few concurrency helpers the services share: settle a
// group of calls, bound a call by a deadline and retry with backoff.
package asyncx

import (
	"context"
	"sync"
	"time"
)

// Result is the outcome of one call in AllSettled.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// AllSettled runs all fns concurrently and waits for every one to finish.
// It returns one Result per fn, in input order.
func AllSettled[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))

	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i, fn := range fns {
		go func() {
			defer wg.Done()
			v, err := fn(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()

	return results
}

// WithTimeout runs fn with a deadline of d. It returns ctx.Err() as soon as
// the deadline passes, even if fn has not yet returned.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()

	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Backoff configures RetryWithBackoff.
type Backoff struct {
	Attempts     int
	InitialDelay time.Duration

	// Retryable decides whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool
}

// RetryWithBackoff calls fn until it succeeds, the attempts are spent, the
// error is not retryable, or ctx is done. The delay doubles after each
// failed attempt. The last error is returned.
func RetryWithBackoff[T any](ctx context.Context, b Backoff, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(b.Attempts, 1)
	delay := b.InitialDelay

	var err error
	for i := range attempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return zero, err
			}
			return zero, ctxErr
		}

		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if b.Retryable != nil && !b.Retryable(err) {
			return zero, err
		}

		if i < attempts-1 && delay > 0 {
			select {
			case <-ctx.Done():
				return zero, err
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return zero, err
}
