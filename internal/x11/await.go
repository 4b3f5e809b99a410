package x11

import "context"

// Await runs fn on its own goroutine and waits for it or for ctx. X requests
// cannot be cancelled, so on timeout the round-trip keeps running in the
// background and its result is dropped.
func Await[T any](ctx context.Context, fn func() T) (T, error) {
	done := make(chan T, 1)
	go func() {
		done <- fn()
	}()

	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
