package broadcast

import "context"

// Result is one emission of a live query.
type Result[T any] struct {
	Value T
	Err   error
}

// QueryFunc reads the current state of a table.
type QueryFunc[T any] func(ctx context.Context) (T, error)

// EqualFunc reports whether two query results are the same.
type EqualFunc[T any] func(a, b T) bool

// Watch runs query now and again after every change signal from hub, sending
// each result that differs from the last one sent. Errors are always sent and
// reset the comparison.
// The channel is closed once ctx is done.
func Watch[T any](ctx context.Context, hub *Hub, query QueryFunc[T], equal EqualFunc[T]) <-chan Result[T] {
	out := make(chan Result[T])

	// Subscribe before the first read so no write between the two is missed.
	id, signal := hub.Subscribe()

	go func() {
		defer close(out)
		defer hub.Unsubscribe(id)

		var (
			last    T
			hasLast bool
		)

		emit := func() bool {
			value, err := query(ctx)
			if ctx.Err() != nil {
				return false
			}
			if err != nil {
				hasLast = false
			} else {
				if hasLast && equal != nil && equal(last, value) {
					return true
				}
				last, hasLast = value, true
			}
			select {
			case out <- Result[T]{Value: value, Err: err}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}
