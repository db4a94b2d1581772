package broadcast

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_NotifyCoalesces(t *testing.T) {
	hub := NewHub("products")
	id, signal := hub.Subscribe()
	defer hub.Unsubscribe(id)

	for i := 0; i < 5; i++ {
		hub.Notify()
	}

	assert.Len(t, signal, 1)
	<-signal
	assert.Len(t, signal, 0)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub("cart_items")
	id, _ := hub.Subscribe()
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(id)
	hub.Unsubscribe(id)
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Notify()
}

func receive[T any](t *testing.T, ch <-chan Result[T]) Result[T] {
	t.Helper()
	select {
	case r, ok := <-ch:
		require.True(t, ok, "channel closed")
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	return Result[T]{}
}

func TestWatch_EmitsOnChange(t *testing.T) {
	hub := NewHub("products")
	var state atomic.Value
	state.Store([]string{"a"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Watch(ctx, hub,
		func(context.Context) ([]string, error) { return state.Load().([]string), nil },
		func(a, b []string) bool { return slices.Equal(a, b) },
	)

	assert.Equal(t, []string{"a"}, receive(t, ch).Value)

	state.Store([]string{"a", "b"})
	hub.Notify()
	assert.Equal(t, []string{"a", "b"}, receive(t, ch).Value)
}

func TestWatch_SuppressesDuplicates(t *testing.T) {
	hub := NewHub("products")
	var calls atomic.Int32
	var value atomic.Int32
	value.Store(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Watch(ctx, hub,
		func(context.Context) (int32, error) {
			calls.Add(1)
			return value.Load(), nil
		},
		func(a, b int32) bool { return a == b },
	)
	assert.Equal(t, int32(1), receive(t, ch).Value)

	hub.Notify()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	value.Store(2)
	hub.Notify()
	assert.Equal(t, int32(2), receive(t, ch).Value)
}

func TestWatch_ErrorResetsComparison(t *testing.T) {
	hub := NewHub("products")
	var fail atomic.Bool

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Watch(ctx, hub,
		func(context.Context) (int, error) {
			if fail.Load() {
				return 0, errors.New("disk I/O error")
			}
			return 7, nil
		},
		func(a, b int) bool { return a == b },
	)
	assert.Equal(t, 7, receive(t, ch).Value)

	fail.Store(true)
	hub.Notify()
	assert.Error(t, receive(t, ch).Err)

	fail.Store(false)
	hub.Notify()
	r := receive(t, ch)
	assert.NoError(t, r.Err)
	assert.Equal(t, 7, r.Value)
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	hub := NewHub("products")
	ctx, cancel := context.WithCancel(context.Background())

	ch := Watch(ctx, hub,
		func(context.Context) (int, error) { return 1, nil },
		nil,
	)
	receive(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return hub.SubscriberCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}
