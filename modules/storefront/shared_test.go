package storefront

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// source is a controllable upstream that counts how often it was started and
// whether it is still running.
type source struct {
	values  chan int
	started atomic.Int32
	running atomic.Bool
}

func newSource() *source {
	return &source{values: make(chan int)}
}

func (s *source) stream(ctx context.Context) <-chan int {
	s.started.Add(1)
	s.running.Store(true)
	out := make(chan int)
	go func() {
		defer close(out)
		defer s.running.Store(false)
		for {
			select {
			case v := <-s.values:
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (s *source) emit(t *testing.T, v int) {
	t.Helper()
	select {
	case s.values <- v:
	case <-time.After(2 * time.Second):
		t.Fatal("upstream not reading")
	}
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestSharedReplaysLatest(t *testing.T) {
	src := newSource()
	shared := NewShared(src.stream, -1, time.Minute)
	defer shared.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := shared.Subscribe(ctx)
	assert.Equal(t, -1, recv(t, first))

	src.emit(t, 7)
	assert.Equal(t, 7, recv(t, first))

	second := shared.Subscribe(ctx)
	assert.Equal(t, 7, recv(t, second), "late subscriber gets the latest value")
	assert.Equal(t, int32(1), src.started.Load(), "one upstream for all subscribers")
	assert.Equal(t, 2, shared.Subscribers())
}

func TestSharedSlowSubscriberSeesNewest(t *testing.T) {
	src := newSource()
	shared := NewShared(src.stream, 0, time.Minute)
	defer shared.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := shared.Subscribe(ctx)
	src.emit(t, 1)
	src.emit(t, 2)
	src.emit(t, 3)

	require.Eventually(t, func() bool { return shared.Latest() == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, recv(t, ch))
}

func TestSharedGracePeriod(t *testing.T) {
	src := newSource()
	shared := NewShared(src.stream, 0, 100*time.Millisecond)
	defer shared.Close()

	ctx, cancel := context.WithCancel(context.Background())
	recv(t, shared.Subscribe(ctx))
	cancel()

	require.Eventually(t, func() bool { return shared.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, shared.Active(), "upstream survives within the grace period")

	ctx2, cancel2 := context.WithCancel(context.Background())
	recv(t, shared.Subscribe(ctx2))
	assert.Equal(t, 1, shared.Starts(), "resubscribing within grace reuses the upstream")
	cancel2()

	require.Eventually(t, func() bool { return !shared.Active() }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return !src.running.Load() }, 2*time.Second, 10*time.Millisecond)

	ctx3, cancel3 := context.WithCancel(context.Background())
	defer cancel3()
	recv(t, shared.Subscribe(ctx3))
	assert.Equal(t, 2, shared.Starts(), "upstream restarts after the grace period")
}

func TestSharedZeroGraceStopsImmediately(t *testing.T) {
	src := newSource()
	shared := NewShared(src.stream, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	recv(t, shared.Subscribe(ctx))
	cancel()

	require.Eventually(t, func() bool { return !shared.Active() }, time.Second, 5*time.Millisecond)
}

func TestSharedSubscriptionClosesOnCancel(t *testing.T) {
	shared := NewShared(newSource().stream, 0, time.Minute)
	defer shared.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := shared.Subscribe(ctx)
	recv(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestSharedAwait(t *testing.T) {
	src := newSource()
	shared := NewShared(src.stream, 0, time.Minute)
	defer shared.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		src.values <- 1
		src.values <- 5
	}()

	v, err := shared.Await(context.Background(), func(v int) bool { return v >= 5 })
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	v, err = shared.Await(ctx, func(v int) bool { return v > 100 })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 5, v)
}

func TestSharedAwaitIgnoresValueFromStoppedRun(t *testing.T) {
	src := newSource()
	shared := NewShared(src.stream, 0, 0)
	defer shared.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := shared.Subscribe(ctx)
	recv(t, ch)
	src.emit(t, 7)
	assert.Equal(t, 7, recv(t, ch))
	cancel()
	require.Eventually(t, func() bool { return !shared.Active() }, time.Second, 5*time.Millisecond)

	short, cancelShort := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancelShort()
	v, err := shared.Await(short, func(v int) bool { return v > 0 })
	assert.ErrorIs(t, err, context.DeadlineExceeded, "the value from the stopped run must not count")
	assert.Equal(t, 7, v)

	go func() {
		select {
		case src.values <- 9:
		case <-time.After(2 * time.Second):
		}
	}()
	v, err = shared.Await(context.Background(), func(v int) bool { return v > 0 })
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestSharedSubscribeStillReplaysAfterRestart(t *testing.T) {
	src := newSource()
	shared := NewShared(src.stream, 0, 0)
	defer shared.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := shared.Subscribe(ctx)
	recv(t, ch)
	src.emit(t, 4)
	recv(t, ch)
	cancel()
	require.Eventually(t, func() bool { return !shared.Active() }, time.Second, 5*time.Millisecond)

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	assert.Equal(t, 4, recv(t, shared.Subscribe(ctx2)), "live subscribers still see the last value first")
}
