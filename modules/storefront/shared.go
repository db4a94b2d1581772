package storefront

import (
	"context"
	"sync"
	"time"
)

// DefaultGrace is how long an upstream stays alive after its last subscriber
// leaves.
const DefaultGrace = 5 * time.Second

// Shared runs one upstream stream on behalf of many subscribers. New
// subscribers immediately receive the latest value. Subscribers that fall
// behind only ever see the newest value. Once the last subscriber leaves, the
// upstream is kept for the grace period and then cancelled; a subscriber
// arriving within the grace period reuses it.
type Shared[T any] struct {
	upstream func(ctx context.Context) <-chan T
	grace    time.Duration

	mu        sync.Mutex
	latest    T
	latestRun uint64 // run that published latest, zero for the initial value
	subs      map[uint64]chan T
	nextID    uint64
	cancel    context.CancelFunc
	runID     uint64
	idle      *time.Timer
	starts    int
}

// NewShared creates a Shared whose value is initial until upstream emits.
func NewShared[T any](upstream func(ctx context.Context) <-chan T, initial T, grace time.Duration) *Shared[T] {
	return &Shared[T]{
		upstream: upstream,
		grace:    grace,
		latest:   initial,
		subs:     make(map[uint64]chan T),
	}
}

// Subscribe returns a channel carrying the current value followed by every
// later one. The channel is closed when ctx is done.
func (s *Shared[T]) Subscribe(ctx context.Context) <-chan T {
	return s.subscribe(ctx, true)
}

// subscribe registers a subscriber. When replayStale is false the latest value
// is only replayed if the running upstream published it.
func (s *Shared[T]) subscribe(ctx context.Context, replayStale bool) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	if s.idle != nil {
		s.idle.Stop()
		s.idle = nil
	}
	if s.cancel == nil {
		s.start()
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if replayStale || s.latestRun == s.runID {
		ch <- s.latest
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.unsubscribe(id)
	}()

	return ch
}

// start launches the upstream. Callers hold s.mu.
func (s *Shared[T]) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.runID++
	s.starts++
	run := s.runID
	values := s.upstream(ctx)

	go func() {
		for v := range values {
			s.publish(run, v)
		}
		s.mu.Lock()
		if s.runID == run && s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.mu.Unlock()
	}()
}

func (s *Shared[T]) publish(run uint64, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID {
		return
	}
	s.latest = v
	s.latestRun = run
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

func (s *Shared[T]) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	close(ch)

	if len(s.subs) > 0 || s.cancel == nil {
		return
	}
	if s.grace <= 0 {
		s.stopLocked()
		return
	}
	run := s.runID
	s.idle = time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.runID == run && len(s.subs) == 0 {
			s.stopLocked()
		}
	})
}

func (s *Shared[T]) stopLocked() {
	if s.idle != nil {
		s.idle.Stop()
		s.idle = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.runID++
	}
}

// Latest returns the most recent value.
func (s *Shared[T]) Latest() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Active reports whether the upstream is running.
func (s *Shared[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Subscribers returns the number of live subscribers.
func (s *Shared[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Starts returns how many times the upstream has been launched.
func (s *Shared[T]) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Close cancels the upstream regardless of subscribers.
func (s *Shared[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Await subscribes until a value satisfying ready arrives and returns it. Only
// values published by the running upstream count, so a value left over from a
// stopped run is never returned as current. If ctx ends first it returns the
// latest value along with ctx's error.
func (s *Shared[T]) Await(ctx context.Context, ready func(T) bool) (T, error) {
	sub, cancel := context.WithCancel(ctx)
	defer cancel()

	last := s.Latest()
	for v := range s.subscribe(sub, false) {
		last = v
		if ready(v) {
			return v, nil
		}
	}
	return last, ctx.Err()
}
