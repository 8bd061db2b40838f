package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// steppingClock advances its own time whenever a caller waits on it,
// so blocked limiter calls complete instantly but at the correct instant.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *steppingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// manualClock only moves when the test calls Advance.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []manualWaiter
	waiting chan struct{}
}

type manualWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		waiting: make(chan struct{}, 16),
	}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.waiters = append(c.waiters, manualWaiter{deadline: c.now.Add(d), ch: ch})
	c.waiting <- struct{}{}
	return ch
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.deadline.After(c.now) {
			w.ch <- c.now
			continue
		}
		remaining = append(remaining, w)
	}
	c.waiters = remaining
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limit   int
		window  time.Duration
		wantErr error
	}{
		{name: "valid", limit: 100, window: time.Minute},
		{name: "zero limit", limit: 0, window: time.Minute, wantErr: ErrInvalidLimit},
		{name: "negative limit", limit: -1, window: time.Minute, wantErr: ErrInvalidLimit},
		{name: "zero window", limit: 1, window: 0, wantErr: ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, err := New(tt.limit, tt.window)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if err == nil && w == nil {
				t.Fatal("expected a limiter")
			}
		})
	}
}

func TestInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		limit  int
		window time.Duration
		want   time.Duration
	}{
		{name: "exact division", limit: 100, window: time.Minute, want: 600 * time.Millisecond},
		{name: "rounded up", limit: 3, window: time.Second, want: 333333334 * time.Nanosecond},
		{name: "single permit", limit: 1, window: time.Second, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := interval(tt.limit, tt.window)
			if got != tt.want {
				t.Errorf("interval(%d, %s) = %s, want %s", tt.limit, tt.window, got, tt.want)
			}
			if time.Duration(tt.limit)*got < tt.window {
				t.Errorf("%d intervals of %s fit inside %s", tt.limit, got, tt.window)
			}
		})
	}
}

func TestSlidingWindowNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	const (
		limit  = 4
		window = time.Second
		calls  = 50
	)

	clock := newSteppingClock()
	w, err := New(limit, window, WithClock(clock))
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}

	grants := make([]time.Time, 0, calls)
	for range calls {
		if err := w.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		grants = append(grants, clock.Now())
	}

	if len(grants) != calls {
		t.Fatalf("expected %d grants, got %d", calls, len(grants))
	}

	// Every window starting at a grant holds at most limit grants.
	for i, start := range grants {
		end := start.Add(window)
		count := 0
		for _, g := range grants[i:] {
			if g.Before(end) {
				count++
			}
		}
		if count > limit {
			t.Errorf("window starting at grant %d holds %d grants, want <= %d", i, count, limit)
		}
	}

	// Calls beyond the cap were delayed, not dropped.
	want := time.Duration(calls-1) * window / limit
	if elapsed := grants[len(grants)-1].Sub(grants[0]); elapsed != want {
		t.Errorf("expected last grant %s after the first, got %s", want, elapsed)
	}
}

func TestSlidingWindowDelay(t *testing.T) {
	t.Parallel()

	clock := newSteppingClock()
	w, err := New(4, time.Second, WithClock(clock))
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}

	if d := w.Delay(); d != 0 {
		t.Fatalf("expected a fresh limiter to grant at once, got %s", d)
	}
	// Asking must not consume the permit.
	if d := w.Delay(); d != 0 {
		t.Fatalf("expected Delay to leave the permit in place, got %s", d)
	}

	if err := w.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := w.Delay(); d != 250*time.Millisecond {
		t.Errorf("expected 250ms until the next permit, got %s", d)
	}

	clock.Advance(125 * time.Millisecond)
	if d := w.Delay(); d != 125*time.Millisecond {
		t.Errorf("expected 125ms until the next permit, got %s", d)
	}

	clock.Advance(125 * time.Millisecond)
	if d := w.Delay(); d != 0 {
		t.Errorf("expected a permit after the interval passed, got %s", d)
	}
}

func TestSlidingWindowBlocksUntilCapacity(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	w, err := New(1, time.Second, WithClock(clock))
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}

	if err := w.Wait(context.Background()); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Wait(context.Background())
	}()

	// Wait until the limiter is parked on the clock.
	<-clock.waiting

	select {
	case err := <-done:
		t.Fatalf("expected second call to block, returned %v", err)
	default:
	}

	clock.Advance(time.Second)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second call was not released after the window passed")
	}
}

func TestSlidingWindowCancel(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	w, err := New(1, time.Second, WithClock(clock))
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}
	if err := w.Wait(context.Background()); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Wait(ctx)
	}()

	<-clock.waiting
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled wait did not return")
	}

	// The cancelled call must not have consumed a permit.
	if d := w.Delay(); d != time.Second {
		t.Errorf("expected only the first grant to count, got delay %s", d)
	}
	clock.Advance(time.Second)
	if d := w.Delay(); d != 0 {
		t.Errorf("expected free capacity, got delay %s", d)
	}
}

func TestSlidingWindowCancelledBeforeWait(t *testing.T) {
	t.Parallel()

	w, err := New(1, time.Second, WithClock(newSteppingClock()))
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if d := w.Delay(); d != 0 {
		t.Errorf("expected the permit to remain, got delay %s", d)
	}
}
