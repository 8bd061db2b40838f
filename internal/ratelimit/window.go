package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter validation errors.
var (
	// ErrInvalidLimit is returned when the permit count is not positive.
	ErrInvalidLimit = errors.New("invalid rate limit: must be positive")

	// ErrInvalidWindow is returned when the window length is not positive.
	ErrInvalidWindow = errors.New("invalid rate window: must be positive")
)

// SlidingWindow grants at most limit permits within any trailing window.
//
// Admission is done by a golang.org/x/time/rate token bucket refilled
// every window/limit with a burst of one, so consecutive grants are at
// least window/limit apart. Every time passed to the bucket comes from
// the Clock.
//
// Design decision: We use a burst of one rather than a burst of limit.
// A full bucket of limit tokens lets limit requests through at once and
// then limit more as it refills, close to twice the cap inside one window.
// Spacing grants evenly keeps the cap for every window position.
type SlidingWindow struct {
	limiter *rate.Limiter
	clock   Clock

	// mu serializes waiters so a permit is never handed out of turn.
	mu sync.Mutex
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock sets the clock used to measure the window.
func WithClock(c Clock) Option {
	return func(w *SlidingWindow) {
		if c != nil {
			w.clock = c
		}
	}
}

// New creates a limiter allowing limit permits per window.
func New(limit int, window time.Duration, opts ...Option) (*SlidingWindow, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	w := &SlidingWindow{
		limiter: rate.NewLimiter(rate.Every(interval(limit, window)), 1),
		clock:   SystemClock{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// interval is the minimum spacing between grants, rounded up so that
// limit intervals never fit inside window.
func interval(limit int, window time.Duration) time.Duration {
	n := time.Duration(limit)
	return (window + n - 1) / n
}

// Wait blocks until a permit is available and then consumes it.
// If ctx is done first, Wait returns ctx.Err() and no permit is consumed.
func (w *SlidingWindow) Wait(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	now := w.clock.Now()
	r := w.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		// Nobody reserved after r while mu is held, so the whole permit
		// goes back to the bucket.
		r.CancelAt(w.clock.Now())
		return ctx.Err()
	case <-w.clock.After(delay):
		return nil
	}
}

// Delay reports how long a caller arriving now would wait for a permit.
// It does not consume a permit.
func (w *SlidingWindow) Delay() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	r := w.limiter.ReserveN(now, 1)
	defer r.CancelAt(now)
	return r.DelayFrom(now)
}
