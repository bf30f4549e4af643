// Package throttle spaces out calls to a rate-limited API.
package throttle

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Throttle enforces a fixed delay before each call.
type Throttle struct {
	interval time.Duration
	sleep    SleepFunc
}

// Option configures a Throttle.
type Option func(*Throttle)

// WithSleep replaces the blocking sleep, mainly for tests.
func WithSleep(sleep SleepFunc) Option {
	return func(t *Throttle) { t.sleep = sleep }
}

// New returns a Throttle that waits interval before every call.
func New(interval time.Duration, opts ...Option) *Throttle {
	t := &Throttle{interval: interval, sleep: Sleep}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interval returns the configured delay.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

// Wait blocks for the configured interval. It only returns early, with the
// context's error, when ctx is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return nil
	}
	return t.sleep(ctx, t.interval)
}

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
