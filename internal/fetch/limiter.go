// Package fetch wraps all outbound traffic to the Finlex open-data
// source behind one shared, rate-limited, retrying client.
package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultMinInterval = 350 * time.Millisecond
	DefaultWindow      = 60 * time.Second
	DefaultWindowLimit = 200
)

type LimiterConfig struct {
	// MinInterval is the minimum spacing between consecutive requests.
	MinInterval time.Duration
	// WindowLimit requests are allowed per rolling Window, regardless of
	// spacing.
	Window      time.Duration
	WindowLimit int
}

func (c *LimiterConfig) applyDefaults() {
	if c.MinInterval <= 0 {
		c.MinInterval = DefaultMinInterval
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.WindowLimit <= 0 {
		c.WindowLimit = DefaultWindowLimit
	}
}

// Limiter throttles outbound requests: minimum inter-request spacing plus
// a replenishing allowance over a rolling window. It is an explicit
// component instance, owned by whoever constructs the fetcher, so tests
// can substitute an accelerated one.
type Limiter struct {
	cfg     LimiterConfig
	spacing *rate.Limiter

	mu     sync.Mutex
	stamps []time.Time
}

func NewLimiter(cfg LimiterConfig) *Limiter {
	cfg.applyDefaults()
	return &Limiter{
		cfg:     cfg,
		spacing: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
	}
}

// Acquire blocks until the caller may issue one request, honoring both
// the spacing and the rolling-window allowance. It returns early only if
// the context is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.waitForWindow(ctx); err != nil {
		return err
	}
	if err := l.spacing.Wait(ctx); err != nil {
		return err
	}
	l.record(time.Now())
	return nil
}

func (l *Limiter) waitForWindow(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		l.prune(now)
		if len(l.stamps) < l.cfg.WindowLimit {
			l.mu.Unlock()
			return nil
		}
		wait := l.stamps[0].Add(l.cfg.Window).Sub(now)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Limiter) record(t time.Time) {
	l.mu.Lock()
	l.stamps = append(l.stamps, t)
	l.mu.Unlock()
}

func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.cfg.Window)
	idx := 0
	for idx < len(l.stamps) && l.stamps[idx].Before(cutoff) {
		idx++
	}
	if idx > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[idx:]...)
	}
}
