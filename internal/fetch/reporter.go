package fetch

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Reporter periodically logs the aggregate outbound request rate. Its
// lifecycle is explicit: nothing is reported before Start, nothing after
// Stop.
type Reporter struct {
	interval time.Duration
	count    atomic.Int64

	mu   sync.Mutex
	done chan struct{}
}

func NewReporter(interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reporter{interval: interval}
}

// Record counts one issued request.
func (r *Reporter) Record() {
	r.count.Add(1)
}

// Count returns the number of requests recorded since the last report.
func (r *Reporter) Count() int64 {
	return r.count.Load()
}

// Start launches the reporting loop. Calling Start on a running reporter
// is a no-op.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}
	r.done = make(chan struct{})

	go r.loop(r.done)
}

func (r *Reporter) loop(done chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n := r.count.Swap(0)
			slog.Info("finlex request rate", "requests", n, "interval", r.interval)
		}
	}
}

// Stop halts the reporting loop. Calling Stop on a stopped reporter is a
// no-op.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		return
	}
	close(r.done)
	r.done = nil
}
