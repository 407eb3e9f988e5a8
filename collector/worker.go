// ABOUTME: Optional background worker that drives collection on an interval
// ABOUTME: Owns the designated collector goroutine with Start/Stop lifecycle

package collector

import (
	"sync"
	"time"
)

// DefaultInterval is the default collection cadence for a Worker.
const DefaultInterval = 1 * time.Second

// Worker drives a Collector from a dedicated goroutine: it drains events
// frequently and collects once per interval. Using a Worker satisfies the
// single-designated-goroutine requirement of Collect; a program that runs
// its own collection loop should not also start a Worker on the same
// Collector.
type Worker struct {
	c        *Collector
	interval time.Duration

	mu      sync.Mutex // protects start/stop lifecycle
	stop    chan struct{}
	stopped chan struct{}
}

// NewWorker creates a Worker collecting every interval. A nonpositive
// interval selects DefaultInterval.
func NewWorker(c *Collector, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{c: c, interval: interval}
}

// Start launches the collection goroutine. Safe to call more than once;
// only one loop runs.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop != nil {
		return // already running
	}

	w.stop = make(chan struct{})
	w.stopped = make(chan struct{})

	// Capture channels locally so the goroutine does not read w.stop after
	// Stop has nilled it out.
	stopCh := w.stop
	stoppedCh := w.stopped
	go w.loop(stopCh, stoppedCh)
}

// Stop halts the collection goroutine and waits for it to finish. Safe to
// call more than once or on a Worker that was never started. Pending events
// are drained, but no final trace runs; objects still tracked at Stop are
// left registered.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop == nil {
		return
	}

	close(w.stop)
	<-w.stopped
	w.stop = nil
	w.stopped = nil
}

func (w *Worker) loop(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Drain more often than we trace so the queue stays shallow between
	// collections.
	drainEvery := w.interval / 10
	if drainEvery <= 0 {
		drainEvery = w.interval
	}
	drain := time.NewTicker(drainEvery)
	defer drain.Stop()

	for {
		select {
		case <-stop:
			w.c.ProcessEvents()
			return
		case <-drain.C:
			w.c.ProcessEvents()
		case <-ticker.C:
			w.c.Collect()
		}
	}
}
