// ABOUTME: Per-collection statistics exposed for monitoring
// ABOUTME: Records live/swept counts and timing of the most recent trace

package collector

import "time"

// CollectStats describes one collection cycle that actually traced (a
// Collect call that found the graph unchanged records nothing).
type CollectStats struct {
	Sequence  uint64        // trace sequence number
	Live      int           // objects surviving the sweep
	Swept     int           // objects finalized
	Drained   int           // events replayed at the start of the cycle
	Duration  time.Duration // trace + sweep wall time
	Timestamp time.Time     // when the trace began
}

// LastStats returns the statistics of the most recent tracing collection,
// or false if none has run yet.
func (c *Collector) LastStats() (CollectStats, bool) {
	v := c.lastStats.Load()
	if v == nil {
		return CollectStats{}, false
	}
	return v.(CollectStats), true
}

// Collections returns how many tracing collections have completed.
func (c *Collector) Collections() uint64 {
	return c.collections.Load()
}
