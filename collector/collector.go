// ABOUTME: The collector engine: registry, event replay, and mark-sweep tracing
// ABOUTME: Owns the mirrored reference graph and reclaims unreachable objects

package collector

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prateek/cyclegc/snapshot"
)

// Warnf is the signature of the warning hook used for non-fatal conditions
// (currently only event-queue overflow).
type Warnf func(format string, args ...any)

// Option configures a Collector at construction time.
type Option func(*Collector)

// WithQueueCapacity sets the event queue capacity. The default is 32000.
func WithQueueCapacity(n int) Option {
	return func(c *Collector) { c.queueCapacity = n }
}

// WithWarnf replaces the warning hook. The default writes through the
// standard log package.
func WithWarnf(fn Warnf) Option {
	return func(c *Collector) { c.warnf = fn }
}

// Collector is a mark-sweep garbage collector that runs concurrently with
// the mutator goroutines that feed it. Mutators only ever enqueue events
// (via Root and Edge handles); the mirrored graph is touched exclusively
// under the mirror lock by ProcessEvents and Collect.
//
// Any number of goroutines may manipulate handles concurrently. Collect
// must be driven from a single designated goroutine at a time; ProcessEvents
// may be called from anywhere. Both serialize on the mirror lock.
type Collector struct {
	queue *eventQueue

	// mu is the mirror lock. It guards nodes, ids, sequence, and dirty, and
	// serializes replay against tracing.
	mu sync.Mutex

	// nodes is the registry: every object observed as a root target and not
	// yet swept.
	nodes map[Collectable]struct{}

	// ids assigns stable snapshot identifiers to registered objects.
	ids    map[Collectable]snapshot.ObjID
	nextID snapshot.ObjID

	// sequence advances once per trace; an object whose stamp equals it was
	// reached during the current trace.
	sequence uint64

	// dirty records whether any event has been applied since the last trace.
	dirty bool

	// sweeper holds the id of the goroutine currently inside Collect, or 0.
	sweeper atomic.Uint64

	collections atomic.Uint64
	lastStats   atomic.Value // CollectStats

	queueCapacity int
	warnf         Warnf
}

// New creates a Collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		nodes:         make(map[Collectable]struct{}),
		ids:           make(map[Collectable]snapshot.ObjID),
		nextID:        1,
		queueCapacity: defaultQueueCapacity,
		warnf:         log.Printf,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.queue = newEventQueue(c.queueCapacity)
	return c
}

// Global default instance, for programs that want handle construction to
// find the collector without threading it through every call site.
var (
	defaultOnce sync.Once
	defaultC    *Collector
)

// Default returns the process-wide Collector, creating it on first use.
// It is never torn down; a program that needs teardown should own an
// explicit instance from New.
func Default() *Collector {
	defaultOnce.Do(func() { defaultC = New() })
	return defaultC
}

// pushEvent enqueues one event, retrying with a visible warning while the
// queue is full. Overflow is not fatal; it means the collector is not being
// drained often enough.
func (c *Collector) pushEvent(ev event) {
	for !c.queue.push(ev) {
		c.warnf("collector: event queue is full (%s, cap %d)", ev.kind, c.queue.cap())
		runtime.Gosched()
	}
}

// AddRoot notifies the collector that a new root reference to node exists.
// Safe from any goroutine. Root handles call this; application code should
// rarely need to.
func (c *Collector) AddRoot(node Collectable) {
	c.pushEvent(event{kind: evAddRoot, a: node})
}

// RemoveRoot notifies the collector that a root reference to node was
// dropped. Safe from any goroutine.
func (c *Collector) RemoveRoot(node Collectable) {
	c.pushEvent(event{kind: evRemoveRoot, a: node})
}

// Connect notifies the collector of a new reference from a to b. Safe from
// any goroutine.
func (c *Collector) Connect(a, b Collectable) {
	c.pushEvent(event{kind: evConnect, a: a, b: b})
}

// Disconnect notifies the collector that one reference from a to b was
// dropped. Safe from any goroutine.
func (c *Collector) Disconnect(a, b Collectable) {
	c.pushEvent(event{kind: evDisconnect, a: a, b: b})
}

// ProcessEvents drains pending events into the mirrored graph without
// tracing. Calling it is optional but keeps the queue shallow when the
// mutators generate many changes between collections. Cheap when the queue
// is empty.
func (c *Collector) ProcessEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainLocked()
}

// drainLocked replays every queued event into the mirror. Caller holds mu.
// Returns the number of events applied.
func (c *Collector) drainLocked() int {
	n := 0
	for {
		ev, ok := c.queue.pop()
		if !ok {
			return n
		}
		n++
		c.dirty = true
		switch ev.kind {
		case evAddRoot:
			c.nodes[ev.a] = struct{}{}
			ev.a.gcBase().rootCount++
		case evRemoveRoot:
			b := ev.a.gcBase()
			b.rootCount--
			if b.rootCount < 0 {
				panic(fmt.Sprintf("collector: root count below zero for %T(%p); a Root handle was released twice or bypassed", ev.a, ev.a))
			}
		case evConnect:
			b := ev.a.gcBase()
			b.edges = append(b.edges, ev.b)
		case evDisconnect:
			b := ev.a.gcBase()
			found := false
			for i, adj := range b.edges {
				if adj == ev.b {
					b.edges = append(b.edges[:i], b.edges[i+1:]...)
					found = true
					break
				}
			}
			if !found {
				panic(fmt.Sprintf("collector: disconnect of absent edge %T(%p) -> %T(%p); an Edge handle was bypassed", ev.a, ev.a, ev.b, ev.b))
			}
		}
	}
}

// Collect drains pending events and, if the graph changed since the last
// trace, marks every object reachable from a root and finalizes the rest.
// Only call Collect from one goroutine at a time (the designated collector
// worker). Object finalizers run on the calling goroutine with the
// in-collector flag set, so Edge releases inside them emit no events.
func (c *Collector) Collect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweeper.Store(curGID())
	defer c.sweeper.Store(0)

	drained := c.drainLocked()

	if !c.dirty {
		return
	}

	start := time.Now()
	c.sequence++

	// Seed the traversal with every rooted object.
	var stack []Collectable
	for node := range c.nodes {
		if node.gcBase().rootCount > 0 {
			stack = append(stack, node)
		}
	}

	// Mark. Duplicate edges cost one extra push and stamp comparison.
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b := node.gcBase()
		if b.stamp != c.sequence {
			b.stamp = c.sequence
			stack = append(stack, b.edges...)
		}
	}

	// Sweep. The registry swap is the single point of reclamation: an
	// object leaves the registry exactly when it is finalized.
	survivors := make(map[Collectable]struct{}, len(c.nodes))
	swept := 0
	for node := range c.nodes {
		if node.gcBase().stamp != c.sequence {
			delete(c.ids, node)
			swept++
			node.Finalize()
		} else {
			survivors[node] = struct{}{}
		}
	}
	c.nodes = survivors
	c.dirty = false

	c.collections.Add(1)
	c.lastStats.Store(CollectStats{
		Sequence:  c.sequence,
		Live:      len(survivors),
		Swept:     swept,
		Drained:   drained,
		Duration:  time.Since(start),
		Timestamp: start,
	})
}

// InCollector reports whether the calling goroutine is the one currently
// inside Collect. Edge handle releases consult it so that references inside
// objects being torn down by the sweep do not emit Disconnect events.
func (c *Collector) InCollector() bool {
	gid := c.sweeper.Load()
	return gid != 0 && gid == curGID()
}

// NumTracked returns the number of objects currently in the registry.
func (c *Collector) NumTracked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// QueueLen reports how many events are waiting to be drained. Diagnostic
// only; the value may be stale by the time it is returned.
func (c *Collector) QueueLen() int { return c.queue.len() }

// Snapshot captures the mirrored graph as plain data for inspection. IDs
// are stable per object across snapshots of the same Collector. No liveness
// guarantee attaches to a snapshot; it is a copy.
func (c *Collector) Snapshot() *snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := snapshot.New()
	var roots []snapshot.ObjID
	for node := range c.nodes {
		id := c.idLocked(node)
		b := node.gcBase()
		obj := &snapshot.Object{
			ID:   id,
			Type: fmt.Sprintf("%T", node),
		}
		for _, adj := range b.edges {
			obj.Ptrs = append(obj.Ptrs, c.idLocked(adj))
		}
		s.AddObject(obj)
		if b.rootCount > 0 {
			roots = append(roots, id)
		}
	}
	// Edge targets that never received an AddRoot are not in the registry;
	// give them records too so paths stay walkable.
	for node := range c.nodes {
		for _, adj := range node.gcBase().edges {
			id := c.idLocked(adj)
			if s.GetObject(id) == nil {
				s.AddObject(&snapshot.Object{ID: id, Type: fmt.Sprintf("%T", adj)})
			}
		}
	}
	s.SetRoots(snapshot.Roots{IDs: roots})
	return s
}

// idLocked returns the stable snapshot id for node, assigning one on first
// sight. Caller holds mu.
func (c *Collector) idLocked(node Collectable) snapshot.ObjID {
	if id, ok := c.ids[node]; ok {
		return id
	}
	id := c.nextID
	c.nextID++
	c.ids[node] = id
	return id
}
