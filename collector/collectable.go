// ABOUTME: Managed-object base type embedded in every collectable object
// ABOUTME: Carries the collector-owned edge list, root count, and visitation stamp

package collector

// Base is the mixin carried by every object whose lifetime is governed by
// the collector. Embed it by value in a struct and the struct satisfies
// Collectable:
//
//	type Node struct {
//		collector.Base
//		next collector.Edge
//	}
//
// The fields inside Base belong to the collector. They mirror the reference
// graph as reconstructed from replayed events, which may lag what the
// application currently holds; the mirror catches up whenever events are
// drained.
type Base struct {
	// edges holds the outbound references as seen by the collector.
	// Duplicates are meaningful: connecting the same pair twice yields two
	// entries, and two disconnects are needed to remove both.
	edges []Collectable

	// rootCount is the number of live Root handles pointing at this object.
	rootCount int

	// stamp is compared against the collector's sequence counter to decide
	// whether the object was reached during the current trace.
	stamp uint64
}

// Collectable is satisfied by any struct that embeds Base. The collector
// exclusively owns the lifetime of every object it has registered: only the
// sweep calls Finalize, and it calls it exactly once.
type Collectable interface {
	gcBase() *Base

	// Finalize is the polymorphic destructor invoked on the collector
	// goroutine when the object is swept. Base supplies a no-op; a concrete
	// type declares its own Finalize to run teardown. Releasing embedded
	// Edge handles inside Finalize is safe and emits no events.
	Finalize()
}

func (b *Base) gcBase() *Base { return b }

// Finalize is the default no-op destructor.
func (b *Base) Finalize() {}
