// ABOUTME: Root and Edge handles, the only legal way to mutate the mirrored graph
// ABOUTME: Handle construction, assignment, and release emit the event protocol

package collector

import "reflect"

// Root pins its referent as a GC root for as long as the handle is live.
// Use a Root for every stack- or locally-scoped reference to a collectable,
// including the result of a fresh allocation:
//
//	n := &Node{}
//	r := c.NewRoot(n)
//	defer r.Release()
//
// Go cannot hook plain struct assignment, so copying a Root with = is
// outside the protocol; use Clone for a copy and Set for reassignment.
// Each live Root independently contributes one root reference.
type Root struct {
	c   *Collector
	ptr Collectable
}

// NewRoot creates a Root pinning obj. A nil obj yields a null handle that
// emits nothing.
func (c *Collector) NewRoot(obj Collectable) Root {
	r := Root{c: c, ptr: obj}
	r.retain()
	return r
}

// NewRoot creates a Root on the default collector.
func NewRoot(obj Collectable) Root { return Default().NewRoot(obj) }

func (r *Root) retain() {
	if r.ptr != nil {
		r.c.AddRoot(r.ptr)
	}
}

func (r *Root) release() {
	if r.ptr != nil {
		r.c.RemoveRoot(r.ptr)
	}
}

// Clone returns a new Root with the same target. The clone contributes its
// own root reference and must be released independently.
func (r Root) Clone() Root {
	return r.c.NewRoot(r.ptr)
}

// Set redirects the handle at obj. When the target actually changes, the
// old target loses a root reference and the new one gains one.
func (r *Root) Set(obj Collectable) {
	if r.ptr == obj {
		return
	}
	r.release()
	r.ptr = obj
	r.retain()
}

// Release drops the handle's root reference and nulls the handle. Releasing
// a handle is always legal from any goroutine; the collector never releases
// Root handles itself. A released (or null) handle emits nothing.
func (r *Root) Release() {
	r.release()
	r.ptr = nil
}

// Get returns the target, or nil for a null handle. The referent is
// guaranteed live while the handle is.
func (r Root) Get() Collectable { return r.ptr }

// Eq reports whether both handles point at the same object.
func (r Root) Eq(other Root) bool { return r.ptr == other.ptr }

// Less orders handles by target identity.
func (r Root) Less(other Root) bool {
	return identity(r.ptr) < identity(other.ptr)
}

// Edge represents one reference embedded inside a managed object. Every
// Edge has a fixed owner, named at construction and never reassigned; the
// owner labels the Connect/Disconnect events so the collector can mirror
// the edge on the right node.
//
// An Edge must stay embedded in its declared owner. The owner reference is
// only a label: the collector never dereferences it during a sweep, when it
// may already point at a finalized object.
type Edge struct {
	c     *Collector
	owner Collectable
	ptr   Collectable
}

// NewEdge creates a null Edge owned by owner. Emits nothing.
func (c *Collector) NewEdge(owner Collectable) Edge {
	if owner == nil {
		panic("collector: Edge requires an owner")
	}
	return Edge{c: c, owner: owner}
}

// NewEdgeTo creates an Edge owned by owner pointing at r's target.
func (c *Collector) NewEdgeTo(owner Collectable, r Root) Edge {
	e := c.NewEdge(owner)
	e.ptr = r.Get()
	e.retain()
	return e
}

// NewEdge creates a null Edge on the default collector.
func NewEdge(owner Collectable) Edge { return Default().NewEdge(owner) }

// NewEdgeTo creates a connected Edge on the default collector.
func NewEdgeTo(owner Collectable, r Root) Edge { return Default().NewEdgeTo(owner, r) }

func (e *Edge) retain() {
	if e.ptr != nil {
		e.c.Connect(e.owner, e.ptr)
	}
}

func (e *Edge) release() {
	if e.ptr != nil {
		e.c.Disconnect(e.owner, e.ptr)
	}
}

// Set redirects the edge at r's target. When the target changes, the old
// edge is disconnected before the new one is connected.
func (e *Edge) Set(r Root) {
	if e.ptr == r.Get() {
		return
	}
	e.release()
	e.ptr = r.Get()
	e.retain()
}

// SetEdge redirects the edge at another edge's target. Both edges must
// share an owner.
func (e *Edge) SetEdge(other Edge) {
	if e.owner != other.owner {
		panic("collector: SetEdge across owners")
	}
	if e.ptr == other.ptr {
		return
	}
	e.release()
	e.ptr = other.ptr
	e.retain()
}

// Release drops the edge and nulls the handle. When called on the goroutine
// currently inside Collect (that is, from a finalizer during a sweep), no
// Disconnect is emitted: the reference is logically gone with its owner,
// which the collector is already tearing down.
//
// Releasing the zero Edge is a no-op, so teardown code may release edge
// fields that were never assigned.
func (e *Edge) Release() {
	if e.c == nil {
		return
	}
	if !e.c.InCollector() {
		e.release()
	}
	e.ptr = nil
}

// Root returns a fresh Root pinning the edge's target.
func (e Edge) Root() Root { return e.c.NewRoot(e.ptr) }

// Get returns the target, or nil for a null edge.
func (e Edge) Get() Collectable { return e.ptr }

// Eq reports whether both edges point at the same object.
func (e Edge) Eq(other Edge) bool { return e.ptr == other.ptr }

// identity maps an object to a comparable address for ordering.
func identity(obj Collectable) uintptr {
	if obj == nil {
		return 0
	}
	return reflect.ValueOf(obj).Pointer()
}
