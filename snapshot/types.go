// ABOUTME: Core data types for mirrored-graph snapshots
// ABOUTME: Defines Object, ObjID, and Roots structures

package snapshot

// ObjID is a stable identifier for a tracked object. IDs are assigned by
// the collector when an object is first captured and stay the same across
// snapshots of the same collector.
type ObjID uint64

// Object records one tracked object as mirrored at capture time
type Object struct {
	ID   ObjID   // Stable identifier
	Type string  // Dynamic Go type name (e.g. "*main.Node")
	Ptrs []ObjID // IDs of objects this object referenced; duplicates preserved
}

// Roots represents the set of rooted objects at capture time
type Roots struct {
	IDs []ObjID // Object IDs with a positive root count
}
