// ABOUTME: Event records exchanged between mutator goroutines and the collector
// ABOUTME: Defines the four graph-change event kinds and their payload shape

package collector

// eventKind tags the four graph-change notifications.
type eventKind uint8

const (
	evAddRoot eventKind = iota
	evRemoveRoot
	evConnect
	evDisconnect
)

func (k eventKind) String() string {
	switch k {
	case evAddRoot:
		return "AddRoot"
	case evRemoveRoot:
		return "RemoveRoot"
	case evConnect:
		return "Connect"
	case evDisconnect:
		return "Disconnect"
	}
	return "Unknown"
}

// event is a fixed-shape record describing one graph change. AddRoot and
// RemoveRoot use a only; Connect and Disconnect use a as the owner and b as
// the target.
type event struct {
	kind eventKind
	a    Collectable
	b    Collectable
}
