// ABOUTME: Builds reverse edges for snapshot traversal
// ABOUTME: Maps objects to their referrers for paths-to-roots

package snapshot

// ReverseEdges maps each object to the objects that referenced it
type ReverseEdges map[ObjID][]ObjID

// BuildReverseEdges creates a map of reverse edges
func BuildReverseEdges(s *Snapshot) ReverseEdges {
	reverse := make(ReverseEdges)

	s.ForEachObject(func(obj *Object) {
		for _, targetID := range obj.Ptrs {
			reverse[targetID] = append(reverse[targetID], obj.ID)
		}
	})

	return reverse
}
