// ABOUTME: BFS algorithm for finding paths from objects to rooted objects
// ABOUTME: Explains why an object survived collection; cycle-safe

package snapshot

// Path represents a path from an object to a rooted object
type Path struct {
	IDs []ObjID // Sequence of object IDs from target to root
}

// PathsToRoots finds up to maxPaths paths from an object back to the rooted
// objects using BFS over reverse edges. Useful for answering "what keeps
// this object alive" when a cycle refuses to be collected.
func PathsToRoots(s *Snapshot, from ObjID, maxPaths int) []Path {
	if maxPaths <= 0 {
		return nil
	}

	reverse := BuildReverseEdges(s)

	roots := s.GetRoots()
	rootSet := make(map[ObjID]bool)
	for _, id := range roots.IDs {
		rootSet[id] = true
	}

	// The starting object may itself be rooted.
	if rootSet[from] {
		return []Path{{IDs: []ObjID{from}}}
	}

	type searchNode struct {
		id   ObjID
		path []ObjID
	}

	var result []Path
	queue := []searchNode{{id: from, path: []ObjID{from}}}

	for len(queue) > 0 && len(result) < maxPaths {
		node := queue[0]
		queue = queue[1:]

		for _, referrerID := range reverse[node.id] {
			// Avoid cycles: skip referrers already on this path.
			inPath := false
			for _, id := range node.path {
				if id == referrerID {
					inPath = true
					break
				}
			}
			if inPath {
				continue
			}

			newPath := make([]ObjID, len(node.path)+1)
			copy(newPath, node.path)
			newPath[len(node.path)] = referrerID

			if rootSet[referrerID] {
				result = append(result, Path{IDs: newPath})
				if len(result) >= maxPaths {
					break
				}
			} else {
				queue = append(queue, searchNode{
					id:   referrerID,
					path: newPath,
				})
			}
		}
	}

	return result
}
