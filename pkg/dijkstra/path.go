package dijkstra

// Reconstruct walks predecessor links back from target and returns the indices
// from the source to target. It returns nil when target is unreached.
func Reconstruct(target int, table DistanceTable) []int {
	if !table.Reached(target) {
		return nil
	}

	path := []int{target}
	current := target
	// A well-formed table never links more than len(table) nodes.
	for range len(table) {
		prev := table[current].Predecessor
		if prev == NoPredecessor {
			break
		}
		path = append(path, prev)
		current = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
