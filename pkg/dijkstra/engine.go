package dijkstra

import "math"

// NoPredecessor marks a node without a predecessor (the source, or an unreached node).
const NoPredecessor = -1

// Entry is the state of one node in a DistanceTable.
type Entry struct {
	Distance    float64 // +Inf when unreached
	Predecessor int     // NoPredecessor when none
}

// DistanceTable holds one Entry per matrix index.
type DistanceTable []Entry

// Reached reports whether index i has a finite distance.
func (t DistanceTable) Reached(i int) bool {
	return i >= 0 && i < len(t) && !math.IsInf(t[i].Distance, 1)
}

// Clone returns an independent copy of the table.
func (t DistanceTable) Clone() DistanceTable {
	c := make(DistanceTable, len(t))
	copy(c, t)
	return c
}

// Snapshot is the state recorded after one node has been settled and its
// neighbours relaxed. Snapshots are never mutated after creation.
type Snapshot struct {
	Settled  int           // Index settled in this step
	Distance float64       // Its final distance
	Visited  []int         // All settled indices so far, in settle order
	Table    DistanceTable // Copy of the distance table after relaxation
}

// Run computes shortest distances from source over m and records one Snapshot per
// settled node.
//
// The minimum is found by a linear scan over unsettled indices with ties going to
// the lowest index, so the trace is reproducible. The loop stops as soon as the
// smallest unsettled distance is +Inf. An out-of-range source leaves every node
// unreached and yields no snapshots.
func Run(m *WeightMatrix, source int) (DistanceTable, []Snapshot) {
	n := m.Size()
	table := make(DistanceTable, n)
	for i := range table {
		table[i] = Entry{Distance: math.Inf(1), Predecessor: NoPredecessor}
	}
	if source < 0 || source >= n {
		return table, []Snapshot{}
	}
	table[source].Distance = 0

	settled := make([]bool, n)
	visited := make([]int, 0, n)
	snapshots := make([]Snapshot, 0, n)

	for range n {
		u := nextUnsettled(table, settled)
		if u < 0 {
			break
		}
		settled[u] = true
		visited = append(visited, u)

		for j := range n {
			if settled[j] || !m.HasEdge(u, j) {
				continue
			}
			candidate := table[u].Distance + m.Weight(u, j)
			if candidate < table[j].Distance {
				table[j].Distance = candidate
				table[j].Predecessor = u
			}
		}

		snapshots = append(snapshots, Snapshot{
			Settled:  u,
			Distance: table[u].Distance,
			Visited:  append([]int(nil), visited...),
			Table:    table.Clone(),
		})
	}

	return table, snapshots
}

// nextUnsettled returns the unsettled index with the smallest finite distance, or -1.
func nextUnsettled(table DistanceTable, settled []bool) int {
	best := -1
	bestDist := math.Inf(1)
	for i, e := range table {
		if settled[i] {
			continue
		}
		if e.Distance < bestDist {
			best = i
			bestDist = e.Distance
		}
	}
	return best
}
