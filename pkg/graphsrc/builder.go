package graphsrc

import (
	"sort"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// FromAdjacencyMap builds a graph from an adjacency document.
//
// Nodes are the sorted union of every key and every neighbour label. Each node is
// placed at its coordinate hint, or on an 8-column grid by sorted index when no hint
// exists. Edges keep the first declaration of each unordered pair; later
// declarations of the same pair, in either direction, are dropped. Neighbours with an
// unreadable weight and self-references contribute a node but no edge.
func FromAdjacencyMap(raw AdjacencyMap, hints Coordinates) model.Graph {
	labels := make(map[string]struct{})
	for _, entry := range raw {
		labels[entry.Label] = struct{}{}
		for _, n := range entry.Neighbors {
			labels[n.Label] = struct{}{}
		}
	}

	names := make([]string, 0, len(labels))
	for label := range labels {
		names = append(names, label)
	}
	sort.Strings(names)

	g := model.NewGraph(model.DefaultGraphName)
	for i, name := range names {
		pos, ok := hints.Lookup(name)
		if !ok {
			pos = GridPosition(i)
		}
		g.AddNode(model.Node{ID: name, Name: name, X: pos.X, Y: pos.Y})
	}

	seen := make(map[[2]string]bool)
	for _, entry := range raw {
		for _, n := range entry.Neighbors {
			if !n.Valid || n.Label == entry.Label {
				continue
			}
			key := pairKey(entry.Label, n.Label)
			if seen[key] {
				continue
			}
			seen[key] = true
			g.AddEdge(model.Edge{A: entry.Label, B: n.Label, W: n.Weight})
		}
	}

	return *g
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
