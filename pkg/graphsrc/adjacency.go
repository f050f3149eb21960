// Package graphsrc turns adjacency-list documents into canonical graphs.
package graphsrc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// ErrNotAdjacencyMap is returned when a document is not a JSON object of neighbour lists.
var ErrNotAdjacencyMap = errors.New("graphsrc: document is not an adjacency map")

// Neighbor is one [label, weight] pair from an adjacency list.
type Neighbor struct {
	Label  string
	Weight float64
	Valid  bool // false when the weight could not be read as a number
}

// AdjacencyEntry holds the neighbours declared under one label.
type AdjacencyEntry struct {
	Label     string
	Neighbors []Neighbor
}

// AdjacencyMap is an adjacency document in declaration order.
type AdjacencyMap []AdjacencyEntry

// ParseAdjacencyJSON reads a document of the form
//
//	{"T1": [["T2", 27], ["T25", 43]], "T2": [["T1", 27]]}
//
// keeping the keys in the order they appear. Items that are not arrays or have no
// label are skipped; an item without a weight gets weight 0.
func ParseAdjacencyJSON(data []byte) (AdjacencyMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAdjacencyMap, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotAdjacencyMap
	}

	var adj AdjacencyMap
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotAdjacencyMap, err)
		}
		label, _ := tok.(string)

		var items []any
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: neighbours of %q: %v", ErrNotAdjacencyMap, label, err)
		}

		entry := AdjacencyEntry{Label: label, Neighbors: make([]Neighbor, 0, len(items))}
		for _, item := range items {
			if n, ok := parseNeighbor(item); ok {
				entry.Neighbors = append(entry.Neighbors, n)
			}
		}
		adj = append(adj, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAdjacencyMap, err)
	}
	return adj, nil
}

func parseNeighbor(item any) (Neighbor, bool) {
	pair, ok := item.([]any)
	if !ok || len(pair) == 0 {
		return Neighbor{}, false
	}
	label, ok := model.CoerceID(pair[0])
	if !ok {
		return Neighbor{}, false
	}
	if len(pair) == 1 {
		return Neighbor{Label: label, Valid: true}, true
	}
	w, valid := model.CoerceWeight(pair[1])
	return Neighbor{Label: label, Weight: w, Valid: valid}, true
}
