package dijkstra

import (
	"math"

	"github.com/ritzau/dijkstra-trace/pkg/model"
	"gonum.org/v1/gonum/mat"
)

// WeightMatrix is a dense symmetric adjacency matrix with stable integer indices.
// Every cell carries a presence flag, so a declared zero-weight edge is distinct
// from a missing one.
type WeightMatrix struct {
	ids     []string       // index -> id, in the order ids were supplied
	index   map[string]int // id -> index, last occurrence wins
	weights *mat.SymDense  // nil for an empty matrix
	present []bool         // row-major n*n presence flags
	dropped int            // edges rejected while building
}

// BuildMatrix turns a node id list and an edge list into a WeightMatrix.
//
// Index i is assigned to ids[i]; duplicate ids collapse onto the index of their last
// occurrence. Edges whose endpoints do not resolve, self-loops, and edges with
// negative or non-finite weights are skipped. When a pair appears twice the last
// weight wins.
func BuildMatrix(ids []string, edges []model.Edge) *WeightMatrix {
	n := len(ids)
	m := &WeightMatrix{
		ids:     append([]string(nil), ids...),
		index:   make(map[string]int, n),
		present: make([]bool, n*n),
	}
	for i, id := range ids {
		m.index[id] = i
	}
	if n > 0 {
		m.weights = mat.NewSymDense(n, nil)
	}

	for _, e := range edges {
		a, okA := m.index[e.A]
		b, okB := m.index[e.B]
		if !okA || !okB {
			m.dropped++
			continue
		}
		if a == b || !usableWeight(e.W) {
			m.dropped++
			continue
		}
		m.weights.SetSym(a, b, e.W)
		m.present[a*n+b] = true
		m.present[b*n+a] = true
	}

	return m
}

func usableWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// Size returns the number of rows (and columns) of the matrix.
func (m *WeightMatrix) Size() int {
	return len(m.ids)
}

// Weight returns the weight stored at (i, j), 0 when there is no edge.
func (m *WeightMatrix) Weight(i, j int) float64 {
	if !m.inRange(i) || !m.inRange(j) {
		return 0
	}
	return m.weights.At(i, j)
}

// HasEdge reports whether an edge was declared between i and j.
func (m *WeightMatrix) HasEdge(i, j int) bool {
	if !m.inRange(i) || !m.inRange(j) {
		return false
	}
	return m.present[i*len(m.ids)+j]
}

// Index resolves an external id to its matrix index.
func (m *WeightMatrix) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// ID maps a matrix index back to its external id.
func (m *WeightMatrix) ID(i int) string {
	if !m.inRange(i) {
		return ""
	}
	return m.ids[i]
}

// Dropped returns how many edges were skipped while building.
func (m *WeightMatrix) Dropped() int {
	return m.dropped
}

// Unique returns the number of distinct ids.
func (m *WeightMatrix) Unique() int {
	return len(m.index)
}

func (m *WeightMatrix) inRange(i int) bool {
	return i >= 0 && i < len(m.ids)
}
