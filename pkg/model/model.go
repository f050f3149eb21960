package model

import (
	"encoding/json"
	"math"
)

// Distance is a path length that may be infinite.
// It serialises +Inf as JSON null so unreached nodes survive the round trip.
type Distance float64

// Infinity is the distance of a node that has not been reached.
var Infinity = Distance(math.Inf(1))

// IsInf reports whether the distance is unreachable.
func (d Distance) IsInf() bool {
	return math.IsInf(float64(d), 1)
}

func (d Distance) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (d *Distance) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Infinity
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*d = Distance(f)
	return nil
}

// Iteration is the replayable state of one engine step, keyed by external node ids.
type Iteration struct {
	Step             int                 `json:"step"`             // 1-based
	SettledNode      string              `json:"settledNode"`      // Node finalised in this step
	DistanceAtSettle float64             `json:"distanceAtSettle"` // Its final distance
	Visited          []string            `json:"visited"`          // Settled nodes so far, in settle order
	Distances        map[string]Distance `json:"distances"`        // Tentative distance of every node
	Predecessors     map[string]string   `json:"predecessors"`     // Tentative predecessor, absent when none
}

// Result is the outcome of a shortest-path request.
type Result struct {
	Path       []string    `json:"path"`
	Total      *float64    `json:"total"` // nil when the goal is unreachable
	EdgePath   []EdgeRef   `json:"edgePath"`
	Iterations []Iteration `json:"iterations"`
}

// EmptyResult is the well-formed answer for missing input or an unreachable goal.
func EmptyResult() Result {
	return Result{
		Path:       []string{},
		Total:      nil,
		EdgePath:   []EdgeRef{},
		Iterations: []Iteration{},
	}
}

// Found reports whether the result carries a path.
func (r Result) Found() bool {
	return r.Total != nil && len(r.Path) > 0
}
