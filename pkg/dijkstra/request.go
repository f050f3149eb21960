package dijkstra

import (
	"math"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// Request is the input of a shortest-path computation.
type Request struct {
	NodeIDs []string     `json:"nodeIds"`
	Edges   []model.Edge `json:"edges"`
	StartID string       `json:"startId"`
	GoalID  string       `json:"goalId"`
}

// wireRequest accepts both the English field names and the legacy ones
// (titik/garis/awalId/tujuanId) sent by older clients.
type wireRequest struct {
	NodeIDs  []any      `json:"nodeIds"`
	Titik    []any      `json:"titik"`
	Edges    []wireEdge `json:"edges"`
	Garis    []wireEdge `json:"garis"`
	StartID  any        `json:"startId"`
	AwalID   any        `json:"awalId"`
	GoalID   any        `json:"goalId"`
	TujuanID any        `json:"tujuanId"`
}

type wireEdge struct {
	A any `json:"a"`
	B any `json:"b"`
	W any `json:"w"`
}

// UnmarshalJSON decodes a request leniently: ids may be strings or numbers, and
// edges with a weight that is not a number are kept with a NaN weight so that
// BuildMatrix drops them and Validate can report them.
func (r *Request) UnmarshalJSON(data []byte) error {
	var w wireRequest
	if err := model.DecodeLoose(data, &w); err != nil {
		return err
	}

	nodes := w.NodeIDs
	if nodes == nil {
		nodes = w.Titik
	}
	edges := w.Edges
	if edges == nil {
		edges = w.Garis
	}

	*r = Request{
		NodeIDs: make([]string, 0, len(nodes)),
		Edges:   make([]model.Edge, 0, len(edges)),
		StartID: firstID(w.StartID, w.AwalID),
		GoalID:  firstID(w.GoalID, w.TujuanID),
	}

	for _, raw := range nodes {
		if id, ok := model.CoerceID(raw); ok {
			r.NodeIDs = append(r.NodeIDs, id)
		}
	}
	for _, e := range edges {
		a, okA := model.CoerceID(e.A)
		b, okB := model.CoerceID(e.B)
		if !okA || !okB {
			continue
		}
		weight, ok := model.CoerceWeight(e.W)
		if !ok {
			weight = math.NaN()
		}
		r.Edges = append(r.Edges, model.Edge{A: a, B: b, W: weight})
	}
	return nil
}

func firstID(values ...any) string {
	for _, v := range values {
		if id, ok := model.CoerceID(v); ok && id != "" {
			return id
		}
	}
	return ""
}

// RequestFromGraph builds a request over a stored graph.
func RequestFromGraph(g *model.Graph, startID, goalID string) Request {
	return Request{
		NodeIDs: g.NodeIDs(),
		Edges:   g.Edges,
		StartID: startID,
		GoalID:  goalID,
	}
}
