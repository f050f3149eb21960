package model

// wireGraph accepts both the English field names and the legacy ones
// (nama/titik/garis) used by older clients.
type wireGraph struct {
	Name  any        `json:"name"`
	Nama  any        `json:"nama"`
	Nodes []wireNode `json:"nodes"`
	Titik []wireNode `json:"titik"`
	Edges []wireEdge `json:"edges"`
	Garis []wireEdge `json:"garis"`
}

type wireNode struct {
	ID   any `json:"id"`
	Name any `json:"name"`
	Nama any `json:"nama"`
	X    any `json:"x"`
	Y    any `json:"y"`
}

type wireEdge struct {
	A any `json:"a"`
	B any `json:"b"`
	W any `json:"w"`
}

// UnmarshalJSON decodes a graph leniently. Ids may be numbers, a node without a
// name is named after its id, missing coordinates and weights are 0. Nodes without
// an id and edges whose weight is not a number are dropped.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var w wireGraph
	if err := DecodeLoose(data, &w); err != nil {
		return err
	}

	nodes := w.Nodes
	if nodes == nil {
		nodes = w.Titik
	}
	edges := w.Edges
	if edges == nil {
		edges = w.Garis
	}

	name, _ := CoerceID(w.Name)
	if name == "" {
		name, _ = CoerceID(w.Nama)
	}

	*g = *NewGraph(name)
	for _, n := range nodes {
		id, ok := CoerceID(n.ID)
		if !ok || id == "" {
			continue
		}
		label, _ := CoerceID(n.Name)
		if label == "" {
			label, _ = CoerceID(n.Nama)
		}
		if label == "" {
			label = id
		}
		x, _ := CoerceWeight(n.X)
		y, _ := CoerceWeight(n.Y)
		g.AddNode(Node{ID: id, Name: label, X: x, Y: y})
	}
	for _, e := range edges {
		a, okA := CoerceID(e.A)
		b, okB := CoerceID(e.B)
		weight, okW := CoerceWeight(e.W)
		if !okA || !okB || !okW {
			continue
		}
		g.AddEdge(Edge{A: a, B: b, W: weight})
	}
	return nil
}
