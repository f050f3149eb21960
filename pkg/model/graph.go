package model

import "time"

// DefaultGraphName is the name given to graphs built from an adjacency source
const DefaultGraphName = "Graf Default"

// Graph is the canonical node/edge description of a weighted undirected graph.
// It is the common data model shared by the graph builder, the store and the web layer.
type Graph struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NewGraph creates a new empty graph with the given name.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:  name,
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
}

// Node represents a vertex of the graph together with its display position.
type Node struct {
	ID   string  `json:"id"`
	Name string  `json:"name"` // Display label, often equal to ID
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Edge represents an undirected weighted connection. (A,B) and (B,A) are the same edge.
type Edge struct {
	A string  `json:"a"`
	B string  `json:"b"`
	W float64 `json:"w"`
}

// EdgeRef identifies a traversed edge without its weight.
type EdgeRef struct {
	A string `json:"a"`
	B string `json:"b"`
}

// GraphSummary is a catalog entry for a stored graph.
type GraphSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddNode appends a node to the graph.
func (g *Graph) AddNode(node Node) {
	g.Nodes = append(g.Nodes, node)
}

// AddEdge appends an edge to the graph.
func (g *Graph) AddEdge(edge Edge) {
	g.Edges = append(g.Edges, edge)
}

// NodeIDs returns the node ids in graph order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// Normalize replaces nil slices with empty ones so the graph serialises as [] rather than null.
func (g *Graph) Normalize() {
	if g.Nodes == nil {
		g.Nodes = make([]Node, 0)
	}
	if g.Edges == nil {
		g.Edges = make([]Edge, 0)
	}
}
