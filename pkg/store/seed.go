package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/ritzau/dijkstra-trace/pkg/logging"
	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// SampleGraphName is the name of the graph inserted into an empty store.
const SampleGraphName = "Contoh Graf"

// SampleGraph returns the three-node example graph.
func SampleGraph() *model.Graph {
	g := model.NewGraph(SampleGraphName)
	g.AddNode(model.Node{ID: "1", Name: "A", X: 120, Y: 120})
	g.AddNode(model.Node{ID: "2", Name: "B", X: 180, Y: 160})
	g.AddNode(model.Node{ID: "3", Name: "C", X: 240, Y: 180})
	g.AddEdge(model.Edge{A: "1", B: "2", W: 40})
	g.AddEdge(model.Edge{A: "2", B: "3", W: 60})
	return g
}

// Seed inserts source unless a graph with its name already exists, in which case the
// stored nodes and edges are replaced when they differ. It then inserts the sample
// graph if the store is still empty. A nil or empty source is skipped.
// It returns the id of the source graph, or 0 when there is none.
func Seed(ctx context.Context, s Store, source *model.Graph) (int64, error) {
	var sourceID int64
	if source != nil && len(source.Nodes) > 0 {
		name := NameOrDefault(source.Name)
		id, ok, err := s.FindByName(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("find %q: %w", name, err)
		}
		if !ok {
			id, err = s.Insert(ctx, source)
			if err != nil {
				return 0, fmt.Errorf("insert %q: %w", name, err)
			}
			logging.Info("Seeded source graph", "id", id, "name", name, "nodes", len(source.Nodes))
		} else if err := refresh(ctx, s, id, source); err != nil {
			return 0, err
		}
		sourceID = id
	}

	count, err := s.Count(ctx)
	if err != nil {
		return sourceID, fmt.Errorf("count graphs: %w", err)
	}
	if count == 0 {
		id, err := s.Insert(ctx, SampleGraph())
		if err != nil {
			return sourceID, fmt.Errorf("insert sample graph: %w", err)
		}
		logging.Info("Seeded sample graph", "id", id)
	}
	return sourceID, nil
}

// refresh replaces the stored contents of graph id when they differ from g.
func refresh(ctx context.Context, s Store, id int64, g *model.Graph) error {
	stored, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load graph %d: %w", id, err)
	}
	if slices.Equal(stored.Nodes, g.Nodes) && slices.Equal(stored.Edges, g.Edges) {
		return nil
	}
	if err := s.Replace(ctx, id, g); err != nil {
		return fmt.Errorf("replace graph %d: %w", id, err)
	}
	logging.Info("Refreshed source graph", "id", id, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}
