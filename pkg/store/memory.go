package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// Memory is an in-process Store. It is used when no database is configured.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	graphs []record
	now    func() time.Time
}

type record struct {
	summary model.GraphSummary
	nodes   []model.Node
	edges   []model.Edge
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1, now: time.Now}
}

// CreateSchema is a no-op.
func (m *Memory) CreateSchema(ctx context.Context) error {
	return nil
}

func (m *Memory) Insert(ctx context.Context, g *model.Graph) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.graphs = append(m.graphs, record{
		summary: model.GraphSummary{
			ID:        id,
			Name:      NameOrDefault(g.Name),
			CreatedAt: m.now().UTC(),
		},
		nodes: slices.Clone(g.Nodes),
		edges: slices.Clone(g.Edges),
	})
	return id, nil
}

func (m *Memory) Replace(ctx context.Context, id int64, g *model.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.graphs {
		if m.graphs[i].summary.ID == id {
			m.graphs[i].nodes = slices.Clone(g.Nodes)
			m.graphs[i].edges = slices.Clone(g.Edges)
			return nil
		}
	}
	return ErrGraphNotFound
}

func (m *Memory) List(ctx context.Context) ([]model.GraphSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.GraphSummary, 0, len(m.graphs))
	for i := len(m.graphs) - 1; i >= 0; i-- {
		out = append(out, m.graphs[i].summary)
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id int64) (*model.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.graphs {
		if r.summary.ID == id {
			g := &model.Graph{
				Name:  r.summary.Name,
				Nodes: slices.Clone(r.nodes),
				Edges: slices.Clone(r.edges),
			}
			g.Normalize()
			return g, nil
		}
	}
	return nil, ErrGraphNotFound
}

func (m *Memory) FindByName(ctx context.Context, name string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.graphs {
		if r.summary.Name == name {
			return r.summary.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.graphs), nil
}

var _ Store = (*Memory)(nil)
