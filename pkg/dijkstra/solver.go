package dijkstra

import (
	"log/slog"

	"github.com/ritzau/dijkstra-trace/pkg/logging"
	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// DefaultMaxNodes bounds the O(V^2) work of a single request. Every iteration
// carries a copy of the distance table, so the encoded result also grows with V^2.
const DefaultMaxNodes = 200

// Solver composes BuildMatrix, Run and Reconstruct into a single request/response call.
// A Solver holds only configuration and is safe for concurrent use.
type Solver struct {
	maxNodes int
	logger   *slog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithMaxNodes limits the number of node ids a request may carry. 0 disables the limit.
func WithMaxNodes(n int) Option {
	return func(s *Solver) {
		if n < 0 {
			n = 0
		}
		s.maxNodes = n
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) { s.logger = logger }
}

// NewSolver creates a Solver with DefaultMaxNodes and the "dijkstra" component logger.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		maxNodes: DefaultMaxNodes,
		logger:   logging.New("dijkstra"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxNodes returns the configured node limit.
func (s *Solver) MaxNodes() int {
	return s.maxNodes
}

// Solve computes the shortest path from req.StartID to req.GoalID.
//
// Solve never fails. Missing input, unknown ids, oversized requests and unreachable
// goals all produce model.EmptyResult(). When start and goal are the same node the
// path is that node alone with total 0 and no iterations. Otherwise Iterations holds
// the complete engine trace from the start node.
func (s *Solver) Solve(req Request) model.Result {
	if len(req.NodeIDs) == 0 || len(req.Edges) == 0 || req.StartID == "" || req.GoalID == "" {
		return model.EmptyResult()
	}
	if s.maxNodes > 0 && len(req.NodeIDs) > s.maxNodes {
		s.logger.Warn("request exceeds node limit", "nodes", len(req.NodeIDs), "limit", s.maxNodes)
		return model.EmptyResult()
	}

	m := BuildMatrix(req.NodeIDs, req.Edges)
	if dropped := m.Dropped(); dropped > 0 {
		s.logger.Debug("skipped unusable edges", "dropped", dropped, "edges", len(req.Edges))
	}

	start, okStart := m.Index(req.StartID)
	goal, okGoal := m.Index(req.GoalID)
	if !okStart || !okGoal {
		return model.EmptyResult()
	}

	if start == goal {
		total := 0.0
		return model.Result{
			Path:       []string{req.StartID},
			Total:      &total,
			EdgePath:   []model.EdgeRef{},
			Iterations: []model.Iteration{},
		}
	}

	table, snapshots := Run(m, start)
	s.logger.Debug("engine finished",
		"start", req.StartID,
		"goal", req.GoalID,
		"nodes", m.Size(),
		"settled", len(snapshots),
	)

	if !table.Reached(goal) {
		return model.EmptyResult()
	}

	indices := Reconstruct(goal, table)
	path := make([]string, len(indices))
	for i, idx := range indices {
		path[i] = m.ID(idx)
	}

	edgePath := make([]model.EdgeRef, 0, len(path))
	for i := 0; i+1 < len(path); i++ {
		edgePath = append(edgePath, model.EdgeRef{A: path[i], B: path[i+1]})
	}

	total := table[goal].Distance
	return model.Result{
		Path:       path,
		Total:      &total,
		EdgePath:   edgePath,
		Iterations: Iterations(m, snapshots),
	}
}

// Iterations converts engine snapshots into their external-id form.
func Iterations(m *WeightMatrix, snapshots []Snapshot) []model.Iteration {
	out := make([]model.Iteration, 0, len(snapshots))
	for step, snap := range snapshots {
		visited := make([]string, len(snap.Visited))
		for i, idx := range snap.Visited {
			visited[i] = m.ID(idx)
		}

		distances := make(map[string]model.Distance, len(snap.Table))
		predecessors := make(map[string]string)
		// Ascending index order lets a duplicated id resolve to its last occurrence.
		for idx, entry := range snap.Table {
			id := m.ID(idx)
			distances[id] = model.Distance(entry.Distance)
			if entry.Predecessor != NoPredecessor {
				predecessors[id] = m.ID(entry.Predecessor)
			} else {
				delete(predecessors, id)
			}
		}

		out = append(out, model.Iteration{
			Step:             step + 1,
			SettledNode:      m.ID(snap.Settled),
			DistanceAtSettle: snap.Distance,
			Visited:          visited,
			Distances:        distances,
			Predecessors:     predecessors,
		})
	}
	return out
}

var defaultSolver = NewSolver()

// Solve runs req through a Solver with default options.
func Solve(req Request) model.Result {
	return defaultSolver.Solve(req)
}
