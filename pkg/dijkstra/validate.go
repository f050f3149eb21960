package dijkstra

import (
	"errors"
	"fmt"
	"math"
)

// Validate reports every structural problem in req that Solve would otherwise
// normalise away: duplicate ids, edges to unknown nodes, negative or non-numeric
// weights, unknown start/goal ids and oversized requests. It returns nil for a clean
// request. The returned error joins one wrapped sentinel per problem, so callers can
// test it with errors.Is.
func (s *Solver) Validate(req Request) error {
	var errs []error

	if s.maxNodes > 0 && len(req.NodeIDs) > s.maxNodes {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrTooManyNodes, len(req.NodeIDs), s.maxNodes))
	}

	known := make(map[string]bool, len(req.NodeIDs))
	for _, id := range req.NodeIDs {
		if known[id] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateNode, id))
			continue
		}
		known[id] = true
	}

	for i, e := range req.Edges {
		switch {
		case !known[e.A] || !known[e.B]:
			errs = append(errs, fmt.Errorf("%w: edge %d %q-%q", ErrUnknownEndpoint, i, e.A, e.B))
		case math.IsNaN(e.W) || math.IsInf(e.W, 0):
			errs = append(errs, fmt.Errorf("%w: edge %d %q-%q", ErrInvalidWeight, i, e.A, e.B))
		case e.W < 0:
			errs = append(errs, fmt.Errorf("%w: edge %d %q-%q weight=%g", ErrNegativeWeight, i, e.A, e.B, e.W))
		}
	}

	if req.StartID != "" && !known[req.StartID] {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStart, req.StartID))
	}
	if req.GoalID != "" && !known[req.GoalID] {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownGoal, req.GoalID))
	}

	return errors.Join(errs...)
}
