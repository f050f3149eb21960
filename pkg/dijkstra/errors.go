package dijkstra

import "errors"

// Sentinel errors reported by Validate. Solve never returns them; it normalises the
// same conditions into an empty result or drops the offending edge.
var (
	ErrDuplicateNode   = errors.New("dijkstra: duplicate node id")
	ErrUnknownEndpoint = errors.New("dijkstra: edge references unknown node")
	ErrNegativeWeight  = errors.New("dijkstra: negative edge weight")
	ErrInvalidWeight   = errors.New("dijkstra: edge weight is not a finite number")
	ErrTooManyNodes    = errors.New("dijkstra: too many nodes")
	ErrUnknownStart    = errors.New("dijkstra: start node not found")
	ErrUnknownGoal     = errors.New("dijkstra: goal node not found")
)
