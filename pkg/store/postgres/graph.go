package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ritzau/dijkstra-trace/pkg/model"
	"github.com/ritzau/dijkstra-trace/pkg/store"
)

// Insert saves a graph with its nodes and edges in one transaction.
// Nodes and edges keep their order through the position column.
func (s *Store) Insert(ctx context.Context, g *model.Graph) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO graphs (name) VALUES ($1) RETURNING id`,
		store.NameOrDefault(g.Name),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: insert graph: %w", err)
	}

	if err := copyContents(ctx, tx, id, g); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// Replace swaps the nodes and edges of graph id in one transaction.
func (s *Store) Replace(ctx context.Context, id int64, g *model.Graph) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM graphs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("store: find graph: %w", err)
	}
	if !exists {
		return store.ErrGraphNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM graph_nodes WHERE graph_id = $1`, id); err != nil {
		return fmt.Errorf("store: delete nodes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graph_edges WHERE graph_id = $1`, id); err != nil {
		return fmt.Errorf("store: delete edges: %w", err)
	}
	if err := copyContents(ctx, tx, id, g); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// copyContents bulk-loads the nodes and edges of g under graph id.
func copyContents(ctx context.Context, tx pgx.Tx, id int64, g *model.Graph) error {
	nodeRows := make([][]any, len(g.Nodes))
	for i, n := range g.Nodes {
		nodeRows[i] = []any{id, i, n.ID, n.Name, n.X, n.Y}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"graph_nodes"},
		[]string{"graph_id", "position", "id", "name", "x", "y"},
		pgx.CopyFromRows(nodeRows),
	); err != nil {
		return fmt.Errorf("store: insert nodes: %w", err)
	}

	edgeRows := make([][]any, len(g.Edges))
	for i, e := range g.Edges {
		edgeRows[i] = []any{id, i, e.A, e.B, e.W}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"graph_edges"},
		[]string{"graph_id", "position", "a", "b", "w"},
		pgx.CopyFromRows(edgeRows),
	); err != nil {
		return fmt.Errorf("store: insert edges: %w", err)
	}

	return nil
}

// List returns all graph summaries, newest first.
func (s *Store) List(ctx context.Context) ([]model.GraphSummary, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, created_at FROM graphs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: query graphs: %w", err)
	}
	defer rows.Close()

	out := make([]model.GraphSummary, 0)
	for rows.Next() {
		var g model.GraphSummary
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan graph: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows graphs: %w", err)
	}
	return out, nil
}

// Get loads a graph with its nodes and edges.
func (s *Store) Get(ctx context.Context, id int64) (*model.Graph, error) {
	g := model.NewGraph("")
	err := s.db.QueryRow(ctx, `SELECT name FROM graphs WHERE id = $1`, id).Scan(&g.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, store.ErrGraphNotFound
		}
		return nil, fmt.Errorf("store: get graph: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, x, y FROM graph_nodes WHERE graph_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("store: query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n model.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.X, &n.Y); err != nil {
			return nil, fmt.Errorf("store: scan node: %w", err)
		}
		g.AddNode(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows nodes: %w", err)
	}

	rows, err = s.db.Query(ctx,
		`SELECT a, b, w FROM graph_edges WHERE graph_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("store: query edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.Edge
		if err := rows.Scan(&e.A, &e.B, &e.W); err != nil {
			return nil, fmt.Errorf("store: scan edge: %w", err)
		}
		g.AddEdge(e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows edges: %w", err)
	}

	return g, nil
}

// FindByName returns the oldest graph with the given name.
func (s *Store) FindByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`SELECT id FROM graphs WHERE name = $1 ORDER BY id LIMIT 1`, name).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("store: find graph: %w", err)
	}
	return id, true, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM graphs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count graphs: %w", err)
	}
	return n, nil
}
