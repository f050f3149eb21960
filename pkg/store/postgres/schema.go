package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS graphs (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS graph_nodes (
    graph_id BIGINT NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    id       TEXT NOT NULL,
    name     TEXT NOT NULL,
    x        DOUBLE PRECISION NOT NULL DEFAULT 0,
    y        DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (graph_id, position)
);

CREATE TABLE IF NOT EXISTS graph_edges (
    graph_id BIGINT NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    a        TEXT NOT NULL,
    b        TEXT NOT NULL,
    w        DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (graph_id, position)
);

CREATE INDEX IF NOT EXISTS idx_graphs_name ON graphs(name);
`

// CreateSchema creates the graphs, graph_nodes and graph_edges tables if they don't exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops all tables. Used by tests.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS graph_edges, graph_nodes, graphs CASCADE;`)
	return err
}
