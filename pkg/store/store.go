// Package store persists named graphs.
package store

import (
	"context"
	"errors"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// ErrGraphNotFound is returned by Get and Replace for unknown ids.
var ErrGraphNotFound = errors.New("store: graph not found")

// UnnamedGraph is stored for graphs inserted without a name.
const UnnamedGraph = "Tanpa Nama"

// Store defines the contract for persisting and retrieving named graphs.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error

	// Insert saves a graph with its nodes and edges and returns the new id.
	Insert(ctx context.Context, g *model.Graph) (int64, error)
	// Replace swaps the nodes and edges of an existing graph, keeping its id and name.
	// It returns ErrGraphNotFound for unknown ids.
	Replace(ctx context.Context, id int64, g *model.Graph) error
	// List returns all graphs, newest first.
	List(ctx context.Context) ([]model.GraphSummary, error)
	// Get loads a graph by id. It returns ErrGraphNotFound for unknown ids.
	Get(ctx context.Context, id int64) (*model.Graph, error)
	// FindByName returns the id of a graph with the given name.
	FindByName(ctx context.Context, name string) (int64, bool, error)
	Count(ctx context.Context) (int, error)
}

// NameOrDefault returns name, or UnnamedGraph when it is empty.
func NameOrDefault(name string) string {
	if name == "" {
		return UnnamedGraph
	}
	return name
}
