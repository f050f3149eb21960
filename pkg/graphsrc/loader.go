package graphsrc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ritzau/dijkstra-trace/pkg/logging"
	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// DefaultCoordinatesFile is looked up next to the adjacency source when no
// coordinate file is configured.
const DefaultCoordinatesFile = "koordinat_peta.json"

// CoordinatesPathFor returns the coordinate file used for a source when none is configured.
func CoordinatesPathFor(sourcePath string) string {
	return filepath.Join(filepath.Dir(sourcePath), DefaultCoordinatesFile)
}

// LoadFile reads an adjacency document and an optional coordinate document and
// builds the graph. A missing or unreadable coordinate file only disables the hints.
func LoadFile(path, coordPath string) (model.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Graph{}, fmt.Errorf("read adjacency source: %w", err)
	}

	adj, err := ParseAdjacencyJSON(data)
	if err != nil {
		return model.Graph{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if coordPath == "" {
		coordPath = CoordinatesPathFor(path)
	}
	hints := loadCoordinates(coordPath)

	g := FromAdjacencyMap(adj, hints)
	logging.Debug("Loaded adjacency source",
		"path", path,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"hinted", len(hints))
	return g, nil
}

func loadCoordinates(path string) Coordinates {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Failed to read coordinates", "path", path, "error", err)
		}
		return nil
	}

	coords, err := ParseCoordinates(data)
	if err != nil {
		logging.Warn("Ignoring malformed coordinates", "path", path, "error", err)
		return nil
	}
	return coords
}
