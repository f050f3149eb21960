package graphsrc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

func mustParse(t *testing.T, doc string) AdjacencyMap {
	t.Helper()
	adj, err := ParseAdjacencyJSON([]byte(doc))
	require.NoError(t, err)
	return adj
}

func TestFromAdjacencyMap_ReverseDeclarationIsOneEdge(t *testing.T) {
	g := FromAdjacencyMap(mustParse(t, `{"X": [["Y", 7]], "Y": [["X", 7]]}`), nil)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, []model.Edge{{A: "X", B: "Y", W: 7}}, g.Edges)
	assert.Equal(t, model.DefaultGraphName, g.Name)
}

func TestFromAdjacencyMap_FirstDeclarationWins(t *testing.T) {
	g := FromAdjacencyMap(mustParse(t, `{"B": [["A", 3]], "A": [["B", 9], ["C"]]}`), nil)

	assert.Equal(t, []model.Edge{
		{A: "B", B: "A", W: 3},
		{A: "A", B: "C", W: 0},
	}, g.Edges)
}

func TestFromAdjacencyMap_SortedNodesAndGridFallback(t *testing.T) {
	doc := `{"T9": [["T10", 1]], "T1": [["T2", 1], ["T3", 1], ["T4", 1], ["T5", 1], ["T6", 1], ["T7", 1], ["T8", 1]]}`
	g := FromAdjacencyMap(mustParse(t, doc), nil)

	require.Equal(t, []string{"T1", "T10", "T2", "T3", "T4", "T5", "T6", "T7", "T8", "T9"}, g.NodeIDs())

	tests := []struct {
		index int
		x, y  float64
	}{
		{0, 100, 100},
		{7, 520, 100},
		{8, 100, 160}, // wraps to the second row
	}
	for _, tt := range tests {
		n := g.Nodes[tt.index]
		assert.Equal(t, Point{X: tt.x, Y: tt.y}, Point{X: n.X, Y: n.Y}, "node %d", tt.index)
	}
	for _, n := range g.Nodes {
		assert.Equal(t, n.ID, n.Name)
	}
}

func TestFromAdjacencyMap_UsesCoordinateHints(t *testing.T) {
	hints := Coordinates{"T1": {X: 12, Y: 34}}
	g := FromAdjacencyMap(mustParse(t, `{"Titik 1": [["Titik 2", 5]]}`), hints)

	assert.Equal(t, model.Node{ID: "Titik 1", Name: "Titik 1", X: 12, Y: 34}, g.Nodes[0])
	// Titik 2 has no hint and keeps its grid slot.
	assert.Equal(t, 160.0, g.Nodes[1].X)
	assert.Equal(t, 100.0, g.Nodes[1].Y)
}

func TestFromAdjacencyMap_SkipsSelfLoopsAndBadWeights(t *testing.T) {
	g := FromAdjacencyMap(mustParse(t, `{"A": [["A", 2], ["B", "far"], ["C", "4.5"]], "B": [["A", 1]]}`), nil)

	assert.Equal(t, []string{"A", "B", "C"}, g.NodeIDs())
	assert.Equal(t, []model.Edge{
		{A: "A", B: "C", W: 4.5},
		{A: "B", B: "A", W: 1},
	}, g.Edges)
}

func TestFromAdjacencyMap_Empty(t *testing.T) {
	g := FromAdjacencyMap(nil, nil)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestParseAdjacencyJSON_KeepsDocumentOrder(t *testing.T) {
	adj := mustParse(t, `{"Z": [], "A": [[1, 2]], "M": [["Z"], "junk", []]}`)

	var labels []string
	for _, e := range adj {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"Z", "A", "M"}, labels)

	require.Len(t, adj[1].Neighbors, 1)
	assert.Equal(t, "1", adj[1].Neighbors[0].Label, "numeric label is coerced")
	assert.Equal(t, 2.0, adj[1].Neighbors[0].Weight)

	require.Len(t, adj[2].Neighbors, 1)
	assert.True(t, adj[2].Neighbors[0].Valid)
	assert.Zero(t, adj[2].Neighbors[0].Weight)
}

func TestParseAdjacencyJSON_Rejects(t *testing.T) {
	for _, doc := range []string{`[]`, `"x"`, `{"A": 3}`, `{"A": [["B", 1]]`, ``} {
		_, err := ParseAdjacencyJSON([]byte(doc))
		assert.ErrorIs(t, err, ErrNotAdjacencyMap, "doc %q", doc)
	}
}

func TestNormalizeID(t *testing.T) {
	tests := map[string]string{
		"Titik 1":   "T1",
		"Titik 25":  "T25",
		"Titik 03":  "T3",
		"Titik X":   "Titik X",
		"T7":        "T7",
		"Gerbang 2": "Gerbang 2",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeID(in), "NormalizeID(%q)", in)
	}
}

func TestParseCoordinates(t *testing.T) {
	t.Run("canvas section", func(t *testing.T) {
		coords, err := ParseCoordinates([]byte(`{
			"canvas": {"Titik 1": {"x": 10, "y": 20}, "Titik 2": {"x": "bad", "y": 1}, "Titik 3": {"x": 5}},
			"peta": {"Titik 1": {"x": 999, "y": 999}}
		}`))
		require.NoError(t, err)
		require.Len(t, coords, 1)

		p, ok := coords.Lookup("Titik 1")
		assert.True(t, ok)
		assert.Equal(t, Point{X: 10, Y: 20}, p)

		p, ok = coords.Lookup("T1")
		assert.True(t, ok)
		assert.Equal(t, 10.0, p.X)
	})

	t.Run("flat table", func(t *testing.T) {
		coords, err := ParseCoordinates([]byte(`{"T4": {"x": 1.5, "y": 2.5}}`))
		require.NoError(t, err)
		assert.Equal(t, Point{X: 1.5, Y: 2.5}, coords["T4"])
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseCoordinates([]byte(`{"canvas":`))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "graf.json")
	writeFile(t, source, `{"Titik 1": [["Titik 2", 27]], "Titik 2": [["Titik 1", 27]]}`)

	g, err := LoadFile(source, "")
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, 100.0, g.Nodes[0].X, "grid fallback without coordinate file")

	writeFile(t, CoordinatesPathFor(source), `{"canvas": {"Titik 2": {"x": 7, "y": 8}}}`)
	g, err = LoadFile(source, "")
	require.NoError(t, err)
	assert.Equal(t, 7.0, g.Nodes[1].X)
	assert.Equal(t, 8.0, g.Nodes[1].Y)

	custom := filepath.Join(dir, "custom.json")
	writeFile(t, custom, `not json`)
	_, err = LoadFile(source, custom)
	assert.NoError(t, err, "malformed coordinates should not fail the load")
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(filepath.Join(dir, "missing.json"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `[1, 2]`)
	_, err = LoadFile(bad, "")
	assert.ErrorIs(t, err, ErrNotAdjacencyMap)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
