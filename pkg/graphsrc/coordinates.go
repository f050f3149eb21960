package graphsrc

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// Point is a display position.
type Point struct {
	X float64
	Y float64
}

// Coordinates maps normalised node ids to display positions.
type Coordinates map[string]Point

// Grid fallback layout for nodes without a coordinate hint.
const (
	gridColumns = 8
	gridSpacing = 60
	gridOrigin  = 100
)

// NormalizeID maps a "Titik N" label to its short form "TN".
// Any other label is returned unchanged.
func NormalizeID(label string) string {
	rest, ok := strings.CutPrefix(label, "Titik ")
	if !ok {
		return label
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return label
	}
	return "T" + strconv.Itoa(n)
}

// ParseCoordinates reads a coordinate document. Positions are read from the
// "canvas" section when present, otherwise from the top-level object:
//
//	{"canvas": {"Titik 1": {"x": 120, "y": 80}}}
//
// Keys are normalised with NormalizeID. Entries without numeric x and y are ignored.
func ParseCoordinates(data []byte) (Coordinates, error) {
	var doc map[string]json.RawMessage
	if err := model.DecodeLoose(data, &doc); err != nil {
		return nil, err
	}

	table := doc
	if canvas, ok := doc["canvas"]; ok {
		var section map[string]json.RawMessage
		if err := model.DecodeLoose(canvas, &section); err == nil {
			table = section
		}
	}

	coords := make(Coordinates, len(table))
	for key, raw := range table {
		var pos struct {
			X any `json:"x"`
			Y any `json:"y"`
		}
		if err := model.DecodeLoose(raw, &pos); err != nil || pos.X == nil || pos.Y == nil {
			continue
		}
		x, okX := model.CoerceWeight(pos.X)
		y, okY := model.CoerceWeight(pos.Y)
		if !okX || !okY {
			continue
		}
		coords[NormalizeID(key)] = Point{X: x, Y: y}
	}
	return coords, nil
}

// Lookup returns the hinted position for a node label.
func (c Coordinates) Lookup(label string) (Point, bool) {
	p, ok := c[NormalizeID(label)]
	return p, ok
}

// GridPosition is the fallback position of the node at the given sorted index.
func GridPosition(index int) Point {
	return Point{
		X: float64(gridOrigin + (index%gridColumns)*gridSpacing),
		Y: float64(gridOrigin + (index/gridColumns)*gridSpacing),
	}
}
