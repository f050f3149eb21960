package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ritzau/dijkstra-trace/pkg/model"
)

// PrintRouteReport prints a shortest-path result for the console.
// With trace set, every iteration of the run is listed after the route.
func PrintRouteReport(w io.Writer, g *model.Graph, from, to string, res model.Result, trace bool) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	names := displayNames(g)
	label := func(id string) string {
		if name, ok := names[id]; ok && name != id {
			return fmt.Sprintf("%s (%s)", name, id)
		}
		return id
	}

	title := fmt.Sprintf("Route %s -> %s", label(from), label(to))
	bold.Fprintln(w, title)
	bold.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "Graph: %s (%d nodes, %d edges)\n\n", g.Name, len(g.Nodes), len(g.Edges))

	if !res.Found() {
		red.Fprintf(w, "No route from %s to %s\n", label(from), label(to))
		return
	}

	labels := make([]string, len(res.Path))
	for i, id := range res.Path {
		labels[i] = label(id)
	}
	fmt.Fprint(w, "Path: ")
	cyan.Fprintln(w, strings.Join(labels, " -> "))

	weights := edgeWeights(g)
	for _, e := range res.EdgePath {
		fmt.Fprintf(w, "  %s -> %s", label(e.A), label(e.B))
		if wgt, ok := weights[pairKey(e.A, e.B)]; ok {
			yellow.Fprintf(w, "  %s", formatNumber(wgt))
		}
		fmt.Fprintln(w)
	}
	green.Fprintf(w, "Distance: %s\n", formatNumber(*res.Total))

	if !trace {
		return
	}

	fmt.Fprintln(w)
	bold.Fprintf(w, "Iterations (%d)\n", len(res.Iterations))
	for _, it := range res.Iterations {
		fmt.Fprintf(w, "%3d. settle ", it.Step)
		cyan.Fprint(w, label(it.SettledNode))
		fmt.Fprintf(w, " at %s  visited=%d\n", formatNumber(it.DistanceAtSettle), len(it.Visited))
		fmt.Fprintf(w, "     %s\n", formatDistances(it.Distances))
	}
}

// FormatDistance renders a distance, using ∞ for unreached nodes.
func FormatDistance(d model.Distance) string {
	if d.IsInf() {
		return "∞"
	}
	return formatNumber(float64(d))
}

func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "∞"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDistances(distances map[string]model.Distance) string {
	ids := make([]string, 0, len(distances))
	for id := range distances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + "=" + FormatDistance(distances[id])
	}
	return strings.Join(parts, " ")
}

func displayNames(g *model.Graph) map[string]string {
	names := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.ID] = n.Name
	}
	return names
}

func edgeWeights(g *model.Graph) map[[2]string]float64 {
	weights := make(map[[2]string]float64, len(g.Edges))
	for _, e := range g.Edges {
		weights[pairKey(e.A, e.B)] = e.W
	}
	return weights
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
