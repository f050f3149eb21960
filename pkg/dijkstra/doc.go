// Package dijkstra computes single-source/single-target shortest paths over small
// weighted undirected graphs and records a replayable trace of the run.
//
// The pieces compose in dependency order:
//
//   - BuildMatrix turns node ids and edges into a dense symmetric WeightMatrix.
//   - Run settles nodes one at a time with an O(V^2) scan and records a Snapshot
//     after every settle-and-relax step.
//   - Reconstruct walks predecessor links back from the target.
//   - Solver.Solve wires the three together and maps indices back to ids.
//
// The dense matrix and linear scan are deliberate: each Snapshot carries the complete
// distance table, and ties are always broken towards the lowest index, so the same
// input always yields the same trace. Graphs are expected to have tens of nodes;
// Solver enforces a node limit to bound the quadratic work.
//
// Nothing in this package performs I/O or keeps state between calls.
package dijkstra
