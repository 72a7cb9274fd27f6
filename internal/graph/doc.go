// Package graph reconstructs a directed flowchart graph from
// normalized shape and arrow detections.
//
// The reconstruction runs in three stages, each a pure function of its
// input:
//
//   - BuildNodes assigns stable raster-order identifiers to shapes.
//   - ResolveArrows matches arrow regions to nodes geometrically,
//     orienting each arrow by its arrowhead or by reading order.
//   - Assemble validates the result, collapses parallel edges, and
//     produces the final Graph with its adjacency matrix.
//
// Problems in the input (arrows touching nothing, ambiguous matches,
// self-loops, lonely decision branches) surface as Diagnostics and
// never abort reconstruction. Only contract violations between stages,
// which indicate bugs rather than bad charts, are returned as errors.
package graph
