// Package pipeline wires the reconstruction stages into a single run:
// detector output in, graph, matrix, diagnostics, and OCR region
// handles out.
//
// The pipeline is pure with respect to the image: it consumes only
// classified regions, so it runs identically whether the detections
// came from a live model, a cached file, or a test fixture.
package pipeline
