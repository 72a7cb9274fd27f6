// Package export serializes reconstructed flowcharts: the canonical
// chart JSON (nodes, edges, matrix), the matrix-first document, the
// plain matrix table, and the region handles that later OCR passes use
// to find node labels in the source image.
//
// Parsing is as strict as writing: ParseChart re-validates everything,
// so a document that round-trips is guaranteed to satisfy the same
// invariants as a freshly reconstructed graph.
package export
