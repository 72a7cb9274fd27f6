// Package ocr recognizes node labels and attaches them to the graph.
//
// A reconstructed graph starts out with empty labels; this package
// fills them in. ReadAll runs a TextReader over the region handles the
// exporter produced, CleanText normalizes what came back, and
// MergeResults writes the labels onto the graph nodes.
//
// The shipped reader is Tesseract via gosseract/v2, which needs the
// engine and its language data installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Any recognizer can stand in by implementing TextReader, including
// remote vision models; the rest of the package does not care where
// the text came from.
package ocr
