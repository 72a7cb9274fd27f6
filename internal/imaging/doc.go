// Package imaging loads chart images and cuts node regions out of them.
//
// The pipeline works entirely on detection geometry; this package is
// where pixels come back into play. It reads the source image once into
// an ImageCache, crops the regions the exporter hands out, and prepares
// those crops for text recognition.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Region boxes carry
// fractional detector coordinates; crops round them outward to whole
// pixels so label strokes at the border survive.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The crop and OCR-preparation
// functions are stateless and never mutate their input image.
package imaging
