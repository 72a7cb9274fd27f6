// Package render turns a reconstructed graph back into drawing
// instructions.
//
// A Plan is the inverse of detection: shapes placed where the detector
// found them, filled by class convention or sampled from the source
// image, connected by arrowed lines between facing edges. The plan is
// plain JSON so any drawing surface can consume it; nothing in here
// rasterizes.
package render
