// Package detect defines the detector-facing boundary of the pipeline:
// the classified-region input format, its validation, and the
// normalization step that turns raw detector output into a clean,
// deterministic working set.
//
// The package deliberately knows nothing about images or models. A
// detection is just a class, a confidence, and a box; where those came
// from (YOLO, a fixture file, a hand-written test case) is outside its
// contract. This keeps the whole reconstruction pipeline runnable
// without any ML runtime in the process.
//
// # Input Format
//
// Detector output is a JSON document:
//
//	{
//	  "image": {"width": 1240, "height": 1754, "path": "chart.png"},
//	  "detections": [
//	    {"class": "process", "confidence": 0.93, "bbox": [88, 140, 310, 210]},
//	    {"class": "arrow", "confidence": 0.81, "bbox": [190, 210, 206, 300]}
//	  ]
//	}
//
// The image block is optional. Class names are case-insensitive and a
// small alias vocabulary (directional arrow classes, "scan",
// "start_end") is accepted for compatibility with existing detectors.
package detect
