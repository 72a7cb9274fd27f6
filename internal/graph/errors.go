package graph

import "errors"

var (
	// ErrInternalConsistency indicates the pipeline produced
	// contradictory intermediate state, such as an edge referencing a
	// node that was never built. It always points at a bug, never at
	// bad input, and aborts the run.
	ErrInternalConsistency = errors.New("internal consistency violation")

	// ErrNodeNotFound is returned when an operation names a node
	// identifier the graph does not contain.
	ErrNodeNotFound = errors.New("node not found")
)
