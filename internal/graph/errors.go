package graph

import "errors"

// Trace-construction failures are programming bugs in the instrumented
// program, never transient conditions. They abort the current trace
// operation and propagate synchronously; nothing here is retried.
var (
	// ErrScope reports closing a scope that is not open, closing past the
	// kernel boundary, or loop/step operations while no kernel is open.
	ErrScope = errors.New("scope error")

	// ErrNestedKernel reports opening a kernel while one is already open.
	ErrNestedKernel = errors.New("nested kernel")

	// ErrDuplicateNode reports registering the same node object twice in
	// one context.
	ErrDuplicateNode = errors.New("duplicate node")
)
