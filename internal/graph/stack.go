package graph

import (
	"fmt"
	"sync"
)

// The active-context stack supports one trace nested inside another (a step
// that opens its own sub-trace). Only one trace may run at a time per stack;
// tracing the same context from multiple goroutines is unsupported.
var (
	activeMu sync.Mutex
	active   []*Context
)

// Enter pushes this context onto the active stack, making it the one
// returned by Current until the matching Exit.
func (c *Context) Enter() {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = append(active, c)
}

// Exit pops this context off the active stack, restoring the previous one.
// Fails when c is not the top of the stack: enter/exit pairs must nest.
func (c *Context) Exit() error {
	activeMu.Lock()
	defer activeMu.Unlock()
	if len(active) == 0 {
		return fmt.Errorf("%w: exit without matching enter", ErrScope)
	}
	if top := active[len(active)-1]; top != c {
		return fmt.Errorf("%w: unbalanced context exit", ErrScope)
	}
	active = active[:len(active)-1]
	return nil
}

// Current returns the top of the active-context stack, or nil when no trace
// is being recorded.
func Current() *Context {
	activeMu.Lock()
	defer activeMu.Unlock()
	if len(active) == 0 {
		return nil
	}
	return active[len(active)-1]
}
