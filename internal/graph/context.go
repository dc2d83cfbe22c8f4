package graph

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/joydddd/cutlass/internal/coord"
	"github.com/joydddd/cutlass/internal/symint"
)

// Phase is the scope state of a context.
type Phase uint8

const (
	// PhaseIdle means no kernel is open.
	PhaseIdle Phase = iota
	// PhaseInKernel means the grid loop is the current scope.
	PhaseInKernel
	// PhaseInNestedLoop means one or more nested loops are open.
	PhaseInNestedLoop
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseInKernel:
		return "InKernel"
	case PhaseInNestedLoop:
		return "InNestedLoop"
	default:
		return "Unknown"
	}
}

// Context owns node-id allocation, the node registry and the current scope
// for one trace. All mutation happens on the goroutine performing the trace;
// the mutex only turns concurrent misuse into a serialized (still incorrect,
// but non-racy) sequence instead of memory corruption.
type Context struct {
	mu sync.Mutex

	nodes  []*Node // registration order
	nextID NodeID

	kernels []*Node // every kernel traced in this context, in order
	kernel  *Node   // open kernel, nil when idle
	scope   *Node   // current loop scope, nil when idle

	coords *symint.Source // nested-loop induction symbols: coord0, coord1, ...
	tiles  *symint.Source // grid-loop induction symbols: tile0, tile1, ...

	origins map[Identity]NodeID // identity -> first Step node recorded from it

	log *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger attaches a structured logger used for debug output on scope
// transitions. Without it the context stays silent.
func WithLogger(log *slog.Logger) Option {
	return func(c *Context) { c.log = log }
}

// NewContext creates an empty trace context.
func NewContext(opts ...Option) *Context {
	c := &Context{
		coords:  symint.NewSource("coord"),
		tiles:   symint.NewSource("tile"),
		origins: make(map[Identity]NodeID),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCoord mints a fresh nested-loop induction symbol.
func (c *Context) NewCoord() symint.SymInt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coords.Fresh()
}

// NewTile mints a fresh grid-tile symbol.
func (c *Context) NewTile() symint.SymInt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tiles.Fresh()
}

// Phase returns the current scope state.
func (c *Context) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.kernel == nil:
		return PhaseIdle
	case c.scope == c.kernel.Kernel().GridLoop:
		return PhaseInKernel
	default:
		return PhaseInNestedLoop
	}
}

// Depth returns the nested-loop depth: 0 at the grid loop, k inside k nested
// loops, and 0 when idle.
func (c *Context) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kernel == nil {
		return 0
	}
	depth := 0
	for n := c.scope; n != nil && !n.Loop().Grid; n = n.Parent {
		depth++
	}
	return depth
}

// Nodes returns every registered node in registration order. The returned
// slice must not be mutated.
func (c *Context) Nodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes
}

// Kernels returns every kernel traced in this context, in trace order.
func (c *Context) Kernels() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kernels
}

// Scope returns the current loop scope, or nil when idle.
func (c *Context) Scope() *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

// RegisterNode assigns the next id in this context to n and records it in
// the registry. Registering the same node object twice fails with
// ErrDuplicateNode.
func (c *Context) RegisterNode(n *Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registerLocked(n)
}

func (c *Context) registerLocked(n *Node) error {
	if n.ID.IsValid() {
		return fmt.Errorf("%w: node already has id %d", ErrDuplicateNode, n.ID)
	}
	for _, existing := range c.nodes {
		if existing == n {
			return fmt.Errorf("%w: node already registered as id %d", ErrDuplicateNode, existing.ID)
		}
	}
	c.nextID++
	n.ID = c.nextID
	c.nodes = append(c.nodes, n)
	return nil
}

// OpenKernel creates a Kernel and its grid loop, registers both, and makes
// the grid loop the current scope. Opening a kernel while one is already
// open fails with ErrNestedKernel.
func (c *Context) OpenKernel(name string) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kernel != nil {
		return nil, fmt.Errorf("%w: kernel %q is still open", ErrNestedKernel, c.kernel.Kernel().Name)
	}

	grid := &Node{
		Kind:      KindLoop,
		Visualize: true,
		Data: &LoopData{
			Induction: c.tiles.Fresh(),
			Grid:      true,
		},
	}
	kernel := &Node{
		Kind: KindKernel,
		Data: &KernelData{
			Name:     name,
			GridLoop: grid,
		},
	}
	grid.Parent = kernel

	// The kernel and its grid loop register atomically: a failure here
	// leaves the context untouched.
	if err := c.registerLocked(kernel); err != nil {
		return nil, err
	}
	if err := c.registerLocked(grid); err != nil {
		return nil, err
	}

	c.kernels = append(c.kernels, kernel)
	c.kernel = kernel
	c.scope = grid
	c.debug("open kernel", slog.String("name", name), slog.Uint64("id", uint64(kernel.ID)))
	return kernel, nil
}

// OpenLoop creates a child Loop under the current scope with a fresh
// induction symbol, registers it, and pushes it as the new current scope.
// Fails with ErrScope when no kernel is open.
func (c *Context) OpenLoop() (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kernel == nil {
		return nil, fmt.Errorf("%w: no kernel open", ErrScope)
	}

	loop := &Node{
		Kind:      KindLoop,
		Parent:    c.scope,
		Visualize: true,
		Data: &LoopData{
			Induction: c.coords.Fresh(),
		},
	}
	if err := c.registerLocked(loop); err != nil {
		return nil, err
	}
	c.scope.Loop().Children = append(c.scope.Loop().Children, loop)
	c.scope = loop
	c.debug("open loop", slog.Uint64("id", uint64(loop.ID)))
	return loop, nil
}

// CloseLoop restores the current scope to its parent. Closing the grid loop
// (that would mean leaving the kernel) or a loop without a parent fails with
// ErrScope.
func (c *Context) CloseLoop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kernel == nil {
		return fmt.Errorf("%w: no kernel open", ErrScope)
	}
	if c.scope.Loop().Grid {
		return fmt.Errorf("%w: cannot close the grid loop", ErrScope)
	}
	if c.scope.Parent == nil {
		return fmt.Errorf("%w: current loop has no parent", ErrScope)
	}
	c.debug("close loop", slog.Uint64("id", uint64(c.scope.ID)))
	c.scope = c.scope.Parent
	return nil
}

// RecordStep creates a Step node under the current scope with the given tag,
// registers it and appends it in program order. Fails with ErrScope when no
// kernel is open.
func (c *Context) RecordStep(origin Origin, tag coord.Coord) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kernel == nil {
		return nil, fmt.Errorf("%w: no kernel open", ErrScope)
	}

	data := &StepData{Origin: origin}
	if ho, ok := origin.(HandleOrigin); ok {
		data.Inputs = slices.Clone(ho.InputHandles())
		data.Outputs = slices.Clone(ho.OutputHandles())
	}
	step := &Node{
		Kind:      KindStep,
		Tag:       tag,
		Parent:    c.scope,
		Visualize: true,
		Data:      data,
	}
	if err := c.registerLocked(step); err != nil {
		return nil, err
	}
	c.scope.Loop().Children = append(c.scope.Loop().Children, step)
	if _, seen := c.origins[origin.Identity()]; !seen {
		c.origins[origin.Identity()] = step.ID
	}
	c.debug("record step",
		slog.String("step", origin.StepName()),
		slog.Uint64("id", uint64(step.ID)),
		slog.String("tag", tag.String()))
	return step, nil
}

// CloseKernel closes the open kernel. The current scope must be exactly the
// grid loop: every nested loop has to be closed first, otherwise the call
// fails with ErrScope and the scope pointer is left unchanged.
func (c *Context) CloseKernel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kernel == nil {
		return fmt.Errorf("%w: no kernel open", ErrScope)
	}
	if c.scope != c.kernel.Kernel().GridLoop {
		return fmt.Errorf("%w: cannot close kernel from a nested loop", ErrScope)
	}
	c.debug("close kernel", slog.String("name", c.kernel.Kernel().Name))
	c.kernel = nil
	c.scope = nil
	return nil
}

func (c *Context) debug(msg string, args ...any) {
	if c.log != nil {
		c.log.Debug(msg, args...)
	}
}
