package steps

import (
	"fmt"
	"sync"

	"github.com/joydddd/cutlass/internal/coord"
	"github.com/joydddd/cutlass/internal/graph"
)

// Registry assigns definition ids and guards against one physical step
// masquerading as two unrelated definitions. It also keeps the ordered tag
// history of every definition's recorded invocations.
type Registry struct {
	mu         sync.Mutex
	defs       map[DefID]*Definition
	byIdentity map[graph.Identity]DefID
	nextID     DefID
	origins    map[DefID][]coord.Coord
}

// NewRegistry creates an empty step-definition registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:       make(map[DefID]*Definition),
		byIdentity: make(map[graph.Identity]DefID),
		origins:    make(map[DefID][]coord.Coord),
	}
}

// Register assigns the next definition id to d. Registering a second
// definition whose identity token is already bound to a different id fails
// with ErrDuplicateStepDefinition. Re-registering the same definition at its
// already-assigned id is an idempotent refresh, not an error.
func (r *Registry) Register(d *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byIdentity[d.identity]; ok {
		if r.defs[id] == d {
			return nil // idempotent refresh
		}
		return fmt.Errorf("%w: step %q shares its function with step %q (id=%d)",
			ErrDuplicateStepDefinition, d.name, r.defs[id].name, id)
	}
	if d.id != 0 {
		return fmt.Errorf("%w: step %q already has id %d from another registry",
			ErrDuplicateStepDefinition, d.name, d.id)
	}

	r.nextID++
	d.id = r.nextID
	d.reg = r
	r.defs[d.id] = d
	r.byIdentity[d.identity] = d.id
	return nil
}

// Definition returns the definition registered under id, if any.
func (r *Registry) Definition(id DefID) (*Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.defs[id]
	return d, ok
}

// Origins returns the ordered tag history of a definition's recorded
// invocations. The returned slice must not be mutated.
func (r *Registry) Origins(id DefID) []coord.Coord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.origins[id]
}

func (r *Registry) recordOrigin(id DefID, tag coord.Coord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.origins[id] = append(r.origins[id], tag)
}
