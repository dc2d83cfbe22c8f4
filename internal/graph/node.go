// Package graph builds the hierarchical trace representation of a tile
// kernel program: a tree of Kernel, Loop and Step nodes, each tagged with a
// symbolic coordinate describing its position in the iteration space.
//
// Nodes are created inline as the traced program executes, in program order,
// by a Context holding the current scope. Construction is strictly
// single-threaded; a Context must never be shared between goroutines that
// trace concurrently.
package graph

import (
	"github.com/joydddd/cutlass/internal/coord"
	"github.com/joydddd/cutlass/internal/symint"
)

// NodeID identifies a node within a context. Ids are assigned on
// registration, strictly increasing, and never reused.
type NodeID uint32

// NoNodeID is the sentinel for an unregistered node.
const NoNodeID NodeID = 0

// IsValid returns true if the id has been assigned.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// Kind enumerates trace node kinds.
type Kind uint8

const (
	// KindKernel is a traced kernel launch. It owns exactly one grid loop.
	KindKernel Kind = iota
	// KindLoop is a loop scope, either the kernel's grid loop or a nested loop.
	KindLoop
	// KindStep is a leaf computation step invocation.
	KindStep
)

// String returns a human-readable name for the node kind.
func (k Kind) String() string {
	switch k {
	case KindKernel:
		return "Kernel"
	case KindLoop:
		return "Loop"
	case KindStep:
		return "Step"
	default:
		return "Unknown"
	}
}

// Identity is a stable token identifying one physical step definition,
// regardless of how many Step nodes its invocations produce.
type Identity uint64

// Origin identifies the step definition a Step node was recorded from.
type Origin interface {
	// StepName returns the definition's declared name.
	StepName() string
	// Identity returns the definition's stable identity token.
	Identity() Identity
}

// HandleOrigin is implemented by origins that also declare their data
// handles; RecordStep copies the declarations onto the Step node.
type HandleOrigin interface {
	Origin
	InputHandles() []string
	OutputHandles() []string
}

// Node is one trace node. Kind selects which payload in Data is populated;
// consumers dispatch by switching on Kind or via the typed accessors.
type Node struct {
	ID   NodeID
	Kind Kind
	Tag  coord.Coord
	// Parent is a lookup-only back-reference; ownership always runs
	// parent-to-child through the payload child lists.
	Parent    *Node
	Visualize bool
	Data      NodeData
}

// NodeData is the interface for kind-specific payloads.
type NodeData interface {
	nodeData()
}

// KernelData holds the payload for KindKernel.
type KernelData struct {
	Name     string
	GridLoop *Node
	Inputs   []string
	Outputs  []string
}

func (*KernelData) nodeData() {}

// LoopData holds the payload for KindLoop.
type LoopData struct {
	// Induction is drawn fresh from the owning context's symbol source
	// when the loop is created.
	Induction symint.SymInt
	// Grid marks the implicit outermost loop owned by a kernel.
	Grid bool
	// Children are owned child nodes (loops and steps) in program order.
	Children []*Node
}

func (*LoopData) nodeData() {}

// StepData holds the payload for KindStep.
type StepData struct {
	Origin  Origin
	Inputs  []string
	Outputs []string
}

func (*StepData) nodeData() {}

// Kernel returns the kernel payload, or nil for other kinds.
func (n *Node) Kernel() *KernelData {
	d, _ := n.Data.(*KernelData)
	return d
}

// Loop returns the loop payload, or nil for other kinds.
func (n *Node) Loop() *LoopData {
	d, _ := n.Data.(*LoopData)
	return d
}

// Step returns the step payload, or nil for other kinds.
func (n *Node) Step() *StepData {
	d, _ := n.Data.(*StepData)
	return d
}

// Target returns the name the node declares as its produced value: a loop's
// induction variable description, or a step's comma-joined output handles.
// It labels outgoing edges in the flattened diagram. Empty when the node
// declares nothing.
func (n *Node) Target() string {
	switch d := n.Data.(type) {
	case *LoopData:
		return d.Induction.String()
	case *StepData:
		return joinHandles(d.Outputs)
	default:
		return ""
	}
}

func joinHandles(hs []string) string {
	out := ""
	for i, h := range hs {
		if i > 0 {
			out += ", "
		}
		out += h
	}
	return out
}
