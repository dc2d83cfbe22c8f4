// Package diagram flattens a trace subtree into a left-to-right dataflow
// graph: an abstract set of labeled nodes and edges plus one alignment
// group. The graph is backend-agnostic; rendering to an image is an
// external concern. Writers for DOT text, JSON and msgpack are provided.
package diagram

// Shape selects the visual shape of a diagram node.
type Shape uint8

const (
	// ShapeBox is used for steps.
	ShapeBox Shape = iota
	// ShapeDiamond is used for loop headers.
	ShapeDiamond
)

// String returns the DOT name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeDiamond:
		return "diamond"
	default:
		return "box"
	}
}

// Node is one drawn diagram node.
type Node struct {
	ID    uint32 `json:"id" msgpack:"id"`
	Label string `json:"label" msgpack:"label"`
	Tag   string `json:"tag,omitempty" msgpack:"tag"`
	Shape Shape  `json:"shape" msgpack:"shape"`
}

// Edge is a directed, optionally labeled edge. Constraint mirrors the
// graphviz attribute: false marks an edge that depicts iteration (a loop
// back-edge) and must not affect the left-to-right layout.
type Edge struct {
	From       uint32 `json:"from" msgpack:"from"`
	To         uint32 `json:"to" msgpack:"to"`
	Label      string `json:"label,omitempty" msgpack:"label"`
	Constraint bool   `json:"constraint" msgpack:"constraint"`
}

// Graph is the flattened dataflow diagram.
type Graph struct {
	Nodes []Node `json:"nodes" msgpack:"nodes"`
	Edges []Edge `json:"edges" msgpack:"edges"`
	// SameRank lists every drawn node; the flattening produces a single
	// generation, so renderers align them on one rank.
	SameRank []uint32 `json:"same_rank" msgpack:"same_rank"`
}
