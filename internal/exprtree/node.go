// Package exprtree provides a small backend-neutral expression AST.
//
// Symbolic integers and coordinates render into these nodes so that any
// serialization or codegen backend can consume them without depending on the
// tracing packages. The node set is closed: constants, names, tuples and the
// arithmetic operators the symint algebra produces.
package exprtree

// NodeKind enumerates expression node kinds.
type NodeKind uint8

const (
	// NodeConst represents an integer constant.
	NodeConst NodeKind = iota
	// NodeName represents a named symbol reference.
	NodeName
	// NodeTuple represents an ordered tuple of sub-expressions.
	NodeTuple
	// NodeUnary represents a unary operator application.
	NodeUnary
	// NodeBinary represents a binary operator application.
	NodeBinary
	// NodeNone represents an absent/unbound value.
	NodeNone
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeConst:
		return "Const"
	case NodeName:
		return "Name"
	case NodeTuple:
		return "Tuple"
	case NodeUnary:
		return "Unary"
	case NodeBinary:
		return "Binary"
	case NodeNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Node represents one expression-tree node.
type Node struct {
	Kind NodeKind
	Data NodeData // Kind-specific payload
}

// NodeData is the interface for node-specific data.
type NodeData interface {
	nodeData()
}

// ConstData holds data for NodeConst.
type ConstData struct {
	Value int64
}

func (ConstData) nodeData() {}

// NameData holds data for NodeName.
type NameData struct {
	Name string
}

func (NameData) nodeData() {}

// TupleData holds data for NodeTuple.
type TupleData struct {
	Elems []*Node
}

func (TupleData) nodeData() {}

// UnaryData holds data for NodeUnary.
type UnaryData struct {
	Op      Op
	Operand *Node
}

func (UnaryData) nodeData() {}

// BinaryData holds data for NodeBinary.
type BinaryData struct {
	Op    Op
	Left  *Node
	Right *Node
}

func (BinaryData) nodeData() {}

// NoneData holds data for NodeNone.
type NoneData struct{}

func (NoneData) nodeData() {}

// Const builds an integer constant node.
func Const(v int64) *Node {
	return &Node{Kind: NodeConst, Data: ConstData{Value: v}}
}

// Name builds a symbol reference node.
func Name(name string) *Node {
	return &Node{Kind: NodeName, Data: NameData{Name: name}}
}

// Tuple builds a tuple node from the given elements in order.
func Tuple(elems ...*Node) *Node {
	return &Node{Kind: NodeTuple, Data: TupleData{Elems: elems}}
}

// Unary builds a unary operator node.
func Unary(op Op, operand *Node) *Node {
	return &Node{Kind: NodeUnary, Data: UnaryData{Op: op, Operand: operand}}
}

// Binary builds a binary operator node.
func Binary(op Op, left, right *Node) *Node {
	return &Node{Kind: NodeBinary, Data: BinaryData{Op: op, Left: left, Right: right}}
}

// None builds the absent-value node.
func None() *Node {
	return &Node{Kind: NodeNone, Data: NoneData{}}
}
