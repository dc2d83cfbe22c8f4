// Package coord implements tree-shaped symbolic coordinates.
//
// A Coord tags a trace node with its position in the iteration space. It is
// a tagged variant: an unbound slot, a bound symbolic integer, or an ordered
// composite of child coordinates. Coordinates are immutable; Bind returns a
// new tree sharing every unchanged subtree.
package coord

import (
	"strings"

	"github.com/joydddd/cutlass/internal/exprtree"
	"github.com/joydddd/cutlass/internal/symint"
)

// Kind enumerates coordinate variants.
type Kind uint8

const (
	// KindUnbound is the hole placeholder for a not-yet-scheduled dimension.
	KindUnbound Kind = iota
	// KindBound wraps a symbolic integer.
	KindBound
	// KindComposite is an ordered list of child coordinates.
	KindComposite
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnbound:
		return "Unbound"
	case KindBound:
		return "Bound"
	case KindComposite:
		return "Composite"
	default:
		return "Unknown"
	}
}

// Coord is an immutable coordinate tree.
// The zero value is the unbound slot.
type Coord struct {
	kind  Kind
	sym   symint.SymInt
	elems []Coord
}

// Unbound returns the canonical hole placeholder.
func Unbound() Coord {
	return Coord{kind: KindUnbound}
}

// Bound wraps a symbolic integer as a coordinate leaf.
func Bound(s symint.SymInt) Coord {
	return Coord{kind: KindBound, sym: s}
}

// Composite builds a coordinate from child coordinates in declared order.
func Composite(elems ...Coord) Coord {
	return Coord{kind: KindComposite, elems: elems}
}

// Kind returns the coordinate variant.
func (c Coord) Kind() Kind { return c.kind }

// Sym returns the bound symbolic integer, if the coordinate is a bound leaf.
func (c Coord) Sym() (symint.SymInt, bool) {
	if c.kind != KindBound {
		return symint.SymInt{}, false
	}
	return c.sym, true
}

// Elems returns the child coordinates of a composite. The returned slice
// must not be mutated.
func (c Coord) Elems() []Coord {
	if c.kind != KindComposite {
		return nil
	}
	return c.elems
}

// Rank returns the number of children of a composite, or 0 for leaves.
func (c Coord) Rank() int { return len(c.elems) }

// Bind returns a new coordinate with the first unbound slot replaced by v.
// The slot is found by a depth-first, left-to-right pre-order search that
// recurses into composite children before moving to later siblings. Binding
// the unbound leaf itself yields v directly, so the tree may change shape.
// A fully bound coordinate is returned unchanged; that is a documented no-op,
// not a failure.
func (c Coord) Bind(v Coord) Coord {
	out, _ := c.bind(v)
	return out
}

// BindSym is Bind with a symbolic-integer leaf value.
func (c Coord) BindSym(s symint.SymInt) Coord {
	return c.Bind(Bound(s))
}

func (c Coord) bind(v Coord) (Coord, bool) {
	switch c.kind {
	case KindUnbound:
		return v, true
	case KindBound:
		return c, false
	case KindComposite:
		for i := range c.elems {
			child, ok := c.elems[i].bind(v)
			if !ok {
				continue
			}
			elems := make([]Coord, len(c.elems))
			copy(elems, c.elems)
			elems[i] = child
			return Coord{kind: KindComposite, elems: elems}, true
		}
		return c, false
	default:
		return c, false
	}
}

// FullyBound reports whether the tree contains no unbound slot.
func (c Coord) FullyBound() bool {
	switch c.kind {
	case KindUnbound:
		return false
	case KindBound:
		return true
	default:
		for i := range c.elems {
			if !c.elems[i].FullyBound() {
				return false
			}
		}
		return true
	}
}

// Equal reports structural equality by shape and contents.
func (c Coord) Equal(o Coord) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindUnbound:
		return true
	case KindBound:
		return c.sym.Equal(o.sym)
	default:
		if len(c.elems) != len(o.elems) {
			return false
		}
		for i := range c.elems {
			if !c.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
}

// String renders the coordinate deterministically: unbound slots as "None",
// bound leaves via the symint renderer, composites parenthesized and
// comma-separated.
func (c Coord) String() string {
	var sb strings.Builder
	c.write(&sb)
	return sb.String()
}

func (c Coord) write(sb *strings.Builder) {
	switch c.kind {
	case KindUnbound:
		sb.WriteString("None")
	case KindBound:
		sb.WriteString(c.sym.String())
	case KindComposite:
		sb.WriteByte('(')
		for i := range c.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.elems[i].write(sb)
		}
		sb.WriteByte(')')
	}
}

// Expr converts the coordinate to a backend-neutral expression tree:
// unbound slots become None nodes, bound leaves delegate to the symbolic
// integer, composites become tuples.
func (c Coord) Expr() *exprtree.Node {
	switch c.kind {
	case KindUnbound:
		return exprtree.None()
	case KindBound:
		return c.sym.Expr()
	default:
		elems := make([]*exprtree.Node, len(c.elems))
		for i := range c.elems {
			elems[i] = c.elems[i].Expr()
		}
		return exprtree.Tuple(elems...)
	}
}
