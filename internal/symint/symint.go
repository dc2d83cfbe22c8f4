// Package symint implements the symbolic integer algebra used to tag trace
// nodes with positions in a kernel's iteration space.
//
// A SymInt is either a concrete integer, a named symbol, or an expression
// built from other SymInts via the arithmetic operators. Values are
// immutable: every operation returns a new SymInt and never mutates its
// operands. Concrete-concrete operations fold arithmetically; anything
// involving a symbol builds an expression node instead.
package symint

import (
	"fmt"
	"strings"

	"github.com/joydddd/cutlass/internal/exprtree"
)

// Kind enumerates SymInt value kinds.
type Kind uint8

const (
	// KindConcrete is a plain integer value.
	KindConcrete Kind = iota
	// KindSymbol is a named symbolic variable.
	KindSymbol
	// KindUnary is a unary operator applied to one operand.
	KindUnary
	// KindBinary is a binary operator applied to two operands.
	KindBinary
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConcrete:
		return "Concrete"
	case KindSymbol:
		return "Symbol"
	case KindUnary:
		return "Unary"
	case KindBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// SymInt is an immutable symbolic integer.
// The zero value is Concrete(0).
type SymInt struct {
	kind Kind
	n    int64
	name string
	op   exprtree.Op
	lhs  *SymInt
	rhs  *SymInt // nil for unary expressions
}

// Concrete builds a concrete integer value.
func Concrete(n int64) SymInt {
	return SymInt{kind: KindConcrete, n: n}
}

// Symbol builds a named symbolic variable.
func Symbol(name string) SymInt {
	return SymInt{kind: KindSymbol, name: name}
}

// Kind returns the value kind.
func (s SymInt) Kind() Kind { return s.kind }

// IsConcrete reports whether the value is a plain integer.
func (s SymInt) IsConcrete() bool { return s.kind == KindConcrete }

// Value returns the concrete integer value, if any.
func (s SymInt) Value() (int64, bool) {
	if s.kind != KindConcrete {
		return 0, false
	}
	return s.n, true
}

// Name returns the symbol name, if the value is a named symbol.
func (s SymInt) Name() (string, bool) {
	if s.kind != KindSymbol {
		return "", false
	}
	return s.name, true
}

func binary(op exprtree.Op, a, b SymInt) SymInt {
	return SymInt{kind: KindBinary, op: op, lhs: &a, rhs: &b}
}

// Add returns s + o, folding when both operands are concrete.
func (s SymInt) Add(o SymInt) SymInt {
	if s.kind == KindConcrete && o.kind == KindConcrete {
		return Concrete(s.n + o.n)
	}
	return binary(exprtree.OpAdd, s, o)
}

// Sub returns s - o, folding when both operands are concrete.
func (s SymInt) Sub(o SymInt) SymInt {
	if s.kind == KindConcrete && o.kind == KindConcrete {
		return Concrete(s.n - o.n)
	}
	return binary(exprtree.OpSub, s, o)
}

// Mul returns s * o, folding when both operands are concrete.
func (s SymInt) Mul(o SymInt) SymInt {
	if s.kind == KindConcrete && o.kind == KindConcrete {
		return Concrete(s.n * o.n)
	}
	return binary(exprtree.OpMul, s, o)
}

// FloorDiv returns s // o with floor semantics, folding when both operands
// are concrete. Folding a division by zero panics, matching integer division.
func (s SymInt) FloorDiv(o SymInt) SymInt {
	if s.kind == KindConcrete && o.kind == KindConcrete {
		return Concrete(floorDiv(s.n, o.n))
	}
	return binary(exprtree.OpFloorDiv, s, o)
}

// Mod returns s % o with the sign of the divisor, folding when both operands
// are concrete.
func (s SymInt) Mod(o SymInt) SymInt {
	if s.kind == KindConcrete && o.kind == KindConcrete {
		return Concrete(s.n - floorDiv(s.n, o.n)*o.n)
	}
	return binary(exprtree.OpMod, s, o)
}

// Pow returns s ** o, folding when both operands are concrete and the
// exponent is non-negative.
func (s SymInt) Pow(o SymInt) SymInt {
	if s.kind == KindConcrete && o.kind == KindConcrete && o.n >= 0 {
		return Concrete(ipow(s.n, o.n))
	}
	return binary(exprtree.OpPow, s, o)
}

// Neg returns -s, folding when the operand is concrete.
func (s SymInt) Neg() SymInt {
	if s.kind == KindConcrete {
		return Concrete(-s.n)
	}
	return SymInt{kind: KindUnary, op: exprtree.OpNeg, lhs: &s}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

// Equal reports structural equality: same kind, same value/name/operator and
// structurally equal operands.
func (s SymInt) Equal(o SymInt) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case KindConcrete:
		return s.n == o.n
	case KindSymbol:
		return s.name == o.name
	case KindUnary:
		return s.op == o.op && s.lhs.Equal(*o.lhs)
	case KindBinary:
		return s.op == o.op && s.lhs.Equal(*o.lhs) && s.rhs.Equal(*o.rhs)
	default:
		return false
	}
}

// String renders the value deterministically. Expressions are fully
// parenthesized so operator precedence never has to be considered.
func (s SymInt) String() string {
	var sb strings.Builder
	s.write(&sb)
	return sb.String()
}

func (s SymInt) write(sb *strings.Builder) {
	switch s.kind {
	case KindConcrete:
		fmt.Fprintf(sb, "%d", s.n)
	case KindSymbol:
		sb.WriteString(s.name)
	case KindUnary:
		sb.WriteString(s.op.String())
		sb.WriteByte('(')
		s.lhs.write(sb)
		sb.WriteByte(')')
	case KindBinary:
		sb.WriteByte('(')
		s.lhs.write(sb)
		sb.WriteByte(' ')
		sb.WriteString(s.op.String())
		sb.WriteByte(' ')
		s.rhs.write(sb)
		sb.WriteByte(')')
	}
}

// Expr converts the value to a backend-neutral expression tree.
func (s SymInt) Expr() *exprtree.Node {
	switch s.kind {
	case KindConcrete:
		return exprtree.Const(s.n)
	case KindSymbol:
		return exprtree.Name(s.name)
	case KindUnary:
		return exprtree.Unary(s.op, s.lhs.Expr())
	case KindBinary:
		return exprtree.Binary(s.op, s.lhs.Expr(), s.rhs.Expr())
	default:
		return exprtree.None()
	}
}
