package exprtree

import (
	"fmt"
	"strings"
)

// String renders the expression tree in a deterministic infix form.
// Tuples are parenthesized and comma-separated; nested operator
// applications are fully parenthesized so precedence never matters.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	switch d := n.Data.(type) {
	case ConstData:
		fmt.Fprintf(sb, "%d", d.Value)
	case NameData:
		sb.WriteString(d.Name)
	case NoneData:
		sb.WriteString("None")
	case TupleData:
		sb.WriteByte('(')
		for i, e := range d.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte(')')
	case UnaryData:
		sb.WriteString(d.Op.String())
		sb.WriteByte('(')
		d.Operand.write(sb)
		sb.WriteByte(')')
	case BinaryData:
		sb.WriteByte('(')
		d.Left.write(sb)
		sb.WriteByte(' ')
		sb.WriteString(d.Op.String())
		sb.WriteByte(' ')
		d.Right.write(sb)
		sb.WriteByte(')')
	default:
		sb.WriteString("<unknown>")
	}
}

// Equal reports structural equality of two expression trees.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch da := a.Data.(type) {
	case ConstData:
		db, ok := b.Data.(ConstData)
		return ok && da.Value == db.Value
	case NameData:
		db, ok := b.Data.(NameData)
		return ok && da.Name == db.Name
	case NoneData:
		_, ok := b.Data.(NoneData)
		return ok
	case TupleData:
		db, ok := b.Data.(TupleData)
		if !ok || len(da.Elems) != len(db.Elems) {
			return false
		}
		for i := range da.Elems {
			if !Equal(da.Elems[i], db.Elems[i]) {
				return false
			}
		}
		return true
	case UnaryData:
		db, ok := b.Data.(UnaryData)
		return ok && da.Op == db.Op && Equal(da.Operand, db.Operand)
	case BinaryData:
		db, ok := b.Data.(BinaryData)
		return ok && da.Op == db.Op && Equal(da.Left, db.Left) && Equal(da.Right, db.Right)
	default:
		return false
	}
}
