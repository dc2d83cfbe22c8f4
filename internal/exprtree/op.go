package exprtree

// Op enumerates the operators the symbolic algebra can produce.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpFloorDiv
	OpMod
	OpPow
	OpNeg
)

// String returns the operator's textual form.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	case OpNeg:
		return "-"
	default:
		return "?"
	}
}
