package exprtree_test

import (
	"testing"

	"github.com/joydddd/cutlass/internal/exprtree"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node *exprtree.Node
		want string
	}{
		{"const", exprtree.Const(7), "7"},
		{"name", exprtree.Name("tile0"), "tile0"},
		{"none", exprtree.None(), "None"},
		{"tuple", exprtree.Tuple(exprtree.Name("m"), exprtree.None()), "(m, None)"},
		{"empty_tuple", exprtree.Tuple(), "()"},
		{
			"binary",
			exprtree.Binary(exprtree.OpFloorDiv, exprtree.Name("x"), exprtree.Const(2)),
			"(x // 2)",
		},
		{
			"nested",
			exprtree.Binary(exprtree.OpAdd,
				exprtree.Binary(exprtree.OpMul, exprtree.Name("a"), exprtree.Name("b")),
				exprtree.Const(1)),
			"((a * b) + 1)",
		},
		{"unary", exprtree.Unary(exprtree.OpNeg, exprtree.Name("k")), "-(k)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := exprtree.Tuple(exprtree.Name("x"), exprtree.Const(1))
	b := exprtree.Tuple(exprtree.Name("x"), exprtree.Const(1))
	if !exprtree.Equal(a, b) {
		t.Error("structurally identical trees should be equal")
	}
	if exprtree.Equal(a, exprtree.Tuple(exprtree.Const(1), exprtree.Name("x"))) {
		t.Error("element order matters")
	}
	if exprtree.Equal(exprtree.Const(1), exprtree.Name("1")) {
		t.Error("const and name must not compare equal")
	}
	if !exprtree.Equal(nil, nil) {
		t.Error("two nil trees are equal")
	}
	if exprtree.Equal(a, nil) {
		t.Error("a tree never equals nil")
	}
}
