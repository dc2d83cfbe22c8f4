package coord_test

import (
	"testing"

	"github.com/joydddd/cutlass/internal/coord"
	"github.com/joydddd/cutlass/internal/symint"
)

func TestBindFillsSlotsLeftToRight(t *testing.T) {
	c := coord.Composite(coord.Unbound(), coord.Unbound(), coord.Unbound())

	c = c.BindSym(symint.Symbol("a"))
	if got := c.String(); got != "(a, None, None)" {
		t.Fatalf("after first bind: %q", got)
	}
	c = c.BindSym(symint.Symbol("b"))
	if got := c.String(); got != "(a, b, None)" {
		t.Fatalf("after second bind: %q", got)
	}
	c = c.BindSym(symint.Symbol("c"))
	if got := c.String(); got != "(a, b, c)" {
		t.Fatalf("after third bind: %q", got)
	}
	if !c.FullyBound() {
		t.Error("three binds should fully bind a rank-3 coordinate")
	}
}

func TestBindRecursesIntoNestedCompositesFirst(t *testing.T) {
	// The hole inside the nested composite comes before the later sibling.
	c := coord.Composite(
		coord.Bound(symint.Symbol("x")),
		coord.Composite(coord.Unbound(), coord.Bound(symint.Symbol("y"))),
		coord.Unbound(),
	)
	c = c.BindSym(symint.Symbol("k"))
	if got := c.String(); got != "(x, (k, y), None)" {
		t.Errorf("nested slot should fill first, got %q", got)
	}
}

func TestBindFullyBoundIsNoOp(t *testing.T) {
	c := coord.Composite(coord.Bound(symint.Symbol("x")), coord.Bound(symint.Symbol("y")))
	bound := c.BindSym(symint.Symbol("z"))
	if !bound.Equal(c) {
		t.Errorf("binding a fully bound coordinate must not change it: %s", bound)
	}
}

func TestBindUnboundLeafReplacesTree(t *testing.T) {
	v := coord.Composite(coord.Bound(symint.Symbol("m")), coord.Bound(symint.Symbol("n")))
	got := coord.Unbound().Bind(v)
	if !got.Equal(v) {
		t.Errorf("binding the unbound leaf should yield the value itself, got %s", got)
	}
}

func TestBindSharesUnchangedSiblings(t *testing.T) {
	orig := coord.Composite(coord.Unbound(), coord.Unbound())
	bound := orig.BindSym(symint.Symbol("a"))
	if got := orig.String(); got != "(None, None)" {
		t.Errorf("Bind must not mutate the receiver, got %q", got)
	}
	if got := bound.String(); got != "(a, None)" {
		t.Errorf("bound = %q", got)
	}
}

func TestFullyBound(t *testing.T) {
	tests := []struct {
		c    coord.Coord
		want bool
	}{
		{coord.Unbound(), false},
		{coord.Bound(symint.Concrete(1)), true},
		{coord.Composite(), true},
		{coord.Composite(coord.Bound(symint.Symbol("x")), coord.Unbound()), false},
		{coord.Composite(coord.Composite(coord.Bound(symint.Symbol("x")))), true},
	}
	for _, tt := range tests {
		if got := tt.c.FullyBound(); got != tt.want {
			t.Errorf("FullyBound(%s) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := coord.Composite(coord.Bound(symint.Symbol("x")), coord.Unbound())
	b := coord.Composite(coord.Bound(symint.Symbol("x")), coord.Unbound())
	if !a.Equal(b) {
		t.Error("structurally identical coordinates should be equal")
	}
	if a.Equal(coord.Composite(coord.Unbound(), coord.Bound(symint.Symbol("x")))) {
		t.Error("element order matters")
	}
	if coord.Unbound().Equal(coord.Composite()) {
		t.Error("an unbound leaf is not an empty composite")
	}
}

func TestZeroValueIsUnbound(t *testing.T) {
	var c coord.Coord
	if c.Kind() != coord.KindUnbound {
		t.Fatalf("zero value kind = %v, want Unbound", c.Kind())
	}
	if got := c.String(); got != "None" {
		t.Errorf("zero value String() = %q, want \"None\"", got)
	}
}
