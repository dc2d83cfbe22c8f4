package steps_test

import (
	"context"
	"errors"
	"testing"

	"github.com/joydddd/cutlass/internal/coord"
	"github.com/joydddd/cutlass/internal/graph"
	"github.com/joydddd/cutlass/internal/steps"
	"github.com/joydddd/cutlass/internal/symint"
)

func runLoad(context.Context, steps.Args) (any, error)  { return "loaded", nil }
func runStore(context.Context, steps.Args) (any, error) { return nil, nil }

func mustNew(t *testing.T, cfg steps.Config) *steps.Definition {
	t.Helper()
	d, err := steps.New(cfg)
	if err != nil {
		t.Fatalf("New(%q): %v", cfg.Name, err)
	}
	return d
}

func TestNewRejectsUnknownTagParam(t *testing.T) {
	_, err := steps.New(steps.Config{
		Name:     "load",
		Fn:       runLoad,
		Params:   []string{"src"},
		TagParam: "coord",
	})
	if !errors.Is(err, steps.ErrLookupFailure) {
		t.Fatalf("want ErrLookupFailure, got %v", err)
	}
}

func TestNewRejectsTwoTagSources(t *testing.T) {
	tag := coord.Unbound()
	_, err := steps.New(steps.Config{
		Name:      "load",
		Fn:        runLoad,
		Params:    []string{"coord"},
		TagParam:  "coord",
		StaticTag: &tag,
	})
	if err == nil {
		t.Fatal("two tag sources should be rejected")
	}
}

func TestNewRequiresTagSource(t *testing.T) {
	_, err := steps.New(steps.Config{Name: "load", Fn: runLoad})
	if err == nil {
		t.Fatal("a definition without a tag source should be rejected")
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	reg := steps.NewRegistry()
	first := mustNew(t, steps.Config{
		Name: "load", Fn: runLoad, Params: []string{"coord"}, TagParam: "coord",
	})
	if err := reg.Register(first); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Same function wrapped under a different name.
	second := mustNew(t, steps.Config{
		Name: "load_again", Fn: runLoad, Params: []string{"coord"}, TagParam: "coord",
	})
	if err := reg.Register(second); !errors.Is(err, steps.ErrDuplicateStepDefinition) {
		t.Fatalf("want ErrDuplicateStepDefinition, got %v", err)
	}
}

func TestRegisterIsIdempotentPerDefinition(t *testing.T) {
	reg := steps.NewRegistry()
	d := mustNew(t, steps.Config{
		Name: "load", Fn: runLoad, Params: []string{"coord"}, TagParam: "coord",
	})
	if err := reg.Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}
	id := d.ID()
	if err := reg.Register(d); err != nil {
		t.Fatalf("re-register of the same definition: %v", err)
	}
	if d.ID() != id {
		t.Errorf("re-registration changed the id: %d -> %d", id, d.ID())
	}
}

func TestCallWithoutContextPassesThrough(t *testing.T) {
	d := mustNew(t, steps.Config{
		Name: "load", Fn: runLoad, Params: []string{"coord"}, TagParam: "coord",
	})
	// No tag argument on purpose: without an active trace the tag is never
	// resolved and the call must still succeed.
	out, err := d.Call(context.Background(), steps.Args{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out != "loaded" {
		t.Errorf("Call returned %v, want \"loaded\"", out)
	}
}

func TestCallUnderContextRecordsStep(t *testing.T) {
	tc := graph.NewContext()
	if _, err := tc.OpenKernel("k"); err != nil {
		t.Fatalf("OpenKernel: %v", err)
	}
	tc.Enter()
	defer func() {
		if err := tc.Exit(); err != nil {
			t.Errorf("Exit: %v", err)
		}
	}()

	reg := steps.NewRegistry()
	d := mustNew(t, steps.Config{
		Name:     "load",
		Fn:       runLoad,
		Params:   []string{"src", "coord"},
		TagParam: "coord",
		Inputs:   []string{"A"},
		Outputs:  []string{"a_tile"},
	})
	if err := reg.Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tag := coord.Composite(coord.Bound(symint.Symbol("m")), coord.Unbound())
	out, err := d.Call(context.Background(), steps.Args{"coord": tag})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out != "loaded" {
		t.Errorf("Call returned %v, want \"loaded\"", out)
	}

	nodes := tc.Nodes()
	step := nodes[len(nodes)-1]
	if step.Kind != graph.KindStep {
		t.Fatalf("last node kind = %v, want Step", step.Kind)
	}
	if got := step.Step().Origin.StepName(); got != "load" {
		t.Errorf("step name = %q", got)
	}
	if !step.Tag.Equal(tag) {
		t.Errorf("step tag = %s, want %s", step.Tag, tag)
	}
	if got := step.Target(); got != "a_tile" {
		t.Errorf("Target() = %q, want a_tile", got)
	}
}

func TestCallUnderContextMissingTagArgument(t *testing.T) {
	tc := graph.NewContext()
	if _, err := tc.OpenKernel("k"); err != nil {
		t.Fatalf("OpenKernel: %v", err)
	}
	tc.Enter()
	defer func() {
		if err := tc.Exit(); err != nil {
			t.Errorf("Exit: %v", err)
		}
	}()

	d := mustNew(t, steps.Config{
		Name: "load", Fn: runLoad, Params: []string{"coord"}, TagParam: "coord",
	})
	if _, err := d.Call(context.Background(), steps.Args{}); !errors.Is(err, steps.ErrLookupFailure) {
		t.Errorf("missing tag argument: want ErrLookupFailure, got %v", err)
	}
	if _, err := d.Call(context.Background(), steps.Args{"coord": 42}); !errors.Is(err, steps.ErrLookupFailure) {
		t.Errorf("mistyped tag argument: want ErrLookupFailure, got %v", err)
	}
}

func TestStaticTagDefinition(t *testing.T) {
	tc := graph.NewContext()
	if _, err := tc.OpenKernel("k"); err != nil {
		t.Fatalf("OpenKernel: %v", err)
	}
	tc.Enter()
	defer func() {
		if err := tc.Exit(); err != nil {
			t.Errorf("Exit: %v", err)
		}
	}()

	tag := coord.Bound(symint.Concrete(0))
	d := mustNew(t, steps.Config{Name: "init", Fn: runStore, StaticTag: &tag})
	if _, err := d.Call(context.Background(), steps.Args{}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	nodes := tc.Nodes()
	if got := nodes[len(nodes)-1].Tag; !got.Equal(tag) {
		t.Errorf("step tag = %s, want %s", got, tag)
	}
}

func TestOriginHistoryKeepsTagOrder(t *testing.T) {
	tc := graph.NewContext()
	if _, err := tc.OpenKernel("k"); err != nil {
		t.Fatalf("OpenKernel: %v", err)
	}
	tc.Enter()
	defer func() {
		if err := tc.Exit(); err != nil {
			t.Errorf("Exit: %v", err)
		}
	}()

	reg := steps.NewRegistry()
	d := mustNew(t, steps.Config{
		Name: "load", Fn: runLoad, Params: []string{"coord"}, TagParam: "coord",
	})
	if err := reg.Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tags := []coord.Coord{
		coord.Bound(symint.Symbol("a")),
		coord.Bound(symint.Symbol("b")),
	}
	for _, tag := range tags {
		if _, err := d.Call(context.Background(), steps.Args{"coord": tag}); err != nil {
			t.Fatalf("Call: %v", err)
		}
	}

	history := reg.Origins(d.ID())
	if len(history) != len(tags) {
		t.Fatalf("history has %d entries, want %d", len(history), len(tags))
	}
	for i := range tags {
		if !history[i].Equal(tags[i]) {
			t.Errorf("history[%d] = %s, want %s", i, history[i], tags[i])
		}
	}

	// Two invocations under different tags stay one definition.
	stepNodes := 0
	for _, n := range tc.Nodes() {
		if n.Kind == graph.KindStep {
			stepNodes++
		}
	}
	if stepNodes != 2 {
		t.Errorf("recorded %d step nodes, want 2", stepNodes)
	}
}
