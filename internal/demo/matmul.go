// Package demo traces a tiled matmul kernel: the reference program used by
// the CLI and the integration tests. The numeric computation itself is a
// stand-in; only the trace structure matters here.
package demo

import (
	"context"

	"github.com/joydddd/cutlass/internal/coord"
	"github.com/joydddd/cutlass/internal/graph"
	"github.com/joydddd/cutlass/internal/record"
	"github.com/joydddd/cutlass/internal/steps"
	"github.com/joydddd/cutlass/internal/symint"
)

func noop(context.Context, steps.Args) (any, error) { return nil, nil }

// The step bodies are distinct functions so each definition keeps its own
// identity token.
func runLoadA(ctx context.Context, args steps.Args) (any, error) { return noop(ctx, args) }
func runLoadB(ctx context.Context, args steps.Args) (any, error) { return noop(ctx, args) }
func runAddmm(ctx context.Context, args steps.Args) (any, error) { return noop(ctx, args) }
func runStore(ctx context.Context, args steps.Args) (any, error) { return noop(ctx, args) }

// Matmul records the tiled matmul trace into sess and returns the traced
// kernel node, or nil when recording is disabled.
func Matmul(ctx context.Context, sess *record.Session) (*graph.Node, error) {
	loadA, err := steps.New(steps.Config{
		Name:     "load_a",
		Fn:       runLoadA,
		Params:   []string{"a", "tv_layout", "coord"},
		TagParam: "coord",
		Inputs:   []string{"A"},
		Outputs:  []string{"a_tile"},
	})
	if err != nil {
		return nil, err
	}
	loadB, err := steps.New(steps.Config{
		Name:     "load_b",
		Fn:       runLoadB,
		Params:   []string{"b", "tv_layout", "coord"},
		TagParam: "coord",
		Inputs:   []string{"B"},
		Outputs:  []string{"b_tile"},
	})
	if err != nil {
		return nil, err
	}
	addmm, err := steps.New(steps.Config{
		Name:     "addmm",
		Fn:       runAddmm,
		Params:   []string{"acc", "a_tile", "b_tile", "coord"},
		TagParam: "coord",
		Inputs:   []string{"a_tile", "b_tile"},
		Outputs:  []string{"acc"},
	})
	if err != nil {
		return nil, err
	}
	store, err := steps.New(steps.Config{
		Name:     "store",
		Fn:       runStore,
		Params:   []string{"acc", "c", "coord"},
		TagParam: "coord",
		Inputs:   []string{"acc"},
		Outputs:  []string{"C"},
	})
	if err != nil {
		return nil, err
	}
	reg := sess.Registry()
	for _, d := range []*steps.Definition{loadA, loadB, addmm, store} {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}

	if !sess.Enabled() {
		// Normal execution: run the computation without graph side effects.
		return nil, runBody(ctx, loadA, loadB, addmm, store, nil)
	}

	var kernel *graph.Node
	err = sess.Run(func() error {
		tc := sess.Context()
		k, err := tc.OpenKernel("matmul")
		if err != nil {
			return err
		}
		k.Kernel().Inputs = []string{"A", "B"}
		k.Kernel().Outputs = []string{"C"}
		kernel = k
		return runBody(ctx, loadA, loadB, addmm, store, tc)
	})
	if err != nil {
		return nil, err
	}
	return kernel, nil
}

// runBody executes the traced program: one grid iteration over
// (tile_m, tile_n) with an inner reduction loop over tile_k.
func runBody(ctx context.Context, loadA, loadB, addmm, store *steps.Definition, tc *graph.Context) error {
	tileM := symint.Symbol("tile_m")
	tileN := symint.Symbol("tile_n")

	// (tile_m, tile_n, None): the k dimension stays unbound until the
	// reduction loop opens.
	tag := coord.Composite(coord.Unbound(), coord.Unbound(), coord.Unbound()).
		BindSym(tileM).
		BindSym(tileN)

	ktag := tag
	if tc != nil {
		kLoop, err := tc.OpenLoop()
		if err != nil {
			return err
		}
		ktag = tag.BindSym(kLoop.Loop().Induction)
	}

	if _, err := loadA.Call(ctx, steps.Args{"coord": ktag}); err != nil {
		return err
	}
	if _, err := loadB.Call(ctx, steps.Args{"coord": ktag}); err != nil {
		return err
	}
	if _, err := addmm.Call(ctx, steps.Args{"coord": ktag}); err != nil {
		return err
	}

	if tc != nil {
		if err := tc.CloseLoop(); err != nil {
			return err
		}
	}

	if _, err := store.Call(ctx, steps.Args{"coord": tag}); err != nil {
		return err
	}

	if tc != nil {
		if err := tc.CloseKernel(); err != nil {
			return err
		}
	}
	return nil
}
