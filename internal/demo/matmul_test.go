package demo_test

import (
	"context"
	"testing"

	"github.com/joydddd/cutlass/internal/demo"
	"github.com/joydddd/cutlass/internal/diagram"
	"github.com/joydddd/cutlass/internal/graph"
	"github.com/joydddd/cutlass/internal/record"
)

func TestMatmulDump(t *testing.T) {
	sess := record.NewSession(true)
	kernel, err := demo.Matmul(context.Background(), sess)
	if err != nil {
		t.Fatalf("Matmul: %v", err)
	}
	if kernel == nil {
		t.Fatal("enabled session should produce a kernel")
	}

	want := []string{
		"[[[Kernel]]] matmul (id=1)",
		"<GridLoop> tile0 [None] id=2",
		"\t<Loop> coord0 [None] id=3",
		"\t\t<Step> load_a [(tile_m, tile_n, coord0)] id=4",
		"\t\t<Step> load_b [(tile_m, tile_n, coord0)] id=5",
		"\t\t<Step> addmm [(tile_m, tile_n, coord0)] id=6",
		"\t<Step> store [(tile_m, tile_n, None)] id=7",
	}
	got := graph.Dump(kernel)
	if len(got) != len(want) {
		t.Fatalf("dump has %d lines, want %d:\n%v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	kd := kernel.Kernel()
	if len(kd.Inputs) != 2 || kd.Inputs[0] != "A" || kd.Inputs[1] != "B" {
		t.Errorf("kernel inputs = %v", kd.Inputs)
	}
	if len(kd.Outputs) != 1 || kd.Outputs[0] != "C" {
		t.Errorf("kernel outputs = %v", kd.Outputs)
	}
}

func TestMatmulDisabledRunsWithoutTrace(t *testing.T) {
	sess := record.NewSession(false)
	kernel, err := demo.Matmul(context.Background(), sess)
	if err != nil {
		t.Fatalf("Matmul: %v", err)
	}
	if kernel != nil {
		t.Error("disabled session should not produce a kernel")
	}
	if len(sess.Context().Nodes()) != 0 {
		t.Error("disabled session should record no nodes")
	}
}

func TestMatmulFlattens(t *testing.T) {
	sess := record.NewSession(true)
	kernel, err := demo.Matmul(context.Background(), sess)
	if err != nil {
		t.Fatalf("Matmul: %v", err)
	}
	g, err := diagram.Flatten(kernel)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	// Two loop diamonds plus four step boxes.
	if len(g.Nodes) != 6 {
		t.Fatalf("flattened to %d nodes, want 6:\n%+v", len(g.Nodes), g.Nodes)
	}
	backEdges := 0
	for _, e := range g.Edges {
		if !e.Constraint {
			backEdges++
		}
	}
	if backEdges != 2 {
		t.Errorf("found %d back-edges, want one per loop (2)", backEdges)
	}

	// The edge out of the reduction loop carries the accumulator handle.
	var storeID uint32
	for _, n := range g.Nodes {
		if n.Label == "store" {
			storeID = n.ID
		}
	}
	for _, e := range g.Edges {
		if e.To == storeID && e.Constraint {
			if e.Label != "acc" {
				t.Errorf("edge into store labeled %q, want \"acc\"", e.Label)
			}
		}
	}
}
