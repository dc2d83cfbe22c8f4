package diagram

import (
	"fortio.org/safecast"

	"github.com/joydddd/cutlass/internal/graph"
)

// Flatten linearizes a trace subtree into a dataflow diagram.
//
// The traversal is depth-first and carries two pieces of state: the most
// recent drawn node (the predecessor the next drawn node connects to) and
// the label owner, the most recent non-loop node whose declared target
// labels the next outgoing edge. Entering a loop makes the loop itself the
// label owner, so the first edge inside the loop is labeled by the
// induction variable like a loop header; leaving a loop deliberately keeps
// the owner produced by the loop's last non-loop descendant, so the edge to
// the next sibling is labeled by what the loop actually produced. Loops
// chain through their last drawn descendant, flattening nested bodies into
// one continuous chain, and get a non-layout back-edge depicting iteration.
//
// Nodes without the visualize flag are passed through structurally: they
// are never drawn but their children keep the surrounding connectivity.
func Flatten(root *graph.Node) (*Graph, error) {
	f := &flattener{g: &Graph{}}
	if _, _, err := f.visit(root, -1, nil); err != nil {
		return nil, err
	}
	return f.g, nil
}

type flattener struct {
	g *Graph
}

// add draws a node and returns its diagram id.
func (f *flattener) add(label, tag string, shape Shape) (int64, error) {
	id, err := safecast.Conv[uint32](len(f.g.Nodes))
	if err != nil {
		return -1, err
	}
	f.g.Nodes = append(f.g.Nodes, Node{ID: id, Label: label, Tag: tag, Shape: shape})
	f.g.SameRank = append(f.g.SameRank, id)
	return int64(id), nil
}

func (f *flattener) edge(from, to int64, label string, constraint bool) {
	f.g.Edges = append(f.g.Edges, Edge{
		From:       uint32(from),
		To:         uint32(to),
		Label:      label,
		Constraint: constraint,
	})
}

func ownerLabel(owner *graph.Node) string {
	if owner == nil {
		return ""
	}
	return owner.Target()
}

// visit returns the id of the last drawn node reachable from n (pred when
// nothing was drawn) and the label owner for the next edge at this level.
func (f *flattener) visit(n *graph.Node, pred int64, owner *graph.Node) (int64, *graph.Node, error) {
	switch d := n.Data.(type) {
	case *graph.KernelData:
		// Kernels are not drawn; the grid loop carries the chain.
		if d.GridLoop == nil {
			return pred, owner, nil
		}
		return f.visit(d.GridLoop, pred, owner)
	case *graph.LoopData:
		return f.visitLoop(n, d, pred, owner)
	case *graph.StepData:
		if !n.Visualize {
			return pred, owner, nil
		}
		id, err := f.add(d.Origin.StepName(), n.Tag.String(), ShapeBox)
		if err != nil {
			return pred, owner, err
		}
		if pred >= 0 {
			f.edge(pred, id, ownerLabel(owner), true)
		}
		return id, n, nil
	default:
		return pred, owner, nil
	}
}

func (f *flattener) visitLoop(n *graph.Node, d *graph.LoopData, pred int64, owner *graph.Node) (int64, *graph.Node, error) {
	myID := int64(-1)
	if n.Visualize {
		var err error
		myID, err = f.add("for "+d.Induction.String(), "", ShapeDiamond)
		if err != nil {
			return pred, owner, err
		}
		if pred >= 0 {
			f.edge(pred, myID, ownerLabel(owner), true)
		}
	}

	chainPred := pred
	if myID >= 0 {
		chainPred = myID
	}

	// Inside the loop the first edge is labeled by the induction variable.
	innerOwner := n
	lastBody := int64(-1)
	for _, child := range d.Children {
		childLast, childOwner, err := f.visit(child, chainPred, innerOwner)
		if err != nil {
			return pred, owner, err
		}
		if childLast != chainPred && childLast >= 0 {
			chainPred = childLast
			lastBody = childLast
		}
		innerOwner = childOwner
	}

	// Iteration back-edge, marked non-layout-affecting.
	if myID >= 0 && lastBody >= 0 && lastBody != myID {
		f.edge(lastBody, myID, "", false)
	}

	// The loop's effective last node is its last drawn descendant, so
	// nested bodies join the parent chain directly.
	last := pred
	switch {
	case lastBody >= 0:
		last = lastBody
	case myID >= 0:
		last = myID
	}

	// Keep the owner the body produced; an empty loop keeps the owner the
	// caller had, never the induction variable.
	outOwner := innerOwner
	if outOwner == n {
		outOwner = owner
	}
	return last, outOwner, nil
}
