package graph

import (
	"fmt"
	"io"
	"strings"
)

// Dump renders a subtree as one line per node, depth-first pre-order, in
// declared child order. Each nesting level below a loop adds one tab of
// indentation. The output is fully deterministic given program order; child
// lists are ordered slices, never maps.
//
// A kernel dumps its own header line followed by its grid loop's subtree.
func Dump(n *Node) []string {
	var lines []string
	dumpNode(n, 0, &lines)
	return lines
}

// Fprint writes the dump of n to w, one line per node.
func Fprint(w io.Writer, n *Node) error {
	for _, line := range Dump(n) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// DumpAll renders every kernel traced in the context, in trace order.
func (c *Context) DumpAll() []string {
	var lines []string
	for _, k := range c.Kernels() {
		lines = append(lines, Dump(k)...)
	}
	return lines
}

func dumpNode(n *Node, depth int, lines *[]string) {
	indent := strings.Repeat("\t", depth)
	switch d := n.Data.(type) {
	case *KernelData:
		*lines = append(*lines, indent+headline(n))
		if d.GridLoop != nil {
			dumpNode(d.GridLoop, depth, lines)
		}
	case *LoopData:
		*lines = append(*lines, indent+headline(n))
		for _, child := range d.Children {
			dumpNode(child, depth+1, lines)
		}
	case *StepData:
		*lines = append(*lines, indent+headline(n))
	}
}

// headline renders a node's own dump line without indentation.
func headline(n *Node) string {
	switch d := n.Data.(type) {
	case *KernelData:
		return fmt.Sprintf("[[[Kernel]]] %s (id=%d)", d.Name, n.ID)
	case *LoopData:
		kind := "Loop"
		if d.Grid {
			kind = "GridLoop"
		}
		return fmt.Sprintf("<%s> %s [%s] id=%d", kind, d.Induction, n.Tag, n.ID)
	case *StepData:
		return fmt.Sprintf("<Step> %s [%s] id=%d", d.Origin.StepName(), n.Tag, n.ID)
	default:
		return fmt.Sprintf("<Unknown> id=%d", n.ID)
	}
}
