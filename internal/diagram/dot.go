package diagram

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT renders the graph as Graphviz DOT text. The attributes make the
// dataflow chain read left-to-right with rounded, filled nodes; the
// alignment group becomes a rank=same subgraph. Output ordering follows the
// node and edge slices, so the text is deterministic.
func WriteDOT(w io.Writer, g *Graph) error {
	var sb strings.Builder
	sb.WriteString("digraph cnc {\n")
	sb.WriteString("\trankdir=LR;\n")
	sb.WriteString("\tsplines=spline;\n")
	sb.WriteString("\tnodesep=0.8;\n")
	sb.WriteString("\tranksep=0.8;\n")
	sb.WriteString("\tnode [shape=box, style=\"rounded,filled\", fillcolor=\"#a5d8ff\", fontsize=10];\n")
	sb.WriteString("\tedge [arrowsize=0.7];\n")

	for _, n := range g.Nodes {
		label := n.Label
		if n.Tag != "" {
			label += `\ntag=` + n.Tag
		}
		fmt.Fprintf(&sb, "\tn%d [label=%s, shape=%s];\n", n.ID, dotQuote(label), n.Shape)
	}
	for _, e := range g.Edges {
		attrs := make([]string, 0, 2)
		if e.Label != "" {
			attrs = append(attrs, "label="+dotQuote(e.Label))
		}
		if !e.Constraint {
			attrs = append(attrs, "constraint=false")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&sb, "\tn%d -> n%d [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&sb, "\tn%d -> n%d;\n", e.From, e.To)
		}
	}

	if len(g.SameRank) > 0 {
		sb.WriteString("\t{ rank=same;")
		for _, id := range g.SameRank {
			fmt.Fprintf(&sb, " n%d;", id)
		}
		sb.WriteString(" }\n")
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// dotQuote wraps s in a DOT double-quoted string. Escape sequences like \n
// must survive verbatim, so only the quote character itself is escaped.
func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
