package diagram

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// WriteText writes a terminal preview of the diagram: one aligned line per
// node followed by the edge list. Column widths are computed with runewidth
// so labels containing wide runes still line up.
func WriteText(w io.Writer, g *Graph) error {
	labelWidth := 0
	for _, n := range g.Nodes {
		if lw := runewidth.StringWidth(n.Label); lw > labelWidth {
			labelWidth = lw
		}
	}

	for _, n := range g.Nodes {
		marker := "step"
		if n.Shape == ShapeDiamond {
			marker = "loop"
		}
		line := fmt.Sprintf("[%2d] %s %s", n.ID, marker, runewidth.FillRight(n.Label, labelWidth))
		if n.Tag != "" {
			line += "  tag=" + n.Tag
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for _, e := range g.Edges {
		arrow := "->"
		if !e.Constraint {
			arrow = "~>" // iteration back-edge
		}
		line := fmt.Sprintf("  %d %s %d", e.From, arrow, e.To)
		if e.Label != "" {
			line += "  [" + e.Label + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
