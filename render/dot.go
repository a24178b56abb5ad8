package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/TFMV/forcegraph/layout"
)

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders layouts in Graphviz DOT format with pinned positions for neato -n"
}

// Render creates an undirected DOT graph. Positions are in points on the
// output canvas, with y pointing up as Graphviz expects.
func (r *DOTRenderer) Render(frame layout.Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	colors := paletteFor(options)
	vp := fit(frame, options.Width, options.Height, options.Margin)

	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%s, bb=\"0,0,%g,%g\"];\n",
		strconv.Quote(colors.background), options.Width, options.Height)
	fmt.Fprintf(&buf, "  node [shape=circle, fontname=\"Arial\", fontsize=%g];\n", options.FontSize)

	for _, node := range frame.Nodes {
		x, y := vp.apply(node.X, node.Y)
		label := node.Label
		if label == "" {
			label = node.ID
		}
		color := colors.node
		if node.Anchor {
			color = colors.anchor
		}
		fmt.Fprintf(&buf, "  %s [label=%s, color=%s, pos=\"%.2f,%.2f!\"];\n",
			strconv.Quote(node.ID), strconv.Quote(label), strconv.Quote(color), x, options.Height-y)
	}

	idx := frame.Index()
	for _, edge := range frame.Edges {
		if _, ok := idx[edge.Source]; !ok {
			continue
		}
		if _, ok := idx[edge.Target]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %s -- %s", strconv.Quote(edge.Source), strconv.Quote(edge.Target))
		if edge.Label != "" {
			fmt.Fprintf(&buf, " [label=%s]", strconv.Quote(edge.Label))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
