package render

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/TFMV/forcegraph/layout"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders layouts as Scalable Vector Graphics (SVG) for high-quality vector output"
}

// Render creates an SVG representation of the frame
func (r *SVGRenderer) Render(frame layout.Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	colors := paletteFor(options)
	vp := fit(frame, options.Width, options.Height, options.Margin)
	idx := frame.Index()

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, colors.background)

	for _, edge := range frame.Edges {
		si, okS := idx[edge.Source]
		ti, okT := idx[edge.Target]
		if !okS || !okT {
			continue
		}
		x1, y1 := vp.apply(frame.Nodes[si].X, frame.Nodes[si].Y)
		x2, y2 := vp.apply(frame.Nodes[ti].X, frame.Nodes[ti].Y)
		fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"/>
`, x1, y1, x2, y2, colors.edge, options.EdgeWidth)

		if options.ShowEdgeLabels && edge.Label != "" {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="%s" text-anchor="middle">%s</text>
`, (x1+x2)/2, (y1+y2)/2, options.FontSize, colors.edge, html.EscapeString(edge.Label))
		}
	}

	for _, node := range frame.Nodes {
		x, y := vp.apply(node.X, node.Y)
		fill := colors.node
		if node.Anchor {
			fill = colors.anchor
		}
		fmt.Fprintf(&buf, `<circle id="%s" cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, html.EscapeString(node.ID), x, y, options.NodeSize, fill)

		if options.ShowLabels {
			label := node.Label
			if label == "" {
				label = node.ID
			}
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="%s" text-anchor="middle">%s</text>
`, x, y+options.NodeSize+options.FontSize+2, options.FontSize, colors.text, html.EscapeString(label))
		}
	}

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, options.Height-5, time.Now().Format("2006-01-02 15:04:05"))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
