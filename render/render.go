// Package render draws layout frames as SVG, ASCII, JSON or Graphviz DOT.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/forcegraph/layout"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format         string  // Output format (svg, ascii, json, dot)
	Width          float64 // Width of the output
	Height         float64 // Height of the output
	Margin         float64 // Space kept free around the drawing
	Background     string  // Background color
	Timestamp      bool    // Include timestamp in visualization
	NodeSize       float64 // Default node size
	EdgeWidth      float64 // Default edge width
	FontSize       float64 // Font size for labels
	ShowLabels     bool    // Show node labels
	ShowEdgeLabels bool    // Show edge labels
	ColorScheme    string  // Color scheme (default, light, dark)
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the frame using the provided options
	Render(frame layout.Frame, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Width:      800,
		Height:     600,
		Margin:     40,
		Background: "#f8f8f8",
		NodeSize:   8.0,
		EdgeWidth:  1.0,
		FontSize:   10.0,
		ShowLabels: true,
	}
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{"svg", "ascii", "json", "dot"}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Render draws frame with the renderer named by options.Format.
func Render(frame layout.Frame, options *OutputOptions) ([]byte, error) {
	r, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	return r.Render(frame, options)
}

type palette struct {
	background string
	node       string
	anchor     string
	edge       string
	text       string
}

var palettes = map[string]palette{
	"default": {background: "", node: "#4285F4", anchor: "#DB4437", edge: "#666666", text: "#333333"},
	"light":   {background: "#ffffff", node: "#5c6bc0", anchor: "#ef6c00", edge: "#9e9e9e", text: "#212121"},
	"dark":    {background: "#1e1e1e", node: "#82aaff", anchor: "#f78c6c", edge: "#5c6370", text: "#d4d4d4"},
}

func paletteFor(options *OutputOptions) palette {
	p, ok := palettes[options.ColorScheme]
	if !ok {
		p = palettes["default"]
	}
	if p.background == "" {
		p.background = options.Background
	}
	return p
}

// viewport maps simulation coordinates onto a width x height canvas,
// preserving aspect ratio and centering the drawing.
type viewport struct {
	scale      float64
	offX, offY float64
	cx, cy     float64
}

func fit(frame layout.Frame, width, height, margin float64) viewport {
	minX, minY, maxX, maxY := frame.Bounds()
	spanX, spanY := maxX-minX, maxY-minY
	availX := math.Max(width-2*margin, 1)
	availY := math.Max(height-2*margin, 1)

	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(availX/spanX, availY/spanY)
	case spanX > 0:
		scale = availX / spanX
	case spanY > 0:
		scale = availY / spanY
	}

	return viewport{
		scale: scale,
		offX:  width / 2,
		offY:  height / 2,
		cx:    (minX + maxX) / 2,
		cy:    (minY + maxY) / 2,
	}
}

func (v viewport) apply(x, y float64) (float64, float64) {
	return (x-v.cx)*v.scale + v.offX, (y-v.cy)*v.scale + v.offY
}
