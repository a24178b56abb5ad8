package render

import (
	"encoding/json"
	"time"

	"github.com/TFMV/forcegraph/layout"
)

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders layouts as JSON data for machine consumption or custom visualizations"
}

// Render creates a JSON representation of the frame. Coordinates are left
// in simulation space.
func (r *JSONRenderer) Render(frame layout.Frame, options *OutputOptions) ([]byte, error) {
	type jsonGraph struct {
		layout.Frame
		Metadata map[string]any `json:"metadata"`
	}

	out := jsonGraph{
		Frame: frame,
		Metadata: map[string]any{
			"nodeCount": len(frame.Nodes),
			"edgeCount": len(frame.Edges),
		},
	}
	if out.Nodes == nil {
		out.Nodes = []layout.FrameNode{}
	}
	if out.Edges == nil {
		out.Edges = []layout.FrameEdge{}
	}
	if options.Timestamp {
		out.Metadata["timestamp"] = time.Now().Format(time.RFC3339)
	}

	return json.MarshalIndent(out, "", "  ")
}
