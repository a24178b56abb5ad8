package layout

import "math"

// Frame is an immutable snapshot of a layout. Coordinates are simulation
// space; renderers fit them to their own canvas.
type Frame struct {
	Name   string      `json:"name"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Energy float64     `json:"energy"`
	Nodes  []FrameNode `json:"nodes"`
	Edges  []FrameEdge `json:"edges"`
}

// FrameNode is a positioned node.
type FrameNode struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor bool    `json:"anchor,omitempty"`
}

// FrameEdge joins two nodes by ID.
type FrameEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Bounds returns the bounding box of the frame's nodes. An empty frame has
// zero bounds.
func (f Frame) Bounds() (minX, minY, maxX, maxY float64) {
	if len(f.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range f.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// Index returns the position of each node in f.Nodes keyed by ID.
func (f Frame) Index() map[string]int {
	idx := make(map[string]int, len(f.Nodes))
	for i, n := range f.Nodes {
		idx[n.ID] = i
	}
	return idx
}
