package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/graph"
)

// Body is the part of a node the force model reads.
type Body struct {
	Pos  r2.Vec
	Mass float64
}

// BodyOf returns the body of a stored node.
func BodyOf[N any](n *graph.Node[N]) Body {
	return Body{Pos: n.Pos, Mass: n.Mass}
}

// direction returns the unit vector from a to b and the distance between
// them. Coincident points are treated as one unit apart along the x axis.
func direction(a, b r2.Vec) (r2.Vec, float64) {
	d := r2.Sub(b, a)
	if d.X == 0 && d.Y == 0 {
		return r2.Vec{X: 1}, 1
	}
	dist := r2.Norm(d)
	return r2.Scale(1/dist, d), dist
}

// Repel returns the repulsion felt by a from b. The force points from a
// towards b with a negative magnitude, so it pushes a away; b feels the
// negated vector.
func Repel(a, b Body, p Parameters) r2.Vec {
	dir, dist := direction(a.Pos, b.Pos)
	strength := -p.ForceCharge * (a.Mass * b.Mass) / (dist * dist)
	return r2.Scale(strength, dir)
}

// Attract returns the spring pull of a towards b along an edge.
func Attract(a, b Body, p Parameters) r2.Vec {
	dir, dist := direction(a.Pos, b.Pos)
	strength := p.ForceSpring * dist * 0.5
	return r2.Scale(strength, dir)
}
