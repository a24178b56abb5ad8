package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/graph"
)

// Integrate advances a node by dt using its accumulated force and resets the
// accumulator. Anchored nodes keep their position and velocity.
func Integrate[N any](n *graph.Node[N], dt float64, p Parameters) {
	if !n.Anchor {
		f := clamp(n.Force, p.ForceMax)
		n.Velocity = r2.Scale(p.DampingFactor, r2.Add(n.Velocity, r2.Scale(dt*p.NodeSpeed, f)))
		n.Pos = r2.Add(n.Pos, r2.Scale(dt, n.Velocity))
	}
	n.Force = r2.Vec{}
}

func clamp(f r2.Vec, limit float64) r2.Vec {
	return r2.Vec{
		X: max(-limit, min(limit, f.X)),
		Y: max(-limit, min(limit, f.Y)),
	}
}
