package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func body(x, y float64) Body {
	return Body{Pos: r2.Vec{X: x, Y: y}, Mass: 10}
}

func TestRepel(t *testing.T) {
	p := DefaultParameters()

	f := Repel(body(0, 0), body(10, 0), p)
	assert.InDelta(t, -12000.0, f.X, 1e-9)
	assert.Zero(t, f.Y)

	// Opposite pair gets the mirrored force.
	g := Repel(body(10, 0), body(0, 0), p)
	assert.InDelta(t, -f.X, g.X, 1e-9)
}

func TestRepelFallsOffWithDistance(t *testing.T) {
	p := DefaultParameters()
	prev := r2.Norm(Repel(body(0, 0), body(0.5, 0), p))
	for d := 1.0; d <= 500; d += 0.5 {
		mag := r2.Norm(Repel(body(0, 0), body(d, d/3), p))
		assert.Less(t, mag, prev, "distance %v", d)
		prev = mag
	}
}

func TestRepelScalesWithMass(t *testing.T) {
	p := DefaultParameters()
	light := Repel(body(0, 0), body(0, 20), p)
	heavy := Repel(Body{Mass: 20}, body(0, 20), p)
	assert.InDelta(t, 2*light.Y, heavy.Y, 1e-9)
}

func TestAttract(t *testing.T) {
	p := DefaultParameters()

	f := Attract(body(0, 0), body(10, 0), p)
	assert.InDelta(t, 1.5, f.X, 1e-9)
	assert.Zero(t, f.Y)

	f = Attract(body(0, 0), body(0, -20), p)
	assert.InDelta(t, -3.0, f.Y, 1e-9)
}

func TestAttractGrowsWithDistance(t *testing.T) {
	p := DefaultParameters()
	prev := 0.0
	for d := 1.0; d <= 500; d += 5 {
		mag := r2.Norm(Attract(body(0, 0), body(d, -d), p))
		assert.Greater(t, mag, prev, "distance %v", d)
		prev = mag
	}
}

func TestCoincidentNodes(t *testing.T) {
	p := DefaultParameters()

	f := Repel(body(3, 3), body(3, 3), p)
	assert.InDelta(t, -12000.0*100, f.X, 1e-6)
	assert.Zero(t, f.Y)

	a := Attract(body(3, 3), body(3, 3), p)
	assert.InDelta(t, 0.15, a.X, 1e-9)
	assert.Zero(t, a.Y)
}
