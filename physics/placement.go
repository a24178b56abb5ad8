package physics

import (
	"hash/fnv"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Scatter picks starting positions for nodes that arrive without one.
// Positions are derived from OpenSimplex noise sampled at a point hashed
// from the node key, so the same key and seed always land on the same spot
// inside a disc of the configured radius.
type Scatter struct {
	noise   opensimplex.Noise
	radius  float64
	centerX float64
	centerY float64
}

// NewScatter creates a scatter over a disc of radius around (cx, cy).
func NewScatter(seed int64, radius, cx, cy float64) *Scatter {
	return &Scatter{
		noise:   opensimplex.NewNormalized(seed),
		radius:  radius,
		centerX: cx,
		centerY: cy,
	}
}

// Place returns the starting position for key.
func (s *Scatter) Place(key string) (x, y float64) {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()

	// Sample far apart in noise space so nearby keys decorrelate.
	u := float64(sum&0xffff) * 0.173
	v := float64((sum>>16)&0xffff) * 0.131

	angle := s.noise.Eval2(u, v) * 2 * math.Pi
	t := math.Max(0, math.Min(1, s.noise.Eval2(v+517.3, u+91.7)))
	r := s.radius * math.Sqrt(t)

	return s.centerX + r*math.Cos(angle), s.centerY + r*math.Sin(angle)
}
