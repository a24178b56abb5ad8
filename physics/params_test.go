package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Parameters)
		wantErr bool
	}{
		{name: "Default", mutate: func(p *Parameters) {}},
		{name: "NoDamping", mutate: func(p *Parameters) { p.DampingFactor = 1 }},
		{name: "ZeroCharge", mutate: func(p *Parameters) { p.ForceCharge = 0 }},
		{name: "ZeroDamping", mutate: func(p *Parameters) { p.DampingFactor = 0 }, wantErr: true},
		{name: "AmplifyingDamping", mutate: func(p *Parameters) { p.DampingFactor = 1.2 }, wantErr: true},
		{name: "ZeroForceMax", mutate: func(p *Parameters) { p.ForceMax = 0 }, wantErr: true},
		{name: "NegativeSpeed", mutate: func(p *Parameters) { p.NodeSpeed = -1 }, wantErr: true},
		{name: "NegativeSpring", mutate: func(p *Parameters) { p.ForceSpring = -0.1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPreset(t *testing.T) {
	p, err := Preset("")
	require.NoError(t, err)
	assert.Equal(t, DefaultParameters(), p)

	p, err = Preset("relaxed")
	require.NoError(t, err)
	assert.Equal(t, 0.98, p.DampingFactor)
	assert.NoError(t, p.Validate())

	_, err = Preset("bogus")
	assert.Error(t, err)
}

func TestScatter(t *testing.T) {
	s := NewScatter(42, 100, 400, 300)

	x1, y1 := s.Place("router-1")
	x2, y2 := s.Place("router-1")
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)

	keys := []string{"a", "b", "c", "drone-7", "server", "client-12"}
	seen := map[[2]float64]bool{}
	for _, k := range keys {
		x, y := s.Place(k)
		assert.False(t, math.IsNaN(x) || math.IsNaN(y), k)
		assert.LessOrEqual(t, math.Hypot(x-400, y-300), 100.0+1e-9, k)
		seen[[2]float64{x, y}] = true
	}
	assert.Greater(t, len(seen), 1)

	// The same seed reproduces the same placement.
	x3, y3 := NewScatter(42, 100, 400, 300).Place("router-1")
	assert.Equal(t, x1, x3)
	assert.Equal(t, y1, y3)
}
