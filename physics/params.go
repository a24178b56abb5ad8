package physics

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Parameters are the global constants of the simulation. They apply
// uniformly to every node; per-node variation comes from mass and the
// anchor flag only.
type Parameters struct {
	// ForceCharge scales the repulsion between every pair of nodes.
	ForceCharge float64 `json:"force_charge" yaml:"force_charge" toml:"force_charge" validate:"gte=0"`
	// ForceSpring scales the attraction along edges.
	ForceSpring float64 `json:"force_spring" yaml:"force_spring" toml:"force_spring" validate:"gte=0"`
	// ForceMax clamps each axis of a node's accumulated force.
	ForceMax float64 `json:"force_max" yaml:"force_max" toml:"force_max" validate:"gt=0"`
	// NodeSpeed converts force into velocity.
	NodeSpeed float64 `json:"node_speed" yaml:"node_speed" toml:"node_speed" validate:"gt=0"`
	// DampingFactor multiplies velocity once per step.
	DampingFactor float64 `json:"damping_factor" yaml:"damping_factor" toml:"damping_factor" validate:"gt=0,lte=1"`
}

// DefaultParameters returns the standard parameter set.
func DefaultParameters() Parameters {
	return Parameters{
		ForceCharge:   12000.0,
		ForceSpring:   0.3,
		ForceMax:      280.0,
		NodeSpeed:     7000.0,
		DampingFactor: 0.95,
	}
}

// RelaxedParameters returns a softer parameter set with weaker forces and
// less damping, suited to slowly changing topologies.
func RelaxedParameters() Parameters {
	return Parameters{
		ForceCharge:   4000.0,
		ForceSpring:   0.1,
		ForceMax:      140.0,
		NodeSpeed:     4000.0,
		DampingFactor: 0.98,
	}
}

// Preset returns a named parameter set.
func Preset(name string) (Parameters, error) {
	switch name {
	case "", "default":
		return DefaultParameters(), nil
	case "relaxed":
		return RelaxedParameters(), nil
	default:
		return Parameters{}, fmt.Errorf("unknown parameter preset: %s", name)
	}
}

// Validate checks that the parameters describe a stable simulation.
func (p Parameters) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid simulation parameters: %w", err)
	}
	return nil
}
