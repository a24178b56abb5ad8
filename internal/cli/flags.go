package cli

import (
	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/config"
	"github.com/TFMV/forcegraph/layout"
)

// simFlags are the simulation flags shared by every command.
type simFlags struct {
	preset    string
	dt        float64
	steps     int
	threshold float64
	seed      int64
	charge    float64
	spring    float64
	damping   float64
}

func (f *simFlags) register(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVar(&f.preset, "preset", "", "physics preset (default, relaxed)")
	cmd.Flags().Float64Var(&f.dt, "dt", d.Simulation.DT, "time step per simulation step in seconds")
	cmd.Flags().IntVar(&f.steps, "steps", d.Simulation.Steps, "maximum number of steps")
	cmd.Flags().Float64Var(&f.threshold, "threshold", d.Simulation.Threshold, "stop once kinetic energy drops below this")
	cmd.Flags().Int64Var(&f.seed, "seed", d.Simulation.Seed, "seed for placing nodes without a position")
	cmd.Flags().Float64Var(&f.charge, "charge", d.Physics.ForceCharge, "repulsion constant")
	cmd.Flags().Float64Var(&f.spring, "spring", d.Physics.ForceSpring, "spring constant")
	cmd.Flags().Float64Var(&f.damping, "damping", d.Physics.DampingFactor, "velocity damping per step (0,1]")
}

// apply overrides cfg with the flags the user set. A preset is applied
// before individual physics flags.
func (f *simFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("preset") {
		if err := cfg.ApplyPreset(f.preset); err != nil {
			return err
		}
	}
	if changed("dt") {
		cfg.Simulation.DT = f.dt
	}
	if changed("steps") {
		cfg.Simulation.Steps = f.steps
	}
	if changed("threshold") {
		cfg.Simulation.Threshold = f.threshold
	}
	if changed("seed") {
		cfg.Simulation.Seed = f.seed
	}
	if changed("charge") {
		cfg.Physics.ForceCharge = f.charge
	}
	if changed("spring") {
		cfg.Physics.ForceSpring = f.spring
	}
	if changed("damping") {
		cfg.Physics.DampingFactor = f.damping
	}
	return cfg.Validate()
}

func sessionOptions(cfg *config.Config) layout.Options {
	return layout.Options{
		Parameters:    cfg.Physics,
		Seed:          cfg.Simulation.Seed,
		ScatterRadius: cfg.Simulation.ScatterRadius,
	}
}
