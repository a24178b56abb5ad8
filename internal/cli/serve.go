package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/layout"
	"github.com/TFMV/forcegraph/metrics"
	"github.com/TFMV/forcegraph/server"
)

func newServeCmd() *cobra.Command {
	var (
		sim  simFlags
		port int
		fps  int
	)

	cmd := &cobra.Command{
		Use:   "serve [topology]",
		Short: "Run a live layout behind an HTTP API",
		Long:  `Serve steps the simulation continuously and exposes the current frame as JSON, SVG, ASCII and DOT. Nodes and edges can be added and removed while it runs.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if err := sim.apply(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("fps") {
				cfg.Server.FPS = fps
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			reg := metrics.DefaultRegistry()
			opts := sessionOptions(cfg)
			opts.Logger = logger
			opts.Metrics = reg
			sess := layout.NewSession(opts)

			if len(args) == 1 {
				g, err := ingest.LoadFile(args[0])
				if err != nil {
					return err
				}
				if err := sess.Sync(g); err != nil && !errors.Is(err, graph.ErrCapacity) {
					return err
				}
			}

			runner := layout.NewRunner(sess, cfg.Server.FPS, cfg.Simulation.DT)
			srv := server.New(server.Config{
				Port:   cfg.Server.Port,
				Width:  cfg.Render.Width,
				Height: cfg.Render.Height,
			}, runner, reg, logger)

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			runErr := make(chan error, 1)
			go func() { runErr <- runner.Run(ctx) }()

			err := srv.Start(ctx)
			cancel()
			if rerr := <-runErr; err == nil {
				err = rerr
			}
			return err
		},
	}

	sim.register(cmd)
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	cmd.Flags().IntVar(&fps, "fps", 30, "simulation steps per second")
	return cmd
}
