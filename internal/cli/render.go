package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/layout"
	"github.com/TFMV/forcegraph/render"
)

type renderOpts struct {
	sim    simFlags
	output string
	format string
	width  float64
	height float64
	scheme string
	labels bool
	stamp  bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <topology>",
		Short: "Lay out a topology file and write the result",
		Long: `Render loads a JSON, YAML or TOML topology, runs the simulation until it
settles or the step limit is reached, and writes the layout.

Supported formats: ` + strings.Join(render.Formats(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], &opts)
		},
	}

	opts.sim.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (defaults to the output extension, then config)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "output width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "output height")
	cmd.Flags().StringVar(&opts.scheme, "scheme", "", "color scheme (default, light, dark)")
	cmd.Flags().BoolVar(&opts.labels, "labels", true, "draw node labels")
	cmd.Flags().BoolVar(&opts.stamp, "timestamp", false, "include a timestamp")

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	if err := opts.sim.apply(cmd, cfg); err != nil {
		return err
	}

	prog := newProgress(logger)
	g, err := ingest.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded topology", "graph", g.Name, "nodes", len(g.Nodes), "edges", len(g.Edges))

	sessOpts := sessionOptions(cfg)
	sessOpts.Logger = logger
	sess := layout.NewSession(sessOpts)
	if err := sess.Sync(g); err != nil {
		if !errors.Is(err, graph.ErrCapacity) {
			return err
		}
		logger.Warnf("only the first %d nodes are laid out", graph.MaxNodes)
	}

	steps, err := sess.Settle(ctx, cfg.Simulation.Steps, cfg.Simulation.DT, cfg.Simulation.Threshold)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes in %d steps", sess.Len(), steps))

	options := renderOptions(cfg.Render.Format, opts)
	options.Width = firstPositive(opts.width, cfg.Render.Width)
	options.Height = firstPositive(opts.height, cfg.Render.Height)
	if cmd.Flags().Changed("scheme") {
		options.ColorScheme = opts.scheme
	} else {
		options.ColorScheme = cfg.Render.ColorScheme
	}
	if cmd.Flags().Changed("labels") {
		options.ShowLabels = opts.labels
	} else {
		options.ShowLabels = cfg.Render.Labels
	}
	options.Timestamp = opts.stamp

	out, err := render.Render(sess.Frame(), options)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("Wrote layout", "file", opts.output, "format", options.Format)
	return nil
}

// renderOptions picks the format from the flag, the output extension or the
// config, in that order.
func renderOptions(fallback string, opts *renderOpts) *render.OutputOptions {
	format := opts.format
	if format == "" && opts.output != "" {
		if i := strings.LastIndex(opts.output, "."); i >= 0 {
			ext := strings.ToLower(opts.output[i+1:])
			if ext == "txt" {
				ext = "ascii"
			}
			if _, err := render.GetRenderer(ext); err == nil {
				format = ext
			}
		}
	}
	if format == "" {
		format = fallback
	}
	return render.NewDefaultOptions(format)
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
