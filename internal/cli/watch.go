package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/layout"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/render"
)

var (
	colorCyan = lipgloss.Color("#00D7D7")
	colorDim  = lipgloss.Color("#6C6C6C")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleStatus = lipgloss.NewStyle().Foreground(colorDim)
	styleFrame  = lipgloss.NewStyle()
)

func newWatchCmd() *cobra.Command {
	var (
		sim simFlags
		fps int
	)

	cmd := &cobra.Command{
		Use:   "watch <topology>",
		Short: "Animate a layout in the terminal",
		Long:  `Watch steps the simulation once per frame and redraws the layout as ASCII art. Press space to pause, r to restart and q to quit.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			if err := sim.apply(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("fps") {
				cfg.Server.FPS = fps
			}

			g, err := ingest.LoadFile(args[0])
			if err != nil {
				return err
			}

			m, err := newWatchModel(g, sessionOptions(cfg), cfg.Simulation.DT, cfg.Server.FPS)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}

	sim.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	return cmd
}

type tickMsg time.Time

// watchModel owns its session; bubbletea calls Update from one goroutine.
type watchModel struct {
	topology *models.Graph
	opts     layout.Options
	session  *layout.Session
	dt       float64
	interval time.Duration

	width, height int
	paused        bool
	steps         int
	warning       string
}

func newWatchModel(g *models.Graph, opts layout.Options, dt float64, fps int) (watchModel, error) {
	if fps <= 0 {
		fps = 30
	}
	m := watchModel{
		topology: g,
		opts:     opts,
		dt:       dt,
		interval: time.Second / time.Duration(fps),
		width:    80,
		height:   24,
	}
	if err := m.reset(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *watchModel) reset() error {
	m.session = layout.NewSession(m.opts)
	m.steps = 0
	m.warning = ""
	if err := m.session.Sync(m.topology); err != nil {
		if !errors.Is(err, graph.ErrCapacity) {
			return err
		}
		m.warning = fmt.Sprintf("showing the first %d nodes", graph.MaxNodes)
	}
	return nil
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			if err := m.reset(); err != nil {
				m.warning = err.Error()
			}
		case "n":
			if m.paused {
				m.session.Step(m.dt)
				m.steps++
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if !m.paused {
			m.session.Step(m.dt)
			m.steps++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(m.topology.Name))
	b.WriteString("\n")

	gridW := max(m.width, 20)
	gridH := max(m.height-3, 10)
	b.WriteString(styleFrame.Render(strings.TrimSuffix(render.Grid(m.session.Frame(), gridW, gridH, true, false), "\n")))
	b.WriteString("\n")

	state := "running"
	if m.paused {
		state = "paused"
	}
	status := fmt.Sprintf("%s  step %d  nodes %d  edges %d  energy %.3f  space pause  n step  r restart  q quit",
		state, m.steps, m.session.Len(), m.session.EdgeCount(), m.session.KineticEnergy())
	if m.warning != "" {
		status += "  " + m.warning
	}
	b.WriteString(styleStatus.Render(status))
	return b.String()
}
