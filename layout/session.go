// Package layout keeps a force simulation in step with a models.Graph.
//
// A Session maps the graph's string node IDs onto engine identities,
// reconciles topology changes and exposes immutable Frame snapshots for
// renderers. A Session is not safe for concurrent use; Runner owns one on a
// dedicated goroutine for live use.
package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/metrics"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
)

// DefaultScatterRadius bounds the starting positions of unplaced nodes.
const DefaultScatterRadius = 200.0

// Options configures a Session.
type Options struct {
	Parameters physics.Parameters
	// Seed drives the placement of nodes that arrive without a position.
	Seed          int64
	ScatterRadius float64
	Logger        *log.Logger
	// Metrics is optional.
	Metrics *metrics.Registry
}

// Session is a simulation bound to a topology.
type Session struct {
	sim     *physics.ForceGraph[string, models.Edge]
	ids     map[string]graph.NodeID
	labels  map[string]string
	source  *models.Graph
	scatter *physics.Scatter
	logger  *log.Logger
	metrics *metrics.Registry
}

// NewSession creates a session with an empty topology.
func NewSession(opts Options) *Session {
	if opts.ScatterRadius <= 0 {
		opts.ScatterRadius = DefaultScatterRadius
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Session{
		sim:     physics.NewForceGraph[string, models.Edge](opts.Parameters),
		ids:     make(map[string]graph.NodeID),
		labels:  make(map[string]string),
		source:  models.NewGraph("layout"),
		scatter: physics.NewScatter(opts.Seed, opts.ScatterRadius, 0, 0),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Topology returns a copy of the graph the session is bound to.
func (s *Session) Topology() *models.Graph { return s.source.Clone() }

// Parameters returns the live simulation parameters.
func (s *Session) Parameters() *physics.Parameters { return &s.sim.Parameters }

// Len returns the number of simulated nodes.
func (s *Session) Len() int { return s.sim.Len() }

// EdgeCount returns the number of simulated edges.
func (s *Session) EdgeCount() int { return s.sim.EdgeCount() }

// KineticEnergy returns the kinetic energy of the free nodes.
func (s *Session) KineticEnergy() float64 { return s.sim.KineticEnergy() }

// Sync reconciles the simulation with g. Nodes and edges missing from the
// simulation are added, and those no longer in g are removed. Surviving nodes
// keep their simulated position but take g's mass and anchor flag.
//
// The session keeps its own copy of g; later changes to g are not seen and
// session mutations never reach it.
//
// Self-loops and edges naming unknown nodes are skipped. When the engine runs
// out of identities the remaining nodes are left out and an error wrapping
// graph.ErrCapacity is returned after the rest of the reconciliation is done.
func (s *Session) Sync(g *models.Graph) error {
	var added, removed, updated, edgesAdded, edgesRemoved int
	var capErr error

	want := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		want[n.ID] = true
	}
	for id, nid := range s.ids {
		if !want[id] {
			s.sim.RemoveNode(nid)
			delete(s.ids, id)
			delete(s.labels, id)
			removed++
		}
	}

	for _, n := range g.Nodes {
		mass := n.Mass
		if mass <= 0 {
			mass = graph.DefaultMass
		}
		s.labels[n.ID] = n.Label

		if nid, ok := s.ids[n.ID]; ok {
			node, err := s.sim.Node(nid)
			if err != nil {
				return fmt.Errorf("sync node %s: %w", n.ID, err)
			}
			if node.Mass != mass || node.Anchor != n.Anchor {
				if err := s.sim.SetMass(nid, mass); err != nil {
					return fmt.Errorf("sync node %s: %w", n.ID, err)
				}
				if err := s.sim.SetAnchor(nid, n.Anchor); err != nil {
					return fmt.Errorf("sync node %s: %w", n.ID, err)
				}
				updated++
			}
			continue
		}
		if capErr != nil {
			delete(s.labels, n.ID)
			continue
		}

		x, y := n.X, n.Y
		if !n.Placed {
			x, y = s.scatter.Place(n.ID)
		}
		nid, err := s.sim.AddNode(graph.NodeData[string]{
			X: x, Y: y, Mass: mass, Anchor: n.Anchor, Data: n.ID,
		})
		if err != nil {
			capErr = fmt.Errorf("sync node %s: %w", n.ID, err)
			delete(s.labels, n.ID)
			continue
		}
		s.ids[n.ID] = nid
		added++
	}

	type pairKey struct{ lo, hi graph.NodeID }
	keyOf := func(a, b graph.NodeID) pairKey {
		if a > b {
			a, b = b, a
		}
		return pairKey{a, b}
	}

	wantEdges := make(map[pairKey]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.Source == e.Target {
			continue
		}
		a, okA := s.ids[e.Source]
		b, okB := s.ids[e.Target]
		if !okA || !okB {
			continue
		}
		wantEdges[keyOf(a, b)] = true
		if !s.sim.ContainsEdge(a, b) {
			edgesAdded++
		}
		if err := s.sim.AddEdge(a, b, e); err != nil {
			return fmt.Errorf("sync edge %s-%s: %w", e.Source, e.Target, err)
		}
	}
	for _, p := range s.sim.EdgePairs() {
		if !wantEdges[keyOf(p.A, p.B)] {
			s.sim.RemoveEdge(p.A, p.B)
			edgesRemoved++
		}
	}

	if g != s.source {
		s.source = g.Clone()
	}

	if s.metrics != nil {
		s.metrics.RecordSync("add_node", added)
		s.metrics.RecordSync("remove_node", removed)
		s.metrics.RecordSync("update_node", updated)
		s.metrics.RecordSync("add_edge", edgesAdded)
		s.metrics.RecordSync("remove_edge", edgesRemoved)
		s.metrics.UpdateGraph(s.sim.Len(), s.sim.EdgeCount())
	}
	s.logger.Debug("synced topology",
		"graph", g.Name,
		"nodes", s.sim.Len(),
		"edges", s.sim.EdgeCount(),
		"added", added,
		"removed", removed,
		"edges_added", edgesAdded,
		"edges_removed", edgesRemoved,
	)

	if capErr != nil {
		s.logger.Warn("node capacity exhausted", "limit", graph.MaxNodes, "err", capErr)
	}
	return capErr
}

// AddNode adds or replaces a node in the topology and syncs.
func (s *Session) AddNode(n *models.Node) error {
	if err := s.source.AddNode(n); err != nil {
		return err
	}
	return s.Sync(s.source)
}

// RemoveNode removes a node and its edges from the topology and syncs.
func (s *Session) RemoveNode(id string) error {
	if _, err := s.source.FindNodeByID(id); err != nil {
		return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	s.source.RemoveNode(id)
	return s.Sync(s.source)
}

// AddEdge adds an edge to the topology and syncs.
func (s *Session) AddEdge(e *models.Edge) error {
	if err := s.source.AddEdge(e); err != nil {
		return fmt.Errorf("%w: %w", graph.ErrNodeNotFound, err)
	}
	return s.Sync(s.source)
}

// RemoveEdge removes the edge joining source and target and syncs.
func (s *Session) RemoveEdge(source, target string) error {
	if _, err := s.source.FindEdge(source, target); err != nil {
		return fmt.Errorf("%w: %s-%s", graph.ErrEdgeNotFound, source, target)
	}
	s.source.RemoveEdge(source, target)
	return s.Sync(s.source)
}

// Step advances the simulation by dt seconds.
func (s *Session) Step(dt float64) {
	start := time.Now()
	s.sim.Step(dt)
	if s.metrics != nil {
		s.metrics.RecordStep(time.Since(start), s.sim.KineticEnergy())
	}
}

// Settle steps until the kinetic energy drops below threshold, steps have
// run or ctx is done. It returns the number of steps taken.
func (s *Session) Settle(ctx context.Context, steps int, dt, threshold float64) (int, error) {
	start := time.Now()
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		s.Step(dt)
		if e := s.sim.KineticEnergy(); e < threshold {
			s.logger.Debug("layout settled", "steps", i+1, "energy", e, "elapsed", time.Since(start))
			return i + 1, nil
		}
	}
	s.logger.Debug("step limit reached", "steps", steps, "energy", s.sim.KineticEnergy(), "elapsed", time.Since(start))
	return steps, nil
}

// Position returns the simulated position of the node with the given ID.
func (s *Session) Position(id string) (x, y float64, err error) {
	nid, ok := s.ids[id]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	return s.sim.Position(nid)
}

// Pin moves a node and anchors it in place.
func (s *Session) Pin(id string, x, y float64) error {
	nid, ok := s.ids[id]
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	if err := s.sim.SetPosition(nid, x, y); err != nil {
		return err
	}
	if n, err := s.source.FindNodeByID(id); err == nil {
		n.Anchor = true
		n.SetPosition(x, y)
	}
	return s.sim.SetAnchor(nid, true)
}

// Apply writes simulated positions back to the nodes of g. Nodes the session
// does not know are left alone.
func (s *Session) Apply(g *models.Graph) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		x, y, err := s.Position(n.ID)
		if errors.Is(err, graph.ErrNodeNotFound) {
			continue
		}
		n.SetPosition(x, y)
	}
}

// Frame returns a snapshot of the current layout.
func (s *Session) Frame() Frame {
	f := Frame{
		Name:   s.source.Name,
		Width:  s.source.Width,
		Height: s.source.Height,
		Energy: s.sim.KineticEnergy(),
		Nodes:  make([]FrameNode, 0, s.sim.Len()),
		Edges:  make([]FrameEdge, 0, s.sim.EdgeCount()),
	}
	s.sim.VisitNodes(func(n graph.Node[string]) {
		f.Nodes = append(f.Nodes, FrameNode{
			ID:     n.Data,
			Label:  s.labels[n.Data],
			X:      n.X(),
			Y:      n.Y(),
			Anchor: n.Anchor,
		})
	})
	s.sim.VisitEdges(func(a, b graph.Node[string], e models.Edge) {
		f.Edges = append(f.Edges, FrameEdge{Source: a.Data, Target: b.Data, Label: e.Label})
	})
	return f
}
