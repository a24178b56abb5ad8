// Package physics implements the force-directed layout engine: a pure force
// model (repulsion between every pair of nodes, spring attraction along
// edges), a damped integrator and the ForceGraph facade that runs one
// simulation step per rendered frame.
//
// A ForceGraph is owned by a single goroutine. Callers that mutate topology
// from elsewhere must hand the mutations to the owner and apply them between
// steps.
package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/graph"
)

// ForceGraph is a graph whose node positions are driven by the simulation.
type ForceGraph[N, E any] struct {
	Parameters Parameters

	store *graph.Store[N, E]
}

// NewForceGraph creates an empty simulation using the given parameters.
func NewForceGraph[N, E any](params Parameters) *ForceGraph[N, E] {
	return &ForceGraph[N, E]{
		Parameters: params,
		store:      graph.New[N, E](),
	}
}

// Step advances the simulation by dt seconds.
//
// Nodes are visited in ascending identity order. Each node first pulls itself
// towards its neighbours, then exchanges repulsion with every node after it
// in the order, and is integrated before the next node is visited. Attraction
// is applied to the visited node only; its neighbour pulls back on its own
// turn.
func (g *ForceGraph[N, E]) Step(dt float64) {
	if g.store.Len() == 0 || dt < 0 {
		return
	}

	ids := g.store.NodeIDs()
	for i, aID := range ids {
		a, _ := g.store.Node(aID)

		neighbors, _ := g.store.Neighbors(aID)
		for _, bID := range neighbors {
			if bID == aID {
				continue
			}
			b, _ := g.store.Node(bID)
			f := Attract(BodyOf(a), BodyOf(b), g.Parameters)
			a.Force = r2.Add(a.Force, f)
		}

		for _, bID := range ids[i+1:] {
			b, _ := g.store.Node(bID)
			f := Repel(BodyOf(a), BodyOf(b), g.Parameters)
			if !a.Anchor {
				a.Force = r2.Add(a.Force, f)
			}
			if !b.Anchor {
				b.Force = r2.Sub(b.Force, f)
			}
		}

		Integrate(a, dt, g.Parameters)
	}
}

// KineticEnergy returns the total kinetic energy of the free nodes.
func (g *ForceGraph[N, E]) KineticEnergy() float64 {
	var e float64
	g.store.VisitNodes(func(n graph.Node[N]) {
		if n.Anchor {
			return
		}
		e += 0.5 * n.Mass * r2.Dot(n.Velocity, n.Velocity)
	})
	return e
}

// AddNode inserts a node.
func (g *ForceGraph[N, E]) AddNode(data graph.NodeData[N]) (graph.NodeID, error) {
	return g.store.AddNode(data)
}

// RemoveNode removes a node and its edges. It does nothing if id is absent.
func (g *ForceGraph[N, E]) RemoveNode(id graph.NodeID) {
	g.store.RemoveNode(id)
}

// AddEdge connects two nodes or replaces the payload of their edge.
func (g *ForceGraph[N, E]) AddEdge(a, b graph.NodeID, data E) error {
	return g.store.AddEdge(a, b, data)
}

// RemoveEdge disconnects two nodes. It does nothing if they are not connected.
func (g *ForceGraph[N, E]) RemoveEdge(a, b graph.NodeID) {
	g.store.RemoveEdge(a, b)
}

// Clear drops every node and edge.
func (g *ForceGraph[N, E]) Clear() {
	g.store.Clear()
}

func (g *ForceGraph[N, E]) ContainsNode(id graph.NodeID) bool {
	return g.store.ContainsNode(id)
}

func (g *ForceGraph[N, E]) ContainsEdge(a, b graph.NodeID) bool {
	return g.store.ContainsEdge(a, b)
}

// NodeIDs returns the live node identities in ascending order.
func (g *ForceGraph[N, E]) NodeIDs() []graph.NodeID {
	return g.store.NodeIDs()
}

// EdgePairs returns the endpoints of every edge.
func (g *ForceGraph[N, E]) EdgePairs() []graph.Pair {
	return g.store.EdgePairs()
}

func (g *ForceGraph[N, E]) Neighbors(id graph.NodeID) ([]graph.NodeID, error) {
	return g.store.Neighbors(id)
}

// Len returns the number of nodes.
func (g *ForceGraph[N, E]) Len() int { return g.store.Len() }

// EdgeCount returns the number of edges.
func (g *ForceGraph[N, E]) EdgeCount() int { return g.store.EdgeCount() }

// Node returns the node named by id.
func (g *ForceGraph[N, E]) Node(id graph.NodeID) (*graph.Node[N], error) {
	return g.store.Node(id)
}

// Position returns the current position of a node.
func (g *ForceGraph[N, E]) Position(id graph.NodeID) (x, y float64, err error) {
	n, err := g.store.Node(id)
	if err != nil {
		return 0, 0, fmt.Errorf("position: %w", err)
	}
	return n.Pos.X, n.Pos.Y, nil
}

// SetPosition moves a node and stops it.
func (g *ForceGraph[N, E]) SetPosition(id graph.NodeID, x, y float64) error {
	n, err := g.store.Node(id)
	if err != nil {
		return fmt.Errorf("set position: %w", err)
	}
	n.Pos = r2.Vec{X: x, Y: y}
	n.Velocity = r2.Vec{}
	return nil
}

// SetAnchor pins or releases a node.
func (g *ForceGraph[N, E]) SetAnchor(id graph.NodeID, anchor bool) error {
	n, err := g.store.Node(id)
	if err != nil {
		return fmt.Errorf("set anchor: %w", err)
	}
	n.Anchor = anchor
	if anchor {
		n.Velocity = r2.Vec{}
	}
	return nil
}

// SetMass changes the mass of a node.
func (g *ForceGraph[N, E]) SetMass(id graph.NodeID, mass float64) error {
	n, err := g.store.Node(id)
	if err != nil {
		return fmt.Errorf("set mass: %w", err)
	}
	n.Mass = mass
	return nil
}

// VisitNodes calls fn with a copy of every node.
func (g *ForceGraph[N, E]) VisitNodes(fn func(graph.Node[N])) {
	g.store.VisitNodes(fn)
}

// VisitNodesMut calls fn with every node.
func (g *ForceGraph[N, E]) VisitNodesMut(fn func(*graph.Node[N])) {
	g.store.VisitNodesMut(fn)
}

// VisitEdges calls fn with the endpoints and payload of every edge.
func (g *ForceGraph[N, E]) VisitEdges(fn func(a, b graph.Node[N], data E)) {
	g.store.VisitEdges(fn)
}
