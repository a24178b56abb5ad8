package models

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

// NewNode creates a node without a position; the layout places it.
func NewNode(id, label string) *Node {
	return &Node{
		ID:        id,
		Label:     label,
		UpdatedAt: time.Now(),
	}
}

// NewNodeAt creates a node with a starting position.
func NewNodeAt(id, label string, x, y float64) *Node {
	n := NewNode(id, label)
	n.X, n.Y, n.Placed = x, y, true
	return n
}

// NewEdge creates a new edge with a unique ID
func NewEdge(source, target, label string) *Edge {
	return &Edge{
		ID:     uuid.New().String(),
		Source: source,
		Target: target,
		Label:  label,
	}
}

// SetPosition sets the position of a node
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.Placed = true
	n.UpdatedAt = time.Now()
}

// Connects reports whether the edge joins a and b in either direction.
func (e *Edge) Connects(a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}

// NewGraph creates a new graph with a unique ID and timestamps
func NewGraph(name string) *Graph {
	now := time.Now()
	return &Graph{
		ID:        uuid.New().String(),
		Name:      name,
		Nodes:     []Node{},
		Edges:     []Edge{},
		Width:     800, // Default width
		Height:    600, // Default height
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddNode adds a node to the graph, replacing any node with the same ID
func (g *Graph) AddNode(node *Node) error {
	if node.ID == "" {
		return fmt.Errorf("node ID must not be empty")
	}
	for i := range g.Nodes {
		if g.Nodes[i].ID == node.ID {
			g.Nodes[i] = *node
			g.UpdatedAt = time.Now()
			return nil
		}
	}
	g.Nodes = append(g.Nodes, *node)
	g.UpdatedAt = time.Now()
	return nil
}

// AddEdge adds an edge to the graph. An edge joining the same pair of nodes
// as an existing one replaces it.
func (g *Graph) AddEdge(edge *Edge) error {
	if _, err := g.FindNodeByID(edge.Source); err != nil {
		return fmt.Errorf("source node with ID %s does not exist in the graph", edge.Source)
	}
	if _, err := g.FindNodeByID(edge.Target); err != nil {
		return fmt.Errorf("target node with ID %s does not exist in the graph", edge.Target)
	}
	if edge.ID == "" {
		edge.ID = uuid.New().String()
	}

	for i := range g.Edges {
		if g.Edges[i].Connects(edge.Source, edge.Target) {
			g.Edges[i] = *edge
			g.UpdatedAt = time.Now()
			return nil
		}
	}
	g.Edges = append(g.Edges, *edge)
	g.UpdatedAt = time.Now()
	return nil
}

// RemoveNode removes a node and all connected edges from the graph
func (g *Graph) RemoveNode(nodeID string) {
	var newNodes []Node
	for _, node := range g.Nodes {
		if node.ID != nodeID {
			newNodes = append(newNodes, node)
		}
	}
	g.Nodes = newNodes

	var newEdges []Edge
	for _, edge := range g.Edges {
		if edge.Source != nodeID && edge.Target != nodeID {
			newEdges = append(newEdges, edge)
		}
	}
	g.Edges = newEdges

	g.UpdatedAt = time.Now()
}

// RemoveEdge removes the edge joining source and target, in either direction
func (g *Graph) RemoveEdge(source, target string) {
	var newEdges []Edge
	for _, edge := range g.Edges {
		if !edge.Connects(source, target) {
			newEdges = append(newEdges, edge)
		}
	}
	g.Edges = newEdges
	g.UpdatedAt = time.Now()
}

// SetDimensions sets the width and height of the graph
func (g *Graph) SetDimensions(width, height float64) {
	g.Width = width
	g.Height = height
	g.UpdatedAt = time.Now()
}

// Clone returns a deep copy of the graph. Property maps are copied one level
// deep.
func (g *Graph) Clone() *Graph {
	c := *g
	c.Nodes = make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		n.Properties = maps.Clone(n.Properties)
		c.Nodes[i] = n
	}
	c.Edges = make([]Edge, len(g.Edges))
	for i, e := range g.Edges {
		e.Properties = maps.Clone(e.Properties)
		c.Edges[i] = e
	}
	return &c
}
