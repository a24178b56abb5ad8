package models

import (
	"fmt"
)

// FindNodeByID returns a node by its ID
func (g *Graph) FindNodeByID(id string) (*Node, error) {
	for i, node := range g.Nodes {
		if node.ID == id {
			return &g.Nodes[i], nil
		}
	}
	return nil, fmt.Errorf("node with ID %s not found", id)
}

// FindEdge returns the edge joining a and b in either direction
func (g *Graph) FindEdge(a, b string) (*Edge, error) {
	for i := range g.Edges {
		if g.Edges[i].Connects(a, b) {
			return &g.Edges[i], nil
		}
	}
	return nil, fmt.Errorf("edge between %s and %s not found", a, b)
}

// FindConnectedNodes returns all nodes directly connected to a node
func (g *Graph) FindConnectedNodes(nodeID string) []Node {
	var result []Node
	nodeMap := make(map[string]bool)

	for _, edge := range g.Edges {
		if edge.Source == nodeID {
			nodeMap[edge.Target] = true
		}
		if edge.Target == nodeID {
			nodeMap[edge.Source] = true
		}
	}

	for _, node := range g.Nodes {
		if nodeMap[node.ID] {
			result = append(result, node)
		}
	}

	return result
}
