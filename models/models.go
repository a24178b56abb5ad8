// Package models provides the topology document that feeds the layout engine.
// It is the collaborator-side view of the graph: nodes keyed by external
// string identifiers, with optional starting coordinates and physical hints.
package models

import (
	"time"
)

// Node represents a node in the topology
type Node struct {
	ID         string         `json:"id"`
	Label      string         `json:"label,omitempty"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Placed     bool           `json:"placed,omitempty"` // X and Y were supplied
	Mass       float64        `json:"mass,omitempty"`
	Anchor     bool           `json:"anchor,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Edge represents an undirected link between two nodes
type Edge struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"` // ID of one endpoint
	Target     string         `json:"target"` // ID of the other endpoint
	Label      string         `json:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Graph represents a collection of nodes and edges
type Graph struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
