// Package graph provides the mutable node/edge store used by the layout engine.
//
// Nodes are addressed by small stable identities (NodeID). An identity stays
// valid until its node is removed; removed identities are recycled through a
// free list once the node and every edge touching it are gone. Iteration is
// always in ascending identity order so that callers walking node pairs get a
// reproducible sequence for a given history of insertions and removals.
//
// The store is not safe for concurrent use.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxNodes is the number of nodes that may be live at the same time.
const MaxNodes = 255

// DefaultMass is the mass given to nodes created with NodeAt.
const DefaultMass = 10.0

var (
	// ErrNodeNotFound is returned when an identity does not name a live node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound is returned when no edge joins the requested pair.
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrCapacity is returned by AddNode when MaxNodes nodes are already live.
	ErrCapacity = errors.New("node capacity exhausted")
)

// NodeID identifies a node for as long as it is present in the store.
type NodeID uint8

// NodeData is the caller supplied initial state of a node. A Mass of zero or
// less is stored as DefaultMass.
type NodeData[N any] struct {
	X, Y   float64
	Mass   float64
	Anchor bool
	Data   N
}

// NodeAt returns node data positioned at (x, y) with the default mass.
func NodeAt[N any](x, y float64) NodeData[N] {
	return NodeData[N]{X: x, Y: y, Mass: DefaultMass}
}

// Node is a stored node together with its kinematic state.
type Node[N any] struct {
	Pos      r2.Vec
	Velocity r2.Vec
	// Force accumulates the forces applied during the current step.
	Force  r2.Vec
	Mass   float64
	Anchor bool
	Data   N

	id NodeID
}

// ID returns the identity of the node.
func (n *Node[N]) ID() NodeID { return n.id }

// X returns the horizontal position of the node.
func (n *Node[N]) X() float64 { return n.Pos.X }

// Y returns the vertical position of the node.
func (n *Node[N]) Y() float64 { return n.Pos.Y }

// Edge joins two nodes and carries a payload.
type Edge[E any] struct {
	A, B NodeID
	Data E
}

// Pair is an edge's endpoints as stored.
type Pair struct {
	A, B NodeID
}

type edgeKey struct{ lo, hi NodeID }

func keyOf(a, b NodeID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

type slot[N any] struct {
	node      Node[N]
	live      bool
	neighbors []NodeID // ascending
}

// Store holds nodes and undirected edges.
type Store[N, E any] struct {
	slots []slot[N]
	free  []NodeID
	ids   []NodeID // live identities, ascending
	edges map[edgeKey]*Edge[E]
}

// New creates an empty store.
func New[N, E any]() *Store[N, E] {
	return &Store[N, E]{
		edges: make(map[edgeKey]*Edge[E]),
	}
}

// Len returns the number of live nodes.
func (s *Store[N, E]) Len() int { return len(s.ids) }

// EdgeCount returns the number of edges.
func (s *Store[N, E]) EdgeCount() int { return len(s.edges) }

// AddNode inserts a node and returns its identity.
func (s *Store[N, E]) AddNode(data NodeData[N]) (NodeID, error) {
	if len(s.ids) >= MaxNodes {
		return 0, fmt.Errorf("add node: %w (%d live)", ErrCapacity, len(s.ids))
	}

	var id NodeID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		id = NodeID(len(s.slots))
		s.slots = append(s.slots, slot[N]{})
	}

	mass := data.Mass
	if mass <= 0 {
		mass = DefaultMass
	}
	s.slots[id] = slot[N]{
		live: true,
		node: Node[N]{
			Pos:    r2.Vec{X: data.X, Y: data.Y},
			Mass:   mass,
			Anchor: data.Anchor,
			Data:   data.Data,
			id:     id,
		},
	}
	s.ids = insertSorted(s.ids, id)
	return id, nil
}

// RemoveNode removes a node and every edge touching it. Removing an absent
// node does nothing.
func (s *Store[N, E]) RemoveNode(id NodeID) {
	if !s.ContainsNode(id) {
		return
	}
	for _, nb := range s.slots[id].neighbors {
		delete(s.edges, keyOf(id, nb))
		if nb != id {
			s.slots[nb].neighbors = removeSorted(s.slots[nb].neighbors, id)
		}
	}
	s.slots[id] = slot[N]{}
	s.ids = removeSorted(s.ids, id)
	s.free = append(s.free, id)
}

// AddEdge connects a and b, replacing the payload if they are already
// connected. Self-loops are stored.
func (s *Store[N, E]) AddEdge(a, b NodeID, data E) error {
	if !s.ContainsNode(a) {
		return fmt.Errorf("add edge %d-%d: %w: %d", a, b, ErrNodeNotFound, a)
	}
	if !s.ContainsNode(b) {
		return fmt.Errorf("add edge %d-%d: %w: %d", a, b, ErrNodeNotFound, b)
	}

	k := keyOf(a, b)
	if e, ok := s.edges[k]; ok {
		e.Data = data
		return nil
	}
	s.edges[k] = &Edge[E]{A: a, B: b, Data: data}
	s.slots[a].neighbors = insertSorted(s.slots[a].neighbors, b)
	if a != b {
		s.slots[b].neighbors = insertSorted(s.slots[b].neighbors, a)
	}
	return nil
}

// RemoveEdge disconnects a and b if they are connected.
func (s *Store[N, E]) RemoveEdge(a, b NodeID) {
	k := keyOf(a, b)
	if _, ok := s.edges[k]; !ok {
		return
	}
	delete(s.edges, k)
	s.slots[a].neighbors = removeSorted(s.slots[a].neighbors, b)
	if a != b {
		s.slots[b].neighbors = removeSorted(s.slots[b].neighbors, a)
	}
}

// ContainsNode reports whether id names a live node.
func (s *Store[N, E]) ContainsNode(id NodeID) bool {
	return int(id) < len(s.slots) && s.slots[id].live
}

// ContainsEdge reports whether a and b are connected.
func (s *Store[N, E]) ContainsEdge(a, b NodeID) bool {
	_, ok := s.edges[keyOf(a, b)]
	return ok
}

// Node returns the live node named by id.
func (s *Store[N, E]) Node(id NodeID) (*Node[N], error) {
	if !s.ContainsNode(id) {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return &s.slots[id].node, nil
}

// Edge returns the edge joining a and b.
func (s *Store[N, E]) Edge(a, b NodeID) (*Edge[E], error) {
	e, ok := s.edges[keyOf(a, b)]
	if !ok {
		return nil, fmt.Errorf("%w: %d-%d", ErrEdgeNotFound, a, b)
	}
	return e, nil
}

// Neighbors returns the nodes adjacent to id in ascending order. A self-loop
// lists id itself.
func (s *Store[N, E]) Neighbors(id NodeID) ([]NodeID, error) {
	if !s.ContainsNode(id) {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return append([]NodeID(nil), s.slots[id].neighbors...), nil
}

// NodeIDs returns the live identities in ascending order.
func (s *Store[N, E]) NodeIDs() []NodeID {
	return append([]NodeID(nil), s.ids...)
}

// EdgePairs returns the endpoints of every edge, ordered by their lower and
// then higher identity.
func (s *Store[N, E]) EdgePairs() []Pair {
	pairs := make([]Pair, 0, len(s.edges))
	for _, k := range s.sortedKeys() {
		e := s.edges[k]
		pairs = append(pairs, Pair{A: e.A, B: e.B})
	}
	return pairs
}

// VisitNodes calls fn with a copy of every node in ascending identity order.
func (s *Store[N, E]) VisitNodes(fn func(Node[N])) {
	for _, id := range s.ids {
		fn(s.slots[id].node)
	}
}

// VisitNodesMut calls fn with every node in ascending identity order. fn may
// change the node's public fields but must not add or remove nodes.
func (s *Store[N, E]) VisitNodesMut(fn func(*Node[N])) {
	for _, id := range s.ids {
		fn(&s.slots[id].node)
	}
}

// VisitEdges calls fn with both endpoints and the payload of every edge.
func (s *Store[N, E]) VisitEdges(fn func(a, b Node[N], data E)) {
	for _, k := range s.sortedKeys() {
		e := s.edges[k]
		fn(s.slots[e.A].node, s.slots[e.B].node, e.Data)
	}
}

// Clear removes every node and edge and resets identity allocation.
func (s *Store[N, E]) Clear() {
	s.slots = nil
	s.free = nil
	s.ids = nil
	s.edges = make(map[edgeKey]*Edge[E])
}

func (s *Store[N, E]) sortedKeys() []edgeKey {
	keys := make([]edgeKey, 0, len(s.edges))
	for k := range s.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lo != keys[j].lo {
			return keys[i].lo < keys[j].lo
		}
		return keys[i].hi < keys[j].hi
	})
	return keys
}

func insertSorted(ids []NodeID, id NodeID) []NodeID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func removeSorted(ids []NodeID, id NodeID) []NodeID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i == len(ids) || ids[i] != id {
		return ids
	}
	return append(ids[:i], ids[i+1:]...)
}
