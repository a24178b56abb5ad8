package graph

import (
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, n int) (*Store[string, string], []NodeID) {
	t.Helper()
	s := New[string, string]()
	ids := make([]NodeID, n)
	for i := range ids {
		id, err := s.AddNode(NodeAt[string](float64(i), 0))
		require.NoError(t, err)
		ids[i] = id
	}
	return s, ids
}

func TestAddNodeRoundTrip(t *testing.T) {
	s := New[string, string]()
	id, err := s.AddNode(NodeData[string]{X: 1, Y: 2, Mass: 3, Anchor: true, Data: "payload"})
	require.NoError(t, err)
	assert.True(t, s.ContainsNode(id))

	n, err := s.Node(id)
	require.NoError(t, err)
	assert.Equal(t, id, n.ID())
	assert.Equal(t, 1.0, n.X())
	assert.Equal(t, 2.0, n.Y())
	assert.Equal(t, 3.0, n.Mass)
	assert.True(t, n.Anchor)
	assert.Equal(t, "payload", n.Data)

	s.RemoveNode(id)
	assert.False(t, s.ContainsNode(id))
	_, err = s.Node(id)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNodeAtUsesDefaultMass(t *testing.T) {
	d := NodeAt[struct{}](4, 5)
	assert.Equal(t, DefaultMass, d.Mass)
	assert.False(t, d.Anchor)
}

func TestAddNodeDefaultsMissingMass(t *testing.T) {
	s := New[string, string]()
	for _, mass := range []float64{0, -2} {
		id, err := s.AddNode(NodeData[string]{X: 1, Mass: mass})
		require.NoError(t, err)
		n, err := s.Node(id)
		require.NoError(t, err)
		assert.Equal(t, DefaultMass, n.Mass)
	}
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	s, ids := newStore(t, 4)
	require.NoError(t, s.AddEdge(ids[0], ids[1], "a"))
	require.NoError(t, s.AddEdge(ids[0], ids[2], "b"))
	require.NoError(t, s.AddEdge(ids[2], ids[3], "c"))
	require.NoError(t, s.AddEdge(ids[0], ids[0], "loop"))

	s.RemoveNode(ids[0])

	for _, p := range s.EdgePairs() {
		assert.NotEqual(t, ids[0], p.A)
		assert.NotEqual(t, ids[0], p.B)
	}
	assert.Equal(t, 1, s.EdgeCount())
	assert.True(t, s.ContainsEdge(ids[2], ids[3]))

	nb, err := s.Neighbors(ids[2])
	require.NoError(t, err)
	assert.Equal(t, []NodeID{ids[3]}, nb)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s, ids := newStore(t, 3)
	require.NoError(t, s.AddEdge(ids[1], ids[2], "e"))

	s.RemoveEdge(ids[1], ids[2])
	pairs, nodes := s.EdgePairs(), s.NodeIDs()
	s.RemoveEdge(ids[1], ids[2])
	assert.Equal(t, pairs, s.EdgePairs())
	assert.Equal(t, nodes, s.NodeIDs())

	s.RemoveNode(ids[0])
	pairs, nodes = s.EdgePairs(), s.NodeIDs()
	s.RemoveNode(ids[0])
	assert.Equal(t, pairs, s.EdgePairs())
	assert.Equal(t, nodes, s.NodeIDs())
}

func TestAddEdgeUpdatesPayload(t *testing.T) {
	s, ids := newStore(t, 2)
	require.NoError(t, s.AddEdge(ids[0], ids[1], "payloadA"))
	require.NoError(t, s.AddEdge(ids[0], ids[1], "payloadB"))
	require.NoError(t, s.AddEdge(ids[1], ids[0], "payloadC"))

	assert.Equal(t, 1, s.EdgeCount())
	e, err := s.Edge(ids[0], ids[1])
	require.NoError(t, err)
	assert.Equal(t, "payloadC", e.Data)
	assert.Equal(t, []Pair{{A: ids[0], B: ids[1]}}, s.EdgePairs())

	nb, err := s.Neighbors(ids[0])
	require.NoError(t, err)
	assert.Equal(t, []NodeID{ids[1]}, nb)
}

func TestAddEdgeUnknownNode(t *testing.T) {
	s, ids := newStore(t, 1)
	err := s.AddEdge(ids[0], 42, "x")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, 0, s.EdgeCount())
}

func TestEdgeNotFound(t *testing.T) {
	s, ids := newStore(t, 2)
	_, err := s.Edge(ids[0], ids[1])
	assert.ErrorIs(t, err, ErrEdgeNotFound)
	assert.False(t, s.ContainsEdge(ids[0], ids[1]))
}

func TestCapacity(t *testing.T) {
	s, _ := newStore(t, MaxNodes)
	_, err := s.AddNode(NodeAt[string](0, 0))
	require.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, MaxNodes, s.Len())

	// The store stays usable and a freed identity can be allocated again.
	s.RemoveNode(7)
	id, err := s.AddNode(NodeAt[string](0, 0))
	require.NoError(t, err)
	assert.Equal(t, NodeID(7), id)
}

func TestIdentityNotReusedWhileLive(t *testing.T) {
	s, ids := newStore(t, 3)
	s.RemoveNode(ids[1])
	id, err := s.AddNode(NodeAt[string](0, 0))
	require.NoError(t, err)
	assert.NotEqual(t, ids[0], id)
	assert.NotEqual(t, ids[2], id)
	assert.False(t, s.ContainsEdge(id, ids[0]))
}

func TestNodeIDsAscending(t *testing.T) {
	s, ids := newStore(t, 5)
	s.RemoveNode(ids[1])
	s.RemoveNode(ids[3])
	_, err := s.AddNode(NodeAt[string](0, 0))
	require.NoError(t, err)

	got := s.NodeIDs()
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }))
	assert.Len(t, got, 4)
}

func TestVisit(t *testing.T) {
	s, ids := newStore(t, 3)
	require.NoError(t, s.AddEdge(ids[2], ids[0], "e1"))
	require.NoError(t, s.AddEdge(ids[0], ids[1], "e0"))

	var visited []NodeID
	s.VisitNodes(func(n Node[string]) { visited = append(visited, n.ID()) })
	assert.Equal(t, ids, visited)

	s.VisitNodesMut(func(n *Node[string]) { n.Pos.Y = 9 })
	s.VisitNodes(func(n Node[string]) { assert.Equal(t, 9.0, n.Y()) })

	var payloads []string
	s.VisitEdges(func(a, b Node[string], data string) {
		assert.True(t, s.ContainsEdge(a.ID(), b.ID()))
		payloads = append(payloads, data)
	})
	assert.Equal(t, []string{"e0", "e1"}, payloads)
}

func TestClear(t *testing.T) {
	s, ids := newStore(t, 3)
	require.NoError(t, s.AddEdge(ids[0], ids[1], "e"))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.EdgeCount())
	assert.Empty(t, s.NodeIDs())
	assert.False(t, s.ContainsNode(ids[0]))
}

// TestStoreInvariants replays random insert/remove sequences against a model
// set and checks that the live identities match it exactly.
func TestStoreInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("node ids equal inserted minus removed", prop.ForAll(
		func(ops []uint8) bool {
			s := New[int, int]()
			live := map[NodeID]bool{}
			created := map[NodeID]bool{}
			for _, op := range ops {
				if op%3 == 0 && len(live) > 0 {
					ids := s.NodeIDs()
					victim := ids[int(op)%len(ids)]
					s.RemoveNode(victim)
					delete(live, victim)
					continue
				}
				id, err := s.AddNode(NodeAt[int](0, 0))
				if err != nil {
					return false
				}
				if live[id] {
					return false
				}
				live[id] = true
				created[id] = true
			}
			ids := s.NodeIDs()
			if len(ids) != len(live) {
				return false
			}
			for _, id := range ids {
				if !live[id] || !created[id] || !s.ContainsNode(id) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("no edge mentions a removed node", prop.ForAll(
		func(edges []uint8, victim uint8) bool {
			s := New[int, int]()
			for i := 0; i < 8; i++ {
				if _, err := s.AddNode(NodeAt[int](0, 0)); err != nil {
					return false
				}
			}
			for i := 0; i+1 < len(edges); i += 2 {
				_ = s.AddEdge(NodeID(edges[i]%8), NodeID(edges[i+1]%8), i)
			}
			v := NodeID(victim % 8)
			s.RemoveNode(v)
			for _, p := range s.EdgePairs() {
				if p.A == v || p.B == v {
					return false
				}
				if !s.ContainsNode(p.A) || !s.ContainsNode(p.B) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
