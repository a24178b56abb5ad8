package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph("sample")
	require.NoError(t, g.AddNode(NewNodeAt("a", "A", 0, 0)))
	require.NoError(t, g.AddNode(NewNode("b", "B")))
	require.NoError(t, g.AddNode(NewNode("c", "C")))
	require.NoError(t, g.AddEdge(NewEdge("a", "b", "ab")))
	require.NoError(t, g.AddEdge(NewEdge("b", "c", "bc")))
	return g
}

func TestNewGraph(t *testing.T) {
	g := NewGraph("net")
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "net", g.Name)
	assert.Equal(t, 800.0, g.Width)
	assert.Equal(t, 600.0, g.Height)
}

func TestAddEdgeRequiresEndpoints(t *testing.T) {
	g := sampleGraph(t)
	assert.Error(t, g.AddEdge(NewEdge("a", "missing", "")))
	assert.Error(t, g.AddEdge(NewEdge("missing", "a", "")))
	assert.Len(t, g.Edges, 2)
}

func TestAddEdgeCollapsesDuplicates(t *testing.T) {
	g := sampleGraph(t)
	require.NoError(t, g.AddEdge(NewEdge("b", "a", "again")))
	assert.Len(t, g.Edges, 2)

	e, err := g.FindEdge("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "again", e.Label)
}

func TestAddNodeReplaces(t *testing.T) {
	g := sampleGraph(t)
	require.NoError(t, g.AddNode(NewNodeAt("b", "B2", 5, 6)))
	assert.Len(t, g.Nodes, 3)

	n, err := g.FindNodeByID("b")
	require.NoError(t, err)
	assert.Equal(t, "B2", n.Label)
	assert.True(t, n.Placed)

	assert.Error(t, g.AddNode(&Node{}))
}

func TestRemoveNodeCascades(t *testing.T) {
	g := sampleGraph(t)
	g.RemoveNode("b")

	_, err := g.FindNodeByID("b")
	assert.Error(t, err)
	assert.Empty(t, g.Edges)
	assert.Empty(t, g.FindConnectedNodes("a"))
}

func TestRemoveEdgeEitherDirection(t *testing.T) {
	g := sampleGraph(t)
	g.RemoveEdge("c", "b")
	_, err := g.FindEdge("b", "c")
	assert.Error(t, err)
	assert.Len(t, g.Edges, 1)

	g.RemoveEdge("c", "b")
	assert.Len(t, g.Edges, 1)
}

func TestFindConnectedNodes(t *testing.T) {
	g := sampleGraph(t)
	var ids []string
	for _, n := range g.FindConnectedNodes("b") {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestSetPosition(t *testing.T) {
	n := NewNode("x", "")
	assert.False(t, n.Placed)
	n.SetPosition(3, 4)
	assert.True(t, n.Placed)
	assert.Equal(t, 3.0, n.X)
	assert.Equal(t, 4.0, n.Y)
}

func TestClone(t *testing.T) {
	g := sampleGraph(t)
	g.Nodes[0].Properties = map[string]any{"team": "core"}

	c := g.Clone()
	require.NoError(t, c.AddNode(NewNode("z", "")))
	c.Nodes[0].Anchor = true
	c.Nodes[0].Properties["team"] = "edge"
	c.RemoveEdge("a", "b")

	assert.Len(t, g.Nodes, 3)
	assert.False(t, g.Nodes[0].Anchor)
	assert.Equal(t, "core", g.Nodes[0].Properties["team"])
	assert.Len(t, g.Edges, 2)
	assert.Equal(t, g.ID, c.ID)
}
