package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_NodeDeduplication(t *testing.T) {
	g := New()
	g.EnsureNode("Alice", "Alice", RoleConcept)
	g.EnsureNode("Alice", "other-label", RoleLiteral)
	g.EnsureNode("Bob", "Bob", RoleConcept)

	require.Equal(t, 2, g.NodeCount())
	nodes := g.Nodes()
	assert.Equal(t, "Alice", nodes[0].ID)
	assert.Equal(t, "Alice", nodes[0].Label, "first sighting fixes the label")
	assert.Equal(t, RoleConcept, nodes[0].Role)
	assert.Equal(t, "Bob", nodes[1].ID)
}

func TestGraph_InsertionOrderPreserved(t *testing.T) {
	g := New()
	for _, id := range []string{"zebra", "apple", "mango"} {
		g.EnsureNode(id, id, RoleConcept)
	}
	nodes := g.Nodes()
	assert.Equal(t, "zebra", nodes[0].ID)
	assert.Equal(t, "apple", nodes[1].ID)
	assert.Equal(t, "mango", nodes[2].ID)
}

func TestGraph_AddEdgeRequiresNodes(t *testing.T) {
	g := New()
	g.EnsureNode("Alice", "Alice", RoleConcept)

	err := g.AddEdge("Alice", "Bob", "likes")
	require.Error(t, err)

	err = g.AddEdge("Ghost", "Alice", "likes")
	require.Error(t, err)
}

func TestGraph_ParallelEdgesCollapse(t *testing.T) {
	g := New()
	g.EnsureNode("Alice", "Alice", RoleConcept)
	g.EnsureNode("Bob", "Bob", RoleConcept)

	require.NoError(t, g.AddEdge("Alice", "Bob", "likes"))
	require.NoError(t, g.AddEdge("Bob", "Alice", "knows"))

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 1, g.Degree("Alice"))
	assert.Equal(t, 1, g.Degree("Bob"))
}

func TestGraph_SelfLoopDegree(t *testing.T) {
	g := New()
	g.EnsureNode("Alice", "Alice", RoleConcept)
	require.NoError(t, g.AddEdge("Alice", "Alice", "knows"))

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 1, g.Degree("Alice"))
	assert.Empty(t, g.Neighbors("Alice"))
}

func TestGraph_Neighbors(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.EnsureNode(id, id, RoleConcept)
	}
	require.NoError(t, g.AddEdge("a", "c", ""))
	require.NoError(t, g.AddEdge("b", "a", ""))

	assert.Equal(t, []string{"b", "c"}, g.Neighbors("a"))
	assert.Equal(t, []string{"a"}, g.Neighbors("c"))
}
