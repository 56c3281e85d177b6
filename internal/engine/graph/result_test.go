package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mettagraph/internal/engine/parser"
)

func TestAssemble_EmptyResultHasNoNullFields(t *testing.T) {
	g := New()
	res := Assemble(g, Analyze(g), nil)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, field := range []string{"nodes", "edges", "components", "orphans", "stats", "size_distribution", "warnings"} {
		value, ok := decoded[field]
		require.True(t, ok, "field %s must be present", field)
		assert.NotNil(t, value, "field %s must not be null", field)
	}
}

func TestAssemble_SerializedShape(t *testing.T) {
	b, err := NewBuilder(DefaultRules())
	require.NoError(t, err)
	p, err := parser.New(parser.DefaultOptions())
	require.NoError(t, err)

	parsed, err := p.Parse("(likes Alice Bob) Dave")
	require.NoError(t, err)

	g := b.Build(parsed.Atoms)
	res := Assemble(g, Analyze(g), parsed.Warnings)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Nodes []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
			Role  string `json:"role"`
		} `json:"nodes"`
		Edges []struct {
			Source string `json:"source"`
			Target string `json:"target"`
			Label  string `json:"label"`
		} `json:"edges"`
		Components []struct {
			ID        int      `json:"id"`
			MemberIDs []string `json:"member_ids"`
		} `json:"components"`
		Orphans []string `json:"orphans"`
		Stats   struct {
			NodeCount            int `json:"node_count"`
			EdgeCount            int `json:"edge_count"`
			ComponentCount       int `json:"component_count"`
			OrphanCount          int `json:"orphan_count"`
			LargestComponentSize int `json:"largest_component_size"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Nodes, 3)
	assert.Equal(t, "Alice", decoded.Nodes[0].ID)
	assert.Equal(t, "concept", decoded.Nodes[0].Role)
	require.Len(t, decoded.Edges, 1)
	assert.Equal(t, "likes", decoded.Edges[0].Label)
	assert.Equal(t, []string{"Dave"}, decoded.Orphans)
	assert.Equal(t, 3, decoded.Stats.NodeCount)
	assert.Equal(t, 2, decoded.Stats.ComponentCount)
}

func TestAssemble_CopiesCollections(t *testing.T) {
	g := New()
	g.EnsureNode("a", "a", RoleConcept)
	warnings := []parser.Warning{{Message: "w", Line: 1}}

	res := Assemble(g, Analyze(g), warnings)
	warnings[0].Message = "mutated"

	assert.Equal(t, "w", res.Warnings[0].Message)
}
