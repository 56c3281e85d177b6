package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mettagraph/internal/engine/graph"
	"mettagraph/internal/engine/parser"
)

func sampleResult(t *testing.T) *graph.AnalysisResult {
	t.Helper()
	p, err := parser.New(parser.DefaultOptions())
	require.NoError(t, err)
	res, err := p.Parse("(likes Alice Bob) (likes Bob Carol) Dave")
	require.NoError(t, err)

	b, err := graph.NewBuilder(graph.DefaultRules())
	require.NoError(t, err)
	g := b.Build(res.Atoms)
	return graph.Assemble(g, graph.Analyze(g), res.Warnings)
}

func TestDOTGenerator(t *testing.T) {
	out, err := NewDOTGenerator(sampleResult(t)).Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "digraph relationships {"))
	assert.Contains(t, out, `"Alice" -> "Bob" [label="likes"];`)
	assert.Contains(t, out, `"Dave"`)
	// Orphans render dashed.
	assert.Contains(t, out, "dashed")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "}"))
}

func TestMermaidGenerator(t *testing.T) {
	out, err := NewMermaidGenerator(sampleResult(t)).Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "flowchart LR"))
	assert.Contains(t, out, `n0["Alice"]`)
	assert.Contains(t, out, "-->|likes|")
	assert.Contains(t, out, "classDef orphan")
}

func TestTSVGenerator(t *testing.T) {
	out, err := NewTSVGenerator(sampleResult(t)).Generate()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, "header + 2 edges + 1 orphan")
	assert.Equal(t, "source\tpredicate\ttarget\tcomponent", lines[0])
	assert.Equal(t, "Alice\tlikes\tBob\t2", lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "Dave\t"))
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	targets := Targets{
		DOT:     filepath.Join(dir, "out", "graph.dot"),
		Mermaid: filepath.Join(dir, "graph.mmd"),
		TSV:     filepath.Join(dir, "graph.tsv"),
		JSON:    filepath.Join(dir, "result.json"),
	}

	require.NoError(t, WriteAll(targets, sampleResult(t)))

	for _, path := range []string{targets.DOT, targets.Mermaid, targets.TSV, targets.JSON} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}

	jsonData, err := os.ReadFile(targets.JSON)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"node_count": 4`)
}

func TestWriteAll_SkipsEmptyTargets(t *testing.T) {
	require.NoError(t, WriteAll(Targets{}, sampleResult(t)))
}
