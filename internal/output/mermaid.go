package output

import (
	"fmt"
	"strings"

	"mettagraph/internal/engine/graph"
)

type MermaidGenerator struct {
	result *graph.AnalysisResult
}

func NewMermaidGenerator(result *graph.AnalysisResult) *MermaidGenerator {
	return &MermaidGenerator{result: result}
}

func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	// Mermaid node keys must be identifier-safe; labels carry the real text.
	keys := make(map[string]string, len(m.result.Nodes))
	for i, node := range m.result.Nodes {
		key := fmt.Sprintf("n%d", i)
		keys[node.ID] = key
		b.WriteString(fmt.Sprintf("    %s[%q]\n", key, node.Label))
	}

	for _, edge := range m.result.Edges {
		src, dst := keys[edge.Source], keys[edge.Target]
		if edge.Label != "" {
			b.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", src, sanitizeLabel(edge.Label), dst))
		} else {
			b.WriteString(fmt.Sprintf("    %s --> %s\n", src, dst))
		}
	}

	if len(m.result.Orphans) > 0 {
		b.WriteString("    classDef orphan fill:#E5E7EB,stroke-dasharray: 5 5\n")
		orphanKeys := make([]string, 0, len(m.result.Orphans))
		for _, id := range m.result.Orphans {
			orphanKeys = append(orphanKeys, keys[id])
		}
		b.WriteString(fmt.Sprintf("    class %s orphan\n", strings.Join(orphanKeys, ",")))
	}

	return b.String(), nil
}

func sanitizeLabel(label string) string {
	replacer := strings.NewReplacer("|", "/", "\n", " ", "\"", "'")
	return replacer.Replace(label)
}
