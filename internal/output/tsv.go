package output

import (
	"fmt"
	"strings"

	"mettagraph/internal/engine/graph"
)

type TSVGenerator struct {
	result *graph.AnalysisResult
}

func NewTSVGenerator(result *graph.AnalysisResult) *TSVGenerator {
	return &TSVGenerator{result: result}
}

// Generate renders one row per edge plus one row per orphan node, with the
// owning component id in the last column.
func (t *TSVGenerator) Generate() (string, error) {
	componentOf := make(map[string]int, len(t.result.Nodes))
	for _, comp := range t.result.Components {
		for _, id := range comp.MemberIDs {
			componentOf[id] = comp.ID
		}
	}

	var b strings.Builder
	b.WriteString("source\tpredicate\ttarget\tcomponent\n")
	for _, edge := range t.result.Edges {
		b.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\n",
			edge.Source, edge.Label, edge.Target, componentOf[edge.Source]))
	}
	for _, id := range t.result.Orphans {
		b.WriteString(fmt.Sprintf("%s\t\t\t%d\n", id, componentOf[id]))
	}
	return b.String(), nil
}
