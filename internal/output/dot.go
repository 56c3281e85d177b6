package output

import (
	"fmt"
	"strings"

	"mettagraph/internal/engine/graph"
)

// componentPalette cycles over multi-node components so related nodes share
// a fill color in rendered output.
var componentPalette = []string{
	"#BFDBFE", "#BBF7D0", "#FDE68A", "#FBCFE8", "#DDD6FE", "#A7F3D0", "#FECACA",
}

type DOTGenerator struct {
	result *graph.AnalysisResult
}

func NewDOTGenerator(result *graph.AnalysisResult) *DOTGenerator {
	return &DOTGenerator{result: result}
}

func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph relationships {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8];\n")
	buf.WriteString("  overlap=false;\n\n")

	colorOf := componentColors(d.result)
	orphans := orphanSet(d.result)

	for _, node := range d.result.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", node.Label)}
		switch {
		case orphans[node.ID]:
			attrs = append(attrs, "fillcolor=\"#E5E7EB\"", "style=\"filled,dashed\"")
		default:
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorOf[node.ID]))
		}
		if node.Role == graph.RoleLiteral {
			attrs = append(attrs, "shape=box")
		}
		buf.WriteString(fmt.Sprintf("  %q [%s];\n", node.ID, strings.Join(attrs, ", ")))
	}
	buf.WriteString("\n")

	for _, edge := range d.result.Edges {
		if edge.Label != "" {
			buf.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", edge.Source, edge.Target, edge.Label))
		} else {
			buf.WriteString(fmt.Sprintf("  %q -> %q;\n", edge.Source, edge.Target))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func componentColors(result *graph.AnalysisResult) map[string]string {
	colors := make(map[string]string, len(result.Nodes))
	next := 0
	for _, comp := range result.Components {
		color := "#E5E7EB"
		if comp.Size > 1 {
			color = componentPalette[next%len(componentPalette)]
			next++
		}
		for _, id := range comp.MemberIDs {
			colors[id] = color
		}
	}
	return colors
}

func orphanSet(result *graph.AnalysisResult) map[string]bool {
	set := make(map[string]bool, len(result.Orphans))
	for _, id := range result.Orphans {
		set[id] = true
	}
	return set
}
