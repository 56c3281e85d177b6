package graph

import "mettagraph/internal/engine/parser"

// AnalysisResult is the serializable output bundle handed to rendering and
// web layers. Field names and ordering are the downstream contract; every
// collection is present (never null) even when empty. The struct is
// assembled once per run and treated as read-only afterwards.
type AnalysisResult struct {
	Nodes            []Node           `json:"nodes"`
	Edges            []Edge           `json:"edges"`
	Components       []Component      `json:"components"`
	Orphans          []string         `json:"orphans"`
	Stats            Stats            `json:"stats"`
	SizeDistribution map[int]int      `json:"size_distribution"`
	Warnings         []parser.Warning `json:"warnings"`
}

// Assemble packages a graph, its connectivity analysis, and the parse
// warnings into the stable result shape.
func Assemble(g *Graph, analysis Analysis, warnings []parser.Warning) *AnalysisResult {
	res := &AnalysisResult{
		Nodes:            g.Nodes(),
		Edges:            g.Edges(),
		Components:       analysis.Components,
		Orphans:          analysis.Orphans,
		Stats:            analysis.Stats,
		SizeDistribution: analysis.SizeDistribution,
		Warnings:         append([]parser.Warning(nil), warnings...),
	}

	if res.Nodes == nil {
		res.Nodes = make([]Node, 0)
	}
	if res.Edges == nil {
		res.Edges = make([]Edge, 0)
	}
	if res.Components == nil {
		res.Components = make([]Component, 0)
	}
	if res.Orphans == nil {
		res.Orphans = make([]string, 0)
	}
	if res.SizeDistribution == nil {
		res.SizeDistribution = make(map[int]int)
	}
	if res.Warnings == nil {
		res.Warnings = make([]parser.Warning, 0)
	}
	return res
}
