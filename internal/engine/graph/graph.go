package graph

import (
	"fmt"
	"sort"
)

type Role string

const (
	RoleConcept    Role = "concept"
	RoleLiteral    Role = "literal"
	RoleExpression Role = "expression"
)

type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Role  Role   `json:"role"`
}

type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Graph is the node/edge model built from one corpus. Nodes live in an
// insertion-ordered arena with an id index, edges in a flat list deduplicated
// by unordered endpoint pair. Each analysis run owns its Graph, so there is
// no internal locking.
type Graph struct {
	nodes []Node
	index map[string]int // id -> arena position

	edges   []Edge
	edgeSet map[pairKey]bool
	degree  map[string]int // incident edge count, self-loops count once
}

type pairKey struct {
	a, b string // normalized so a <= b
}

func New() *Graph {
	return &Graph{
		index:   make(map[string]int),
		edgeSet: make(map[pairKey]bool),
		degree:  make(map[string]int),
	}
}

// EnsureNode returns the node for id, creating it on first sight. The first
// occurrence fixes label and role; later sightings never mutate it.
func (g *Graph) EnsureNode(id, label string, role Role) Node {
	if pos, ok := g.index[id]; ok {
		return g.nodes[pos]
	}
	node := Node{ID: id, Label: label, Role: role}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	return node
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// AddEdge records an edge between two existing nodes. Parallel edges over
// the same unordered pair collapse into one; the first label wins.
func (g *Graph) AddEdge(source, target, label string) error {
	if !g.HasNode(source) {
		return fmt.Errorf("edge source %q: node does not exist", source)
	}
	if !g.HasNode(target) {
		return fmt.Errorf("edge target %q: node does not exist", target)
	}

	key := pairKey{a: source, b: target}
	if key.b < key.a {
		key.a, key.b = key.b, key.a
	}
	if g.edgeSet[key] {
		return nil
	}
	g.edgeSet[key] = true
	g.edges = append(g.edges, Edge{Source: source, Target: target, Label: label})

	g.degree[source]++
	if source != target {
		g.degree[target]++
	}
	return nil
}

// Degree counts edges incident to a node. A self-loop contributes one.
func (g *Graph) Degree(id string) int {
	return g.degree[id]
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Neighbors lists the ids adjacent to a node, sorted, treating every edge
// as undirected. Self-loops do not list the node itself.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]bool)
	for _, e := range g.edges {
		switch {
		case e.Source == id && e.Target != id:
			seen[e.Target] = true
		case e.Target == id && e.Source != id:
			seen[e.Source] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
