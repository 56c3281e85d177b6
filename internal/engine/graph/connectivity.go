package graph

import "sort"

type Component struct {
	ID        int      `json:"id"`
	Size      int      `json:"size"`
	MemberIDs []string `json:"member_ids"`
}

type Stats struct {
	NodeCount            int `json:"node_count"`
	EdgeCount            int `json:"edge_count"`
	ComponentCount       int `json:"component_count"`
	OrphanCount          int `json:"orphan_count"`
	LargestComponentSize int `json:"largest_component_size"`
}

// Analysis is the connectivity partition of one Graph: components in a
// deterministic total order, orphan classification, and derived stats.
type Analysis struct {
	Components       []Component
	Orphans          []string
	Stats            Stats
	SizeDistribution map[int]int
}

// Analyze partitions the graph into connected components with a union-find
// over node positions, treating every edge as undirected. Components are
// ordered by ascending size, ties broken by the lexicographically smallest
// member; members are sorted. Ids are assigned 1-based after ordering.
func Analyze(g *Graph) Analysis {
	nodes := g.nodes

	uf := newUnionFind(len(nodes))
	for _, e := range g.edges {
		uf.union(g.index[e.Source], g.index[e.Target])
	}

	groups := make(map[int][]string)
	for pos, node := range nodes {
		root := uf.find(pos)
		groups[root] = append(groups[root], node.ID)
	}

	components := make([]Component, 0, len(groups))
	for _, members := range groups {
		sort.Strings(members)
		components = append(components, Component{Size: len(members), MemberIDs: members})
	}
	sort.Slice(components, func(i, j int) bool {
		if components[i].Size != components[j].Size {
			return components[i].Size < components[j].Size
		}
		return components[i].MemberIDs[0] < components[j].MemberIDs[0]
	})

	orphans := make([]string, 0)
	largest := 0
	distribution := make(map[int]int)
	for i := range components {
		components[i].ID = i + 1
		size := components[i].Size
		distribution[size]++
		if size > largest {
			largest = size
		}
		if size == 1 && g.Degree(components[i].MemberIDs[0]) == 0 {
			orphans = append(orphans, components[i].MemberIDs[0])
		}
	}

	return Analysis{
		Components: components,
		Orphans:    orphans,
		Stats: Stats{
			NodeCount:            g.NodeCount(),
			EdgeCount:            g.EdgeCount(),
			ComponentCount:       len(components),
			OrphanCount:          len(orphans),
			LargestComponentSize: largest,
		},
		SizeDistribution: distribution,
	}
}

// unionFind is a disjoint-set forest with path compression and union by
// size, keeping Analyze near-linear in nodes + edges.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
