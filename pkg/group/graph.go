package group

import (
	"github.com/matzehuels/nodegroup/pkg/ident"
)

// Graph is the undirected pair graph over the identifiers that appear in a
// pair collection. It is built once by [New] and never modified.
type Graph struct {
	nodes []ident.ID
	adj   map[ident.ID][]ident.ID
	pairs []ident.Pair
}

// New builds the graph for pairs.
//
// Nodes are recorded in first-seen order. For each pair (a, b), b is appended
// to a's neighbors and a to b's, so a self-pair lists its node as its own
// neighbor and duplicated pairs produce duplicated neighbor entries.
func New(pairs []ident.Pair) *Graph {
	g := &Graph{
		adj:   make(map[ident.ID][]ident.ID),
		pairs: pairs,
	}
	for _, p := range pairs {
		g.addNode(p.First())
		g.addNode(p.Second())
	}
	for _, p := range pairs {
		a, b := p.First(), p.Second()
		g.adj[a] = append(g.adj[a], b)
		g.adj[b] = append(g.adj[b], a)
	}
	return g
}

func (g *Graph) addNode(id ident.ID) {
	if _, ok := g.adj[id]; ok {
		return
	}
	g.adj[id] = nil
	g.nodes = append(g.nodes, id)
}

// Nodes returns the distinct identifiers in first-seen order.
// The returned slice must not be modified.
func (g *Graph) Nodes() []ident.ID { return g.nodes }

// Pairs returns the pairs the graph was built from, in input order.
// The returned slice must not be modified.
func (g *Graph) Pairs() []ident.Pair { return g.pairs }

// Has reports whether id appears in any pair.
func (g *Graph) Has(id ident.ID) bool {
	_, ok := g.adj[id]
	return ok
}

// Neighbors returns the identifiers adjacent to id, one entry per incident
// pair. It returns nil for an unknown id.
func (g *Graph) Neighbors(id ident.ID) []ident.ID { return g.adj[id] }

// NodeCount returns the number of distinct identifiers.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of input pairs, including parallel and self
// pairs.
func (g *Graph) EdgeCount() int { return len(g.pairs) }

// Components returns the connected components of g.
//
// Seeds are taken in node discovery order and each component is filled by a
// FIFO breadth-first traversal; a node is marked visited when it is enqueued.
func (g *Graph) Components() [][]ident.ID {
	groups := make([][]ident.ID, 0)
	visited := make(map[ident.ID]bool, len(g.nodes))

	for _, seed := range g.nodes {
		if visited[seed] {
			continue
		}
		var members []ident.ID
		queue := []ident.ID{seed}
		visited[seed] = true

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			members = append(members, curr)

			for _, next := range g.adj[curr] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		groups = append(groups, members)
	}
	return groups
}
