package group

import (
	"slices"

	"github.com/matzehuels/nodegroup/pkg/ident"
)

// Group partitions the identifiers appearing in pairs into connected
// components. See the package documentation for ordering guarantees.
func Group(pairs []ident.Pair) [][]ident.ID {
	return New(pairs).Components()
}

// Membership indexes groups by identifier, mapping each member to the index
// of its group.
func Membership(groups [][]ident.ID) map[ident.ID]int {
	idx := make(map[ident.ID]int)
	for i, members := range groups {
		for _, id := range members {
			idx[id] = i
		}
	}
	return idx
}

// Sorted returns a copy of groups with members ordered by [ident.Compare] and
// groups ordered by their first member. Two groupings with the same contents
// sort identically regardless of discovery order.
func Sorted(groups [][]ident.ID) [][]ident.ID {
	out := make([][]ident.ID, len(groups))
	for i, members := range groups {
		out[i] = slices.SortedFunc(slices.Values(members), ident.Compare)
	}
	slices.SortFunc(out, func(a, b []ident.ID) int {
		return ident.Compare(a[0], b[0])
	})
	return out
}

// Stats summarizes a grouping run.
type Stats struct {
	Pairs   int // input pairs, including duplicates and self-pairs
	Nodes   int // distinct identifiers
	Groups  int // connected components
	Largest int // size of the largest group
}

// Summarize computes Stats for the groups produced from g.
func Summarize(g *Graph, groups [][]ident.ID) Stats {
	s := Stats{
		Pairs:  g.EdgeCount(),
		Nodes:  g.NodeCount(),
		Groups: len(groups),
	}
	for _, members := range groups {
		s.Largest = max(s.Largest, len(members))
	}
	return s
}
