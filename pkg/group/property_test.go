package group

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/nodegroup/pkg/ident"
)

// unionFind is a reference disjoint-set used to cross-check components.
type unionFind struct {
	parent map[ident.ID]ident.ID
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[ident.ID]ident.ID)}
}

func (uf *unionFind) find(x ident.ID) ident.ID {
	p, ok := uf.parent[x]
	if !ok {
		uf.parent[x] = x
		return x
	}
	if p != x {
		uf.parent[x] = uf.find(p)
	}
	return uf.parent[x]
}

func (uf *unionFind) union(a, b ident.ID) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// pairsGen draws pairs over a small identifier universe so components merge often.
func pairsGen() *rapid.Generator[[]ident.Pair] {
	return rapid.Custom(func(t *rapid.T) []ident.Pair {
		universe := rapid.IntRange(1, 12).Draw(t, "universe")
		n := rapid.IntRange(0, 20).Draw(t, "pairs")
		out := make([]ident.Pair, n)
		for i := range out {
			a := rapid.IntRange(0, universe-1).Draw(t, fmt.Sprintf("a%d", i))
			b := rapid.IntRange(0, universe-1).Draw(t, fmt.Sprintf("b%d", i))
			out[i] = ident.NewPair(
				ident.New(fmt.Sprintf("T%d", a%3), fmt.Sprint(a)),
				ident.New(fmt.Sprintf("T%d", b%3), fmt.Sprint(b)),
			)
		}
		return out
	})
}

func TestProperty_Partition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := pairsGen().Draw(t, "in")
		groups := Group(in)

		nodes := make(map[ident.ID]bool)
		for _, p := range in {
			nodes[p.First()] = true
			nodes[p.Second()] = true
		}

		seen := make(map[ident.ID]bool)
		for _, members := range groups {
			if len(members) == 0 {
				t.Fatalf("empty group in %v", groups)
			}
			for _, id := range members {
				if seen[id] {
					t.Fatalf("%v appears in more than one group", id)
				}
				if !nodes[id] {
					t.Fatalf("%v is not an input node", id)
				}
				seen[id] = true
			}
		}
		if len(seen) != len(nodes) {
			t.Fatalf("groups cover %d nodes, input has %d", len(seen), len(nodes))
		}
	})
}

func TestProperty_MatchesUnionFind(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := pairsGen().Draw(t, "in")

		uf := newUnionFind()
		for _, p := range in {
			uf.union(p.First(), p.Second())
		}

		idx := Membership(Group(in))
		for a := range idx {
			for b := range idx {
				same := idx[a] == idx[b]
				connected := uf.find(a) == uf.find(b)
				if same != connected {
					t.Fatalf("%v,%v: same group = %v, connected = %v", a, b, same, connected)
				}
			}
		}
	})
}

func TestProperty_OrderIndependentContents(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := pairsGen().Draw(t, "in")
		perm := rapid.Permutation(in).Draw(t, "perm")

		a, b := Sorted(Group(in)), Sorted(Group(perm))
		if fmt.Sprint(a) != fmt.Sprint(b) {
			t.Fatalf("contents differ after reordering: %v vs %v", a, b)
		}
	})
}
