// Package group partitions identifiers into connected components over a set of
// unordered pairs.
//
// # Overview
//
// Two identifiers end up in the same group iff a chain of pairs connects them.
// [Group] is the single entry point most callers need:
//
//	groups := group.Group([]ident.Pair{
//	    ident.MustParsePair("User::alice$Org::acme"),
//	    ident.MustParsePair("Org::acme$Team::core"),
//	})
//	// [[User::alice Org::acme Team::core]]
//
// Under the hood, [New] builds a [Graph]: the distinct identifiers that appear
// in any pair, plus an undirected adjacency list with one entry per pair and
// side. Parallel pairs and self-pairs are accepted; they add redundant
// neighbor entries but never change which nodes are connected.
// [Graph.Components] then runs a breadth-first traversal from every unvisited
// node.
//
// # Ordering
//
// Output order is deterministic:
//
//   - Nodes are discovered in first-seen order: pairs are scanned in input
//     order, first endpoint before second.
//   - Each unvisited node, in discovery order, seeds a new group.
//   - Members of a group appear in BFS order; neighbors are visited in the
//     order their pairs appeared in the input.
//
// Group contents never depend on input order, only group and member order do.
// Use [Sorted] when order-insensitive output is required.
//
// # Guarantees
//
// Every identifier that appears in any pair lands in exactly one group. No
// group is empty, and identifiers that appear in no pair are never emitted, so
// an empty pair slice yields an empty (non-nil) result.
//
// # Concurrency
//
// [Group] allocates all traversal state per call and never mutates its input,
// so it can run concurrently on any number of pair slices. A [Graph] is
// read-only after [New] returns and is safe for concurrent readers.
package group
