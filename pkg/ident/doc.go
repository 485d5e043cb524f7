// Package ident provides the typed identifier and unordered pair values that the
// grouping engine operates on.
//
// # Identifiers
//
// An [ID] names an entity by a (type, name) composite key. Its canonical text
// form is "type::name":
//
//	id := ident.New("User", "alice")
//	fmt.Println(id) // User::alice
//
//	parsed, err := ident.Parse("User::alice")
//	// parsed == id
//
// [Parse] splits on the first "::" only, so "a::b::c" has type "a" and name
// "b::c". Empty types and names are accepted; a missing separator is not and
// yields [ErrMalformedIdentifier].
//
// ID is a comparable value type. Two IDs are equal (==) and hash identically
// as map keys iff their type and name are equal, regardless of whether they
// were built with [New] or [Parse].
//
// # Pairs
//
// A [Pair] is an unordered relation between two IDs. Its canonical text form is
// "first$second":
//
//	p := ident.NewPair(ident.New("User", "alice"), ident.New("Org", "acme"))
//	fmt.Println(p) // User::alice$Org::acme
//
// Pair equality is set-based: [Pair.Equal] reports true for a pair and its
// reversal, and [Pair.Key] returns a normalized value suitable as a map key.
// [Pair.Other] returns the opposite endpoint and panics when asked about an ID
// that is not an endpoint; [Pair.Lookup] is the non-panicking variant.
//
// # Mutation
//
// [ID.SetType] and [ID.SetName] rewrite an ID in place. Since pairs and graphs
// store endpoints by value, rewriting a caller's copy never changes a pair that
// was already built from it.
package ident
