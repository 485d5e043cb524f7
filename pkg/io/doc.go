// Package io reads pair collections and writes groupings.
//
// # Pair Formats
//
// Three input formats are supported. [ImportPairs] picks one by file
// extension; the Read* functions accept any io.Reader.
//
// Text (any extension other than .json or .csv): one canonical pair per line.
// Blank lines and lines starting with '#' are ignored:
//
//	# people and their orgs
//	User::alice$Org::acme
//	Org::acme$Team::core
//
// JSON (.json): an object with a "pairs" array of canonical pair strings:
//
//	{"pairs": ["User::alice$Org::acme", "Org::acme$Team::core"]}
//
// CSV (.csv): a table whose header names identifier types. See [ReadTable].
//
// Malformed pair text is never skipped or repaired. Errors name the offending
// line (text), index (JSON) or row (CSV) and wrap the underlying
// ident.ErrMalformedPair / ident.ErrMalformedIdentifier.
//
// # Group Formats
//
// [WriteGroupsJSON] emits
//
//	{"groups": [["User::alice", "Org::acme", "Team::core"], ["A::1", "B::2"]]}
//
// and [ReadGroupsJSON] decodes the same shape. [WriteGroupsText] writes one
// group per line with members separated by ", ".
//
// # Concurrency
//
// All functions are safe for concurrent use; none keep state between calls.
package io
