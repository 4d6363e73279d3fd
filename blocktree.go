// Package blocktree models web pages as trees of text blocks. It parses
// markup into an index-addressable node arena, strips shared boilerplate by
// structural comparison against template pages, and groups the remaining
// text blocks by the markup context they appear in.
//
// This package contains domain types, interfaces and the core tree
// algorithms. Implementations of the collaborator interfaces live in
// subdirectories named after their primary dependency (e.g., html/,
// goquery/, sqlite/, rod/).
package blocktree

import "strings"

// Normalize collapses runs of whitespace in s to single spaces and trims
// leading and trailing whitespace. Node text is stored normalized, so
// callers comparing against tree content should normalize their side too.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
