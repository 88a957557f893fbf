// Package treediff computes the textual differences between two syntax
// trees.
//
// The engine walks both trees top-down in parallel. Subtrees whose green
// nodes are equivalent are skipped without being inspected, so the cost of
// a diff grows with the size of the edit rather than the size of the
// file. Divergent nodes have their children aligned: equal children at
// either end are trimmed, the rest are matched with a longest common
// subsequence, and leftover children of the same kind are paired and
// compared recursively. Everything that cannot be paired becomes a change.
//
// Ambiguous alignments resolve toward the longest common suffix. When a
// file has two equal siblings and one of them is removed, the earlier one
// is reported.
package treediff
