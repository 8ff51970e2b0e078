// Package accum implements the incrementally-updated NNUE accumulator:
// the position chain, the scratch/incremental update driver, the
// refresh barrier, and the full-refresh cache, layered on top of a
// features.Set implementation.
package accum

import "github.com/corvid-chess/nnuecore/nnue/features"

// Diff computes removed = old\new and added = new\old for two index lists
// that are each, as a whole, ascending-sorted (true of the threats lists
// this indexer produces: per-(color,kind) runs are individually sorted,
// and the runs themselves are emitted in piece-value order, which is
// exactly the order the threat-offset table's bases increase in). Runs
// in O(|old|+|new|) with a merge-like two-pointer walk.
func Diff(old, new_ *features.IndexList, removed, added *features.IndexList) {
	o, n := old.Slice(), new_.Slice()
	i, j := 0, 0
	for i < len(o) && j < len(n) {
		switch {
		case o[i] < n[j]:
			removed.Push(o[i])
			i++
		case o[i] > n[j]:
			added.Push(n[j])
			j++
		default:
			i++
			j++
		}
	}
	for ; i < len(o); i++ {
		removed.Push(o[i])
	}
	for ; j < len(n); j++ {
		added.Push(n[j])
	}
}
