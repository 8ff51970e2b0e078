package accum

import (
	"testing"

	"github.com/corvid-chess/nnuecore/internal/board"
)

// TestCacheWarmMatchesScratch is property 7, the refresh-barrier's
// counterpart for the Finny table: a warm cache entry's diffed refresh must
// land on the exact same accumulator as a cold, from-scratch refresh of the
// same position.
func TestCacheWarmMatchesScratch(t *testing.T) {
	set := NewSet(t)
	src := fakeSource{}

	root := board.NewPosition()
	next, _ := applyMove(t, root, board.E2, board.E4, board.NoPieceType)

	cold := NewAccumulatorCache(testHalfDimensions)
	warm := NewAccumulatorCache(testHalfDimensions)

	// Warm the cache at root's king square first, then refresh at next:
	// same king square (no king move occurred), so this exercises the
	// diffed path.
	_, _, _ = warm.Refresh(set, src, root, board.White)
	warmResult, _, _ := warm.Refresh(set, src, next, board.White)

	coldResult, _, _ := cold.Refresh(set, src, next, board.White)

	for h := 0; h < testHalfDimensions; h++ {
		if warmResult.V[h] != coldResult.V[h] {
			t.Fatalf("lane %d: warm=%d cold=%d", h, warmResult.V[h], coldResult.V[h])
		}
	}
}

// TestCacheResultIsDetached ensures the accumulator returned to the caller
// is a copy: mutating it must not corrupt the cache entry a later Refresh
// diffs against.
func TestCacheResultIsDetached(t *testing.T) {
	set := NewSet(t)
	src := fakeSource{}
	cache := NewAccumulatorCache(testHalfDimensions)

	root := board.NewPosition()
	result, _, _ := cache.Refresh(set, src, root, board.White)
	result.V[0] = 12345

	again, _, _ := cache.Refresh(set, src, root, board.White)
	if again.V[0] == 12345 {
		t.Fatalf("mutating a returned accumulator leaked into the cache entry")
	}
}
