package accum

import (
	"github.com/corvid-chess/nnuecore/internal/board"
	"github.com/corvid-chess/nnuecore/nnue/features"
)

// cacheEntry holds one king-square's "golden" accumulator from its last
// refresh, plus the active lists that produced it, so a later refresh for
// the same king square can diff against them instead of extracting
// against an all-zero baseline.
type cacheEntry struct {
	valid   bool
	acc     Accumulator
	psq     features.IndexList
	threats features.IndexList
}

// AccumulatorCache is the full-refresh (Finny table) cache: 64 entries per
// perspective, keyed by king square. One per chain, per perspective; never
// shared across chains or threads.
type AccumulatorCache struct {
	halfDimensions int
	entries        [2][64]cacheEntry
}

// NewAccumulatorCache allocates an empty cache for accumulators of the
// given width.
func NewAccumulatorCache(halfDimensions int) *AccumulatorCache {
	c := &AccumulatorCache{halfDimensions: halfDimensions}
	for persp := 0; persp < 2; persp++ {
		for sq := 0; sq < 64; sq++ {
			c.entries[persp][sq].acc = *NewAccumulator(halfDimensions)
		}
	}
	return c
}

// Refresh returns a freshly-computed accumulator for persp at pos's current
// king square, along with the active lists that produced it (for the
// caller to keep as chain state for later incremental diffs). On a cold
// entry it extracts and scores from scratch, seeding the cache; on a warm
// entry it diffs the cached active lists against freshly extracted ones
// and applies only the delta.
func (c *AccumulatorCache) Refresh(set features.Set, src Source, pos *board.Position, persp board.Color) (*Accumulator, features.IndexList, features.IndexList) {
	ksq := pos.King(persp)
	entry := &c.entries[persp][ksq]

	if !entry.valid {
		var psq, threats features.IndexList
		set.AppendActiveFeatures(persp, pos, &psq, &threats)
		var active features.IndexList
		appendAll(&active, &psq)
		appendAll(&active, &threats)
		entry.acc.Refresh(src, &active)
		entry.psq, entry.threats = psq, threats
		entry.valid = true
	} else {
		var psq, threats features.IndexList
		set.AppendActivePSQ(persp, pos, &psq)
		set.AppendActiveThreats(persp, pos, &threats)

		var removedPSQ, addedPSQ, removedThreats, addedThreats features.IndexList
		Diff(&entry.psq, &psq, &removedPSQ, &addedPSQ)
		Diff(&entry.threats, &threats, &removedThreats, &addedThreats)

		var removed, added features.IndexList
		appendAll(&removed, &removedPSQ)
		appendAll(&removed, &removedThreats)
		appendAll(&added, &addedPSQ)
		appendAll(&added, &addedThreats)

		entry.acc.ApplyDiff(src, &entry.acc, &removed, &added)
		entry.psq, entry.threats = psq, threats
	}

	result := NewAccumulator(c.halfDimensions)
	result.CopyFrom(&entry.acc)
	return result, entry.psq, entry.threats
}
