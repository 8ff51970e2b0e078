package accum

import (
	"github.com/corvid-chess/nnuecore/internal/board"
	"github.com/corvid-chess/nnuecore/nnue/features"
)

// Counters tallies how an Updater resolved its recompute work, for the
// diagnostics store to persist across runs.
type Counters struct {
	ScratchRecomputes  uint64
	IncrementalUpdates uint64
	RefreshBarriers    uint64
	BrokenChainLinks   uint64
}

// Updater drives scratch and incremental accumulator updates for one
// feature-set implementation against one weight source.
type Updater struct {
	Set   features.Set
	Src   Source
	Cache *AccumulatorCache // optional Finny table; nil falls back to a full extract-and-score
	Stats Counters
}

// NewUpdater builds an Updater for the given feature set and weight source.
func NewUpdater(set features.Set, src Source) *Updater {
	return &Updater{Set: set, Src: src}
}

// scratch recomputes s's accumulator for persp directly from the board,
// caching the active lists extracted along the way. When a Cache is
// installed, the recompute goes through it instead: a cold king square
// still extracts and scores from scratch, but a warm one diffs against the
// cache's stored active lists and applies only the delta.
func (u *Updater) scratch(s *StateInfo, persp board.Color) {
	if u.Cache != nil {
		acc, psq, threats := u.Cache.Refresh(u.Set, u.Src, s.Pos, persp)
		s.acc[persp].CopyFrom(acc)
		s.activePSQ[persp] = psq
		s.activeThreats[persp] = threats
		s.computed[persp] = true
		u.Stats.ScratchRecomputes++
		return
	}

	var psq, threats features.IndexList
	u.Set.AppendActiveFeatures(persp, s.Pos, &psq, &threats)

	var active features.IndexList
	for i := 0; i < psq.Len(); i++ {
		active.Push(psq.At(i))
	}
	for i := 0; i < threats.Len(); i++ {
		active.Push(threats.At(i))
	}
	s.acc[persp].Refresh(u.Src, &active)

	s.activePSQ[persp] = psq
	s.activeThreats[persp] = threats
	s.computed[persp] = true
	u.Stats.ScratchRecomputes++
}

// incremental computes next's accumulator for persp from its predecessor
// prev, whose accumulator and active lists must already be computed.
// Presence deltas come from the dirty-piece fast path; threat deltas come
// from the general sorted-list diff, since no dirty-piece shortcut for
// threats exists to port.
func (u *Updater) incremental(prev, next *StateInfo, persp board.Color) {
	ksq := next.Pos.King(persp)

	var removedPSQ, addedPSQ features.IndexList
	u.Set.AppendChangedIndices(persp, ksq, &next.Dirty, &removedPSQ, &addedPSQ)

	var newThreats features.IndexList
	u.Set.AppendActiveThreats(persp, next.Pos, &newThreats)
	var removedThreats, addedThreats features.IndexList
	Diff(&prev.activeThreats[persp], &newThreats, &removedThreats, &addedThreats)

	if removedPSQ.Len() == 0 && addedPSQ.Len() == 0 && removedThreats.Len() == 0 && addedThreats.Len() == 0 {
		next.acc[persp].CopyFrom(prev.acc[persp])
	} else {
		var removed, added features.IndexList
		appendAll(&removed, &removedPSQ)
		appendAll(&removed, &removedThreats)
		appendAll(&added, &addedPSQ)
		appendAll(&added, &addedThreats)
		next.acc[persp].ApplyDiff(u.Src, prev.acc[persp], &removed, &added)
	}

	var newPSQ features.IndexList
	u.Set.AppendActivePSQ(persp, next.Pos, &newPSQ)
	next.activePSQ[persp] = newPSQ
	next.activeThreats[persp] = newThreats
	next.computed[persp] = true
	u.Stats.IncrementalUpdates++
}

func appendAll(dst, src *features.IndexList) {
	for i := 0; i < src.Len(); i++ {
		dst.Push(src.At(i))
	}
}

// Update ensures target's accumulator for persp is computed, walking the
// chain backward to find a computed ancestor (or a refresh barrier / chain
// break forcing a scratch recompute), then applying incremental updates
// forward from there to target.
func (u *Updater) Update(target *StateInfo, persp board.Color) {
	if target.computed[persp] {
		return
	}

	var path []*StateInfo
	s := target
	for {
		if s.Previous == nil {
			u.scratch(s, persp)
			break
		}
		if s.Previous.Next != s {
			u.Stats.BrokenChainLinks++
			u.scratch(s, persp)
			break
		}
		if u.Set.RequiresRefresh(&s.Dirty, persp) {
			u.Stats.RefreshBarriers++
			u.scratch(s, persp)
			break
		}
		path = append(path, s)
		if s.Previous.computed[persp] {
			s = s.Previous
			break
		}
		s = s.Previous
	}

	for i := len(path) - 1; i >= 0; i-- {
		next := path[i]
		u.incremental(next.Previous, next, persp)
	}
}
