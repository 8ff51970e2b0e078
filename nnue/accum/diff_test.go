package accum

import (
	"testing"

	"github.com/corvid-chess/nnuecore/nnue/features"
)

func idxList(vals ...uint32) *features.IndexList {
	l := &features.IndexList{}
	for _, v := range vals {
		l.Push(v)
	}
	return l
}

func assertIdxEqual(t *testing.T, got *features.IndexList, want []uint32) {
	t.Helper()
	if got.Len() != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got.Slice(), want)
	}
	for i, w := range want {
		if got.At(i) != w {
			t.Fatalf("at %d: got %v want %v", i, got.Slice(), want)
		}
	}
}

// TestDiffNoChange is property 5's base case: identical sorted lists yield
// empty removed and added lists.
func TestDiffNoChange(t *testing.T) {
	old := idxList(3, 7, 42)
	new_ := idxList(3, 7, 42)
	var removed, added features.IndexList
	Diff(old, new_, &removed, &added)
	assertIdxEqual(t, &removed, nil)
	assertIdxEqual(t, &added, nil)
}

// TestDiffPawnPush mirrors scenario S5: a single presence index leaves the
// old list and a single presence index enters the new one, with shared
// entries on either side left untouched.
func TestDiffPawnPush(t *testing.T) {
	old := idxList(10, 20, 30, 40)
	new_ := idxList(10, 25, 30, 40)
	var removed, added features.IndexList
	Diff(old, new_, &removed, &added)
	assertIdxEqual(t, &removed, []uint32{20})
	assertIdxEqual(t, &added, []uint32{25})
}

// TestDiffDisjoint covers the case where nothing overlaps: every old entry
// is removed and every new entry is added.
func TestDiffDisjoint(t *testing.T) {
	old := idxList(1, 2, 3)
	new_ := idxList(4, 5, 6)
	var removed, added features.IndexList
	Diff(old, new_, &removed, &added)
	assertIdxEqual(t, &removed, []uint32{1, 2, 3})
	assertIdxEqual(t, &added, []uint32{4, 5, 6})
}

// TestDiffEmptyOld covers a from-empty extraction: everything in new is an
// addition, nothing is removed.
func TestDiffEmptyOld(t *testing.T) {
	old := idxList()
	new_ := idxList(5, 9)
	var removed, added features.IndexList
	Diff(old, new_, &removed, &added)
	assertIdxEqual(t, &removed, nil)
	assertIdxEqual(t, &added, []uint32{5, 9})
}
