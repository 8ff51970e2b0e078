package accum

import (
	"testing"

	"github.com/corvid-chess/nnuecore/internal/board"
	"github.com/corvid-chess/nnuecore/nnue/features"
)

const testHalfDimensions = 8

// fakeSource is a deterministic stand-in for a real feature transformer's
// weight matrix: each column is a pure function of its index, so two
// independently-derived accumulators for the same active set are
// bit-for-bit comparable without needing a real trained network.
type fakeSource struct{}

func (fakeSource) HalfDimensions() int { return testHalfDimensions }
func (fakeSource) Biases() []int16 {
	b := make([]int16, testHalfDimensions)
	for i := range b {
		b[i] = 1
	}
	return b
}
func (fakeSource) Column(idx uint32) []int16 {
	row := make([]int16, testHalfDimensions)
	for h := range row {
		row[h] = int16(idx%97) + int16(h)
	}
	return row
}

func applyMove(t *testing.T, pos *board.Position, from, to board.Square, promo board.PieceType) (*board.Position, board.DirtyPiece) {
	t.Helper()
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == from && m.To() == to && (!m.IsPromotion() || promo == board.NoPieceType || m.Promotion() == promo) {
			next := pos.Copy()
			undo := next.MakeMove(m)
			return next, undo.Dirty
		}
	}
	t.Fatalf("no legal move %v->%v (promo %v) in position", from, to, promo)
	return nil, board.DirtyPiece{}
}

// TestIncrementalEqualsScratch is property 6: walking a chain of legal
// moves incrementally must produce the same accumulator, lane for lane, as
// recomputing every position from scratch.
func TestIncrementalEqualsScratch(t *testing.T) {
	set := NewSet(t)
	src := fakeSource{}
	u := NewUpdater(set, src)

	root := board.NewPosition()
	chain := NewChain(root, testHalfDimensions)

	type step struct {
		from, to board.Square
		promo    board.PieceType
	}
	steps := []step{
		{board.E2, board.E4, board.NoPieceType},
		{board.E7, board.E5, board.NoPieceType},
		{board.G1, board.F3, board.NoPieceType},
		{board.B8, board.C6, board.NoPieceType},
		{board.F1, board.B5, board.NoPieceType},
	}

	cur := root
	states := []*StateInfo{chain.Root}
	for _, st := range steps {
		next, dirty := applyMove(t, cur, st.from, st.to, st.promo)
		s := chain.Push(next, dirty)
		states = append(states, s)
		cur = next
	}

	target := states[len(states)-1]
	for _, persp := range []board.Color{board.White, board.Black} {
		u.Update(target, persp)
		incremental := append([]int16{}, target.Accumulator(persp).V...)

		var scratch Accumulator
		scratch.V = make([]int16, testHalfDimensions)
		var psq, threats, active features.IndexList
		set.AppendActiveFeatures(persp, target.Pos, &psq, &threats)
		for i := 0; i < psq.Len(); i++ {
			active.Push(psq.At(i))
		}
		for i := 0; i < threats.Len(); i++ {
			active.Push(threats.At(i))
		}
		scratch.Refresh(src, &active)

		for h := 0; h < testHalfDimensions; h++ {
			if incremental[h] != scratch.V[h] {
				t.Fatalf("persp %v lane %d: incremental=%d scratch=%d", persp, h, incremental[h], scratch.V[h])
			}
		}
	}
}

// TestUpdateHandlesBrokenChainLink is the driver's chain-break guard: once
// a tail is popped, a stale pointer into the detached node must not be
// trusted for an incremental walk; Update must fall back to scratch.
func TestUpdateHandlesBrokenChainLink(t *testing.T) {
	set := NewSet(t)
	src := fakeSource{}
	u := NewUpdater(set, src)

	root := board.NewPosition()
	chain := NewChain(root, testHalfDimensions)

	next, dirty := applyMove(t, root, board.E2, board.E4, board.NoPieceType)
	stale := chain.Push(next, dirty)
	u.Update(stale, board.White)

	chain.Pop()

	if stale.Previous.Next == stale {
		t.Fatalf("Pop did not break the back-link")
	}

	u.Update(stale, board.Black)
	if !stale.Computed(board.Black) {
		t.Errorf("Update did not compute the detached node's accumulator")
	}
}

// NewSet picks the full-dimensional feature set for these tests; either
// variant exercises the same updater logic.
func NewSet(t *testing.T) features.Set {
	t.Helper()
	return features.NewFullThreats()
}
