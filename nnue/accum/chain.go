package accum

import (
	"github.com/corvid-chess/nnuecore/internal/board"
	"github.com/corvid-chess/nnuecore/nnue/features"
)

// StateInfo is one link of a position chain: the board snapshot reached at
// this point, the dirty-piece delta that produced it from its
// predecessor, and, per perspective, its accumulator and the active
// feature lists last used to compute it (cached so the next incremental
// step can diff against them without re-extracting).
type StateInfo struct {
	Pos   *board.Position
	Dirty board.DirtyPiece

	Previous, Next *StateInfo

	acc           [2]*Accumulator
	computed      [2]bool
	activePSQ     [2]features.IndexList
	activeThreats [2]features.IndexList
}

// Chain is a doubly-linked sequence of StateInfo nodes sharing one
// accumulator width. Different chains (e.g. different search threads) are
// wholly independent: nothing here is shared across Chain instances.
type Chain struct {
	halfDimensions int
	Root           *StateInfo
	Tail           *StateInfo
}

// NewChain starts a chain at the given root position.
func NewChain(root *board.Position, halfDimensions int) *Chain {
	s := &StateInfo{Pos: root}
	s.acc[0] = NewAccumulator(halfDimensions)
	s.acc[1] = NewAccumulator(halfDimensions)
	return &Chain{halfDimensions: halfDimensions, Root: s, Tail: s}
}

// Push extends the chain with a new position reached from the tail by the
// move that produced dirty, and returns the new tail.
func (c *Chain) Push(pos *board.Position, dirty board.DirtyPiece) *StateInfo {
	s := &StateInfo{Pos: pos, Dirty: dirty, Previous: c.Tail}
	s.acc[0] = NewAccumulator(c.halfDimensions)
	s.acc[1] = NewAccumulator(c.halfDimensions)
	c.Tail.Next = s
	c.Tail = s
	return s
}

// Pop detaches the tail, the chain's mirror of the engine's unmake-move:
// the detached node's Previous.Next link is cleared, so a stale pointer
// into it trips the driver's broken-backlink guard instead of silently
// reusing a stale accumulator.
func (c *Chain) Pop() {
	if c.Tail.Previous == nil {
		return
	}
	prev := c.Tail.Previous
	prev.Next = nil
	c.Tail = prev
}

// Computed reports whether persp's accumulator is valid at this state.
func (s *StateInfo) Computed(persp board.Color) bool { return s.computed[persp] }

// Accumulator returns persp's accumulator. Its contents are only valid
// once Computed(persp) is true.
func (s *StateInfo) Accumulator(persp board.Color) *Accumulator { return s.acc[persp] }
