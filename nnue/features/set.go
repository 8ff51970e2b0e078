package features

import "github.com/corvid-chess/nnuecore/internal/board"

// Set is the capability both Threats feature-set variants implement: a
// dimension count, a hash identifying the weight layout, and the four
// operations the accumulator core drives them through.
type Set interface {
	Dimensions() int
	MaxActiveDimensions() int
	HashValue() uint32
	Name() string

	// AppendActivePSQ appends presence-range indices for every piece on
	// the board, grouped into sorted per-(color,kind) runs in
	// perspective-relative color order.
	AppendActivePSQ(persp board.Color, pos PositionView, out *IndexList)

	// AppendActiveThreats appends threats-range indices, grouped into
	// sorted per-(color,kind) runs in perspective-relative color order.
	AppendActiveThreats(persp board.Color, pos PositionView, out *IndexList)

	// AppendActiveFeatures fills both lists: the presence walk, then the
	// threats walk.
	AppendActiveFeatures(persp board.Color, pos PositionView, psq, threats *IndexList)

	// AppendChangedIndices computes presence-only deltas directly from a
	// DirtyPiece record, without touching the board.
	AppendChangedIndices(persp board.Color, ksq board.Square, dp *board.DirtyPiece, removed, added *IndexList)

	// RequiresRefresh reports whether dp forces a from-scratch recompute
	// for perspective persp (the refresh barrier).
	RequiresRefresh(dp *board.DirtyPiece, persp board.Color) bool
}
