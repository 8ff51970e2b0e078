package features

import "github.com/corvid-chess/nnuecore/internal/board"

// SimplifiedThreats is the 15776-dimensional Threats feature set: a
// presence range covering every piece on the board plus a threats range
// covering every attacker/target pair, with no per-attacker/victim-type
// pruning (every occupied square an attacker reaches under the current
// occupancy produces a feature).
type SimplifiedThreats struct {
	offsets *threatOffsets
}

// simplifiedHashValue identifies this feature set's weight layout in a
// persisted network file. No reference value exists in the source this
// was ported from (it never shipped a header for this variant); chosen to
// follow the same 8-hex-digit convention Full_Threats uses.
const simplifiedHashValue uint32 = 0x5d69d7b8

const simplifiedDimensions = 15776
const simplifiedMaxActiveDimensions = 128

// NewSimplifiedThreats builds the threat-offset table and returns a ready
// Set implementation.
func NewSimplifiedThreats() *SimplifiedThreats {
	s := &SimplifiedThreats{}
	s.offsets = buildThreatOffsets(func(piece int) int { return 2 })
	return s
}

func (s *SimplifiedThreats) Dimensions() int          { return simplifiedDimensions }
func (s *SimplifiedThreats) MaxActiveDimensions() int { return simplifiedMaxActiveDimensions }
func (s *SimplifiedThreats) HashValue() uint32        { return simplifiedHashValue }
func (s *SimplifiedThreats) Name() string             { return "Simplified_Threats" }

// makeIndex computes the feature index for an attacker/victim pair. When
// from==to (a piece indexing itself) this is a presence feature; otherwise
// it is a threat feature. The enemy flag uses the post-recolor color
// compare, per the documented resolution for this variant.
func (s *SimplifiedThreats) makeIndex(persp board.Color, attkr board.Piece, from, to board.Square, attkd board.Piece, ksq board.Square) uint32 {
	from = orientSquare(persp, ksq, from)
	to = orientSquare(persp, ksq, to)
	if persp == board.Black {
		attkr = board.Recolor(attkr)
		attkd = board.Recolor(attkd)
	}
	if from == to {
		return uint32(PieceSquareIndex[attkr]) + uint32(from)
	}
	enemy := attkr.Color() != attkd.Color()
	piece := int(attkr)
	attacks := attackMaskFor(attkr, from)
	idx := 768 + s.offsets.base(piece)
	if enemy {
		idx += s.offsets.span(piece)
	}
	idx += s.offsets.at(piece, int(from))
	idx += popcountBelow(attacks, to)
	return uint32(idx)
}

// popcountBelow counts set bits of bb strictly below sq, i.e. the in-mask
// rank of sq within bb.
func popcountBelow(bb board.Bitboard, sq board.Square) int {
	mask := board.SquareBB(sq) - 1
	return (bb & mask).PopCount()
}

// attackMaskFor returns an attacker's empty-board attack mask, the table
// the indexer ranks a threat's to-square within.
func attackMaskFor(attkr board.Piece, from board.Square) board.Bitboard {
	if attkr.Type() == board.Pawn {
		return board.PawnAttackMask(attkr.Color(), from)
	}
	return board.AttackMask(attkr.Type(), from, board.Empty)
}

// AppendActivePSQ appends the presence index for every occupied square,
// grouped into per-(color,kind) runs in perspective-relative color order
// and sorted within each run. A run's own squares are walked ascending,
// but orientSquare XORs in Orient[persp][ksq], which is not monotonic in
// sq when the king sits on the e-h files, so the run still needs an
// explicit sort before it is globally ascending.
func (s *SimplifiedThreats) AppendActivePSQ(persp board.Color, pos PositionView, out *IndexList) {
	ksq := pos.King(persp)
	for _, c := range colorOrder[persp] {
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.ColorBB(c) & pos.PiecesBB(c, pt)
			attkr := board.NewPiece(pt, c)
			runStart := out.Len()
			for bb != 0 {
				sq := bb.PopLSB()
				out.Push(s.makeIndex(persp, attkr, sq, sq, attkr, ksq))
			}
			out.sortRun(runStart)
		}
	}
}

// AppendActiveThreats appends every threat feature, grouped into sorted
// per-(color,kind) runs in perspective-relative color order (the from-order
// of a raw-square walk does not match the oriented-square order the offset
// table is built against, so each run needs an explicit sort).
func (s *SimplifiedThreats) AppendActiveThreats(persp board.Color, pos PositionView, out *IndexList) {
	ksq := pos.King(persp)
	occupied := pos.AllPieces()
	for _, c := range colorOrder[persp] {
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.ColorBB(c) & pos.PiecesBB(c, pt)
			attkr := board.NewPiece(pt, c)
			runStart := out.Len()
			for bb != 0 {
				from := bb.PopLSB()
				attacks := realAttacks(attkr, from, occupied) & occupied
				for attacks != 0 {
					to := attacks.PopLSB()
					attkd := pos.PieceOn(to)
					out.Push(s.makeIndex(persp, attkr, from, to, attkd, ksq))
				}
			}
			out.sortRun(runStart)
		}
	}
}

// AppendActiveFeatures fills both lists: the presence walk, then the
// threats walk.
func (s *SimplifiedThreats) AppendActiveFeatures(persp board.Color, pos PositionView, psq, threats *IndexList) {
	s.AppendActivePSQ(persp, pos, psq)
	s.AppendActiveThreats(persp, pos, threats)
}

// realAttacks returns an attacker's attack mask under the actual board
// occupancy, the membership test for "is this pair a threat at all".
func realAttacks(attkr board.Piece, from board.Square, occupied board.Bitboard) board.Bitboard {
	if attkr.Type() == board.Pawn {
		return board.PawnAttackMask(attkr.Color(), from)
	}
	return board.AttackMask(attkr.Type(), from, occupied)
}

// AppendChangedIndices computes presence-only deltas directly from a dirty
// piece record, matching the full variant's (and the spec's) presence fast
// path; threats deltas go through the general diff operator instead.
func (s *SimplifiedThreats) AppendChangedIndices(persp board.Color, ksq board.Square, dp *board.DirtyPiece, removed, added *IndexList) {
	for i := 0; i < dp.Num; i++ {
		pc := dp.Piece[i]
		if dp.From[i] != board.NoSquare {
			removed.Push(s.makeIndex(persp, pc, dp.From[i], dp.From[i], pc, ksq))
		}
		if dp.To[i] != board.NoSquare {
			added.Push(s.makeIndex(persp, pc, dp.To[i], dp.To[i], pc, ksq))
		}
	}
}

// RequiresRefresh reports whether the moving piece is persp's own king,
// the barrier documented for this variant (no orientation-table check: the
// simplified variant's anchors already fold into a single perspective
// axis, so any king move for persp forces a refresh).
func (s *SimplifiedThreats) RequiresRefresh(dp *board.DirtyPiece, persp board.Color) bool {
	return dp.Piece[0] == board.NewPiece(board.King, persp)
}
