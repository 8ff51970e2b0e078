package features

import "github.com/corvid-chess/nnuecore/internal/board"

// FullThreats is the 80624-dimensional Threats feature set: a presence
// range identical in shape to Simplified_Threats' but placed at the top
// of the dimension space, and a threats range refined by a per-
// attacker/victim-type validity table that prunes impossible pairings
// and deduplicates symmetric same-type self-threats.
type FullThreats struct {
	offsets *threatOffsets
}

// fullHashValue matches the value the source this was ported from carries
// for this feature set (its header's 0x7f234cb8, not the 0x8f234cb8 a
// since-corrected draft of this file once used).
const fullHashValue uint32 = 0x7f234cb8

const fullDimensions = 80624
const fullPresenceBase = 79856
const fullMaxActiveDimensions = 160

// colorOrder gives the perspective-relative color walk order used by the
// threats extractor: a perspective always enumerates its own pieces
// before the opponent's.
var colorOrder = [2][2]board.Color{
	{board.White, board.Black},
	{board.Black, board.White},
}

func NewFullThreats() *FullThreats {
	f := &FullThreats{}
	f.offsets = buildThreatOffsets(func(piece int) int { return numValidTargets[piece] })
	return f
}

func (f *FullThreats) Dimensions() int          { return fullDimensions }
func (f *FullThreats) MaxActiveDimensions() int { return fullMaxActiveDimensions }
func (f *FullThreats) HashValue() uint32        { return fullHashValue }
func (f *FullThreats) Name() string             { return "Full_Threats" }

// makePSQIndex computes the presence-range index for a piece on a square.
func (f *FullThreats) makePSQIndex(persp board.Color, pc board.Piece, sq, ksq board.Square) uint32 {
	sq = orientSquare(persp, ksq, sq)
	if persp == board.Black {
		pc = board.Recolor(pc)
	}
	return uint32(fullPresenceBase + PieceSquareIndex[pc] + int(sq))
}

// makeThreatIndex computes the threats-range index for an attacker/victim
// pair, or reports no feature (ok==false) for an invalid pairing or a
// deduplicated symmetric self-threat.
func (f *FullThreats) makeThreatIndex(persp board.Color, attkr board.Piece, from, to board.Square, attkd board.Piece, ksq board.Square) (idx uint32, ok bool) {
	enemy := (attkr^attkd)&8 != 0
	from = orientSquare(persp, ksq, from)
	to = orientSquare(persp, ksq, to)
	if persp == board.Black {
		attkr = board.Recolor(attkr)
		attkd = board.Recolor(attkd)
	}
	atkType, vicType := attkr.Type(), attkd.Type()
	slot := threatMap[atkType-1][vicType-1]
	if slot < 0 {
		return 0, false
	}
	if atkType == vicType && (enemy || atkType != board.Pawn) && from < to {
		return 0, false
	}
	piece := int(attkr)
	attacks := attackMaskFor(attkr, from)
	multiplier := int(attkd.Color())*(numValidTargets[piece]/2) + slot
	result := f.offsets.base(piece) + multiplier*f.offsets.span(piece) + f.offsets.at(piece, int(from)) + popcountBelow(attacks, to)
	return uint32(result), true
}

// AppendActivePSQ appends the presence index for every occupied square,
// grouped into per-(color,kind) runs in perspective-relative color order
// and sorted within each run. Each run's base offset exceeds the last, but
// a run's own index order is NOT the raw-square walk order: orientSquare
// XORs in Orient[persp][ksq], which is not monotonic in sq whenever the
// king sits on the e-h files, so an explicit sort is required, not optional.
func (f *FullThreats) AppendActivePSQ(persp board.Color, pos PositionView, out *IndexList) {
	ksq := pos.King(persp)
	for _, c := range colorOrder[persp] {
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.ColorBB(c) & pos.PiecesBB(c, pt)
			pc := board.NewPiece(pt, c)
			runStart := out.Len()
			for bb != 0 {
				sq := bb.PopLSB()
				out.Push(f.makePSQIndex(persp, pc, sq, ksq))
			}
			out.sortRun(runStart)
		}
	}
}

// AppendActiveThreats appends every threat feature, grouped into sorted
// per-(color,kind) runs walked in perspective-relative color order.
func (f *FullThreats) AppendActiveThreats(persp board.Color, pos PositionView, out *IndexList) {
	f.walkThreats(persp, pos, out)
}

// AppendActiveFeatures fills both lists. The two walks run separately
// rather than interleaved (the source interleaves them within a single
// per-(color,kind) pass); the extra board pass is a cheap trade for
// keeping AppendActivePSQ reusable standalone.
func (f *FullThreats) AppendActiveFeatures(persp board.Color, pos PositionView, psq, threats *IndexList) {
	f.AppendActivePSQ(persp, pos, psq)
	f.walkThreats(persp, pos, threats)
}

// walkThreats performs the perspective-relative (color,kind) walk shared by
// AppendActiveThreats and AppendActiveFeatures, sorting each run before
// appending it.
func (f *FullThreats) walkThreats(persp board.Color, pos PositionView, out *IndexList) {
	ksq := pos.King(persp)
	occupied := pos.AllPieces()
	order := colorOrder[persp]
	for _, c := range order {
		for pt := board.Pawn; pt <= board.King; pt++ {
			attkr := board.NewPiece(pt, c)
			bb := pos.ColorBB(c) & pos.PiecesBB(c, pt)
			runStart := out.Len()
			if pt == board.Pawn {
				f.appendPawnThreats(persp, pos, c, attkr, bb, occupied, ksq, out)
			} else {
				for bb != 0 {
					from := bb.PopLSB()
					attacks := board.AttackMask(pt, from, occupied) & occupied
					for attacks != 0 {
						to := attacks.PopLSB()
						attkd := pos.PieceOn(to)
						if idx, ok := f.makeThreatIndex(persp, attkr, from, to, attkd, ksq); ok {
							out.Push(idx)
						}
					}
				}
			}
			out.sortRun(runStart)
		}
	}
}

// appendPawnThreats replicates the two-diagonal pawn-attack walk: each
// diagonal is computed as a single directional shift of the whole pawn
// bitboard intersected with actual occupancy, then each landing square's
// origin is recovered by subtracting the shift delta.
func (f *FullThreats) appendPawnThreats(persp board.Color, pos PositionView, c board.Color, attkr board.Piece, bb, occupied board.Bitboard, ksq board.Square, out *IndexList) {
	var diagA, diagB board.Bitboard
	var deltaA, deltaB int
	if c == board.White {
		diagA, deltaA = bb.NorthEast()&occupied, 9
		diagB, deltaB = bb.NorthWest()&occupied, 7
	} else {
		diagA, deltaA = bb.SouthWest()&occupied, -9
		diagB, deltaB = bb.SouthEast()&occupied, -7
	}
	for diagA != 0 {
		to := diagA.PopLSB()
		from := board.Square(int(to) - deltaA)
		attkd := pos.PieceOn(to)
		if idx, ok := f.makeThreatIndex(persp, attkr, from, to, attkd, ksq); ok {
			out.Push(idx)
		}
	}
	for diagB != 0 {
		to := diagB.PopLSB()
		from := board.Square(int(to) - deltaB)
		attkd := pos.PieceOn(to)
		if idx, ok := f.makeThreatIndex(persp, attkr, from, to, attkd, ksq); ok {
			out.Push(idx)
		}
	}
}

// AppendChangedIndices computes presence-only deltas directly from a dirty
// piece record; threats deltas go through the general diff operator.
func (f *FullThreats) AppendChangedIndices(persp board.Color, ksq board.Square, dp *board.DirtyPiece, removed, added *IndexList) {
	for i := 0; i < dp.Num; i++ {
		pc := dp.Piece[i]
		if dp.From[i] != board.NoSquare {
			removed.Push(f.makePSQIndex(persp, pc, dp.From[i], ksq))
		}
		if dp.To[i] != board.NoSquare {
			added.Push(f.makePSQIndex(persp, pc, dp.To[i], ksq))
		}
	}
}

// RequiresRefresh reports whether the moving piece is persp's own king and
// its move crossed an orientation-table boundary for persp.
func (f *FullThreats) RequiresRefresh(dp *board.DirtyPiece, persp board.Color) bool {
	return dp.Piece[0] == board.NewPiece(board.King, persp) &&
		Orient[persp][dp.From[0]] != Orient[persp][dp.To[0]]
}
