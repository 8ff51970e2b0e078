package features

import "github.com/corvid-chess/nnuecore/internal/board"

// threatOffsets is the per-piece, per-origin-square prefix-sum table used to
// place a threat feature within its attacker's slice of the threats range.
// threatOffsets[piece][sq] is the running popcount of the attacker's
// empty-board attack set over squares < sq; threatOffsets[piece][64] is the
// attacker's total square-offset span (one "half", enemy or friendly);
// threatOffsets[piece][65] is the attacker's base offset within the whole
// threats range (the running pieceoffset).
type threatOffsets struct {
	table [pieceCount][66]int
}

// buildThreatOffsets runs the prefix-sum pass once at init time. perPieceSpan
// gives the number of square-offset "halves" a piece's threats occupy: 2 for
// Simplified_Threats (friendly/enemy), numValidTargets[piece] for
// Full_Threats (one half per valid attacker/victim type pairing).
func buildThreatOffsets(perPieceSpan func(piece int) int) *threatOffsets {
	t := &threatOffsets{}
	pieceOffset := 0
	for piece := 0; piece < pieceCount; piece++ {
		pt := pieceTypeTable[piece]
		if pt == board.NoPieceType {
			continue
		}
		t.table[piece][65] = pieceOffset
		squareOffset := 0
		for from := 0; from < 64; from++ {
			t.table[piece][from] = squareOffset
			sq := board.Square(from)
			if pt != board.Pawn {
				squareOffset += board.AttackMask(pt, sq, board.Empty).PopCount()
			} else if from >= int(board.A2) && from <= int(board.H7) {
				c := board.Color(piece / 8)
				squareOffset += board.PawnAttackMask(c, sq).PopCount()
			}
		}
		t.table[piece][64] = squareOffset
		pieceOffset += perPieceSpan(piece) * squareOffset
	}
	return t
}

// base returns a piece's running offset within the threats range.
func (t *threatOffsets) base(piece int) int { return t.table[piece][65] }

// span returns a piece's square-offset span (one half).
func (t *threatOffsets) span(piece int) int { return t.table[piece][64] }

// at returns the prefix-sum offset for a piece's origin square.
func (t *threatOffsets) at(piece, from int) int { return t.table[piece][from] }
