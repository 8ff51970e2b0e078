package features

import "github.com/corvid-chess/nnuecore/internal/board"

// Orient gives, per perspective and king square, the xor-mask that maps a
// raw square to its perspective-oriented form: vertical mirror for the
// black perspective (so the king always looks up the board), plus a
// horizontal mirror when the king sits on files e-h (so the king is
// always on the a-d side). Shared by both Threats variants — the source
// constructs it identically for each (see full_threats.h's OrientTBL),
// so one table serves both rather than duplicating it per variant.
var Orient [2][64]int

func init() {
	for sq := 0; sq < 64; sq++ {
		file := sq & 7
		anchor := sqA1
		if file >= 4 {
			anchor = sqH1
		}
		Orient[board.White][sq] = anchor

		anchor = sqA8
		if file >= 4 {
			anchor = sqH8
		}
		Orient[board.Black][sq] = anchor
	}
}

// orientSquare maps a raw square to its perspective-oriented form.
func orientSquare(persp board.Color, ksq board.Square, sq board.Square) board.Square {
	return board.Square(int(sq) ^ Orient[persp][ksq])
}
