// Package features implements the two Threats input-feature sets
// (Simplified_Threats and Full_Threats) of the NNUE evaluation function,
// ported from Stockfish's nnue/features package.
package features

import "github.com/corvid-chess/nnuecore/internal/board"

// Square anchors used by the orientation tables.
const (
	sqA1 = int(board.A1)
	sqH1 = int(board.H1)
	sqA8 = int(board.A8)
	sqH8 = int(board.H8)
)

// pieceCount mirrors Stockfish's PIECE_NB: 16 slots to accommodate the
// color*8+kind encoding, of which 12 (white/black x pawn..king) are valid.
const pieceCount = 16

// PieceSquareIndex gives the presence-range base offset for each colored
// piece, white pieces occupying [0,384) and black [384,768). Index 0 and
// the unused slots (7, 8, 15) are never read.
var PieceSquareIndex = [pieceCount]int{
	0, 0, 64, 128, 192, 256, 320, 0,
	0, 384, 448, 512, 576, 640, 704, 0,
}

// pieceTypeTable maps the color*8+kind encoding to PieceType, NoPieceType
// for unused slots.
var pieceTypeTable = [pieceCount]board.PieceType{
	board.NoPieceType, board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King, board.NoPieceType,
	board.NoPieceType, board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King, board.NoPieceType,
}
