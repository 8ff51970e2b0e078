package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White   Color = 0
	Black   Color = 1
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a piece, independent of color.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 1
	Knight      PieceType = 2
	Bishop      PieceType = 3
	Rook        PieceType = 4
	Queen       PieceType = 5
	King        PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}
	if int(pt) >= len(chars) {
		return ' '
	}
	return chars[pt]
}

// PieceValue returns the material value of the piece type in centipawns.
// Index 0 (NoPieceType) is unused.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 20000}

// Piece combines PieceType and Color into a single value, encoded the way
// the feature indexer wants it: color*8 + pieceType, so that XOR 8 swaps
// color and masking with 7 recovers the type. White pieces occupy 1..6,
// black pieces occupy 9..14; 0, 7, 8 and 15 are unused.
type Piece uint8

const (
	NoPiece Piece = 0

	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 9
	BlackKnight Piece = 10
	BlackBishop Piece = 11
	BlackRook   Piece = 12
	BlackQueen  Piece = 13
	BlackKing   Piece = 14
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(c)<<3 | Piece(pt)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	return PieceType(p & 7)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	return Color(p >> 3)
}

// Recolor swaps the color of a piece, leaving its type unchanged. Mirrors
// Stockfish's `operator~` on Piece; never call it on NoPiece.
func Recolor(p Piece) Piece {
	return p ^ 8
}

// String returns the FEN character for the piece.
func (p Piece) String() string {
	if p == NoPiece {
		return " "
	}
	chars := [15]byte{0: ' ', 1: 'P', 2: 'N', 3: 'B', 4: 'R', 5: 'Q', 6: 'K',
		9: 'p', 10: 'n', 11: 'b', 12: 'r', 13: 'q', 14: 'k'}
	if int(p) >= len(chars) || chars[p] == 0 {
		return " "
	}
	return string(chars[p])
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
