package features

import (
	"testing"

	"github.com/corvid-chess/nnuecore/internal/board"
)

func mustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// TestSimplifiedThreatsScenarioS1 covers spec scenario S1: an otherwise
// empty board with a white knight on b1 attacking an occupied black pawn
// on c3, king on e1/e8.
func TestSimplifiedThreatsScenarioS1(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/2p5/8/1N2K3 w - - 0 1")
	s := NewSimplifiedThreats()

	var psq, threats IndexList
	s.AppendActivePSQ(board.White, pos, &psq)
	s.AppendActiveThreats(board.White, pos, &threats)

	if psq.Len() != 4 {
		t.Errorf("presence count = %d, want 4 (knight, pawn and both kings)", psq.Len())
	}
	if threats.Len() != 1 {
		t.Errorf("threat count = %d, want 1 (knight b1 attacks occupied c3 only)", threats.Len())
	}
	for i := 0; i < psq.Len(); i++ {
		if psq.At(i) >= uint32(simplifiedDimensions) {
			t.Errorf("presence index %d out of range", psq.At(i))
		}
	}
	for i := 0; i < threats.Len(); i++ {
		if threats.At(i) < 768 || threats.At(i) >= uint32(simplifiedDimensions) {
			t.Errorf("threat index %d out of threats range", threats.At(i))
		}
	}
}

// TestSimplifiedThreatsScenarioS2 covers S2: the knight captures the pawn,
// leaving no threats (the knight now attacks only empty squares).
func TestSimplifiedThreatsScenarioS2(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/2N5/8/4K3 w - - 0 1")
	s := NewSimplifiedThreats()

	var psq, threats IndexList
	s.AppendActivePSQ(board.White, pos, &psq)
	s.AppendActiveThreats(board.White, pos, &threats)

	if psq.Len() != 3 {
		t.Errorf("presence count = %d, want 3 (white knight + both kings)", psq.Len())
	}
	if threats.Len() != 0 {
		t.Errorf("threat count = %d, want 0 (knight c3 attacks only empty squares)", threats.Len())
	}
}

// TestSimplifiedThreatsScenarioS3 covers S3: the starting position has 32
// presence features. Rank 2/7 pawns attack only empty squares (rank 3/6 is
// clear), but AppendActiveThreats intersects with all occupancy, not just
// enemy pieces, so every back-rank piece's attacks on its own neighbors
// (knights, bishops, rooks, queen, king) also count: 20 per side, 40 total.
func TestSimplifiedThreatsScenarioS3(t *testing.T) {
	pos := board.NewPosition()
	s := NewSimplifiedThreats()

	var psq, threats IndexList
	s.AppendActivePSQ(board.White, pos, &psq)
	s.AppendActiveThreats(board.White, pos, &threats)

	if psq.Len() != 32 {
		t.Errorf("presence count = %d, want 32", psq.Len())
	}
	if threats.Len() != 40 {
		t.Errorf("threat count = %d, want 40", threats.Len())
	}
}

// TestSimplifiedThreatsIndexRange is property 2: every produced index lies
// in [0, Dimensions).
func TestSimplifiedThreatsIndexRange(t *testing.T) {
	pos := board.NewPosition()
	s := NewSimplifiedThreats()

	for _, persp := range []board.Color{board.White, board.Black} {
		var psq, threats IndexList
		s.AppendActiveFeatures(persp, pos, &psq, &threats)
		for i := 0; i < psq.Len(); i++ {
			if psq.At(i) >= uint32(simplifiedDimensions) {
				t.Errorf("persp %v: presence index %d out of range", persp, psq.At(i))
			}
		}
		for i := 0; i < threats.Len(); i++ {
			if threats.At(i) >= uint32(simplifiedDimensions) {
				t.Errorf("persp %v: threat index %d out of range", persp, threats.At(i))
			}
		}
	}
}

// TestOrientationInvolution is property 8: xor-ing twice with the same
// mask is the identity.
func TestOrientationInvolution(t *testing.T) {
	for persp := board.White; persp <= board.Black; persp++ {
		for ksq := board.A1; ksq <= board.H8; ksq++ {
			for sq := board.A1; sq <= board.H8; sq++ {
				once := orientSquare(persp, ksq, sq)
				twice := orientSquare(persp, ksq, once)
				if twice != sq {
					t.Fatalf("persp=%v ksq=%v sq=%v: orient(orient(sq)) = %v, want %v", persp, ksq, sq, twice, sq)
				}
			}
		}
	}
}

// TestRequiresRefreshKingMove is part of S4: only a king move for persp
// triggers the refresh barrier for this variant.
func TestRequiresRefreshKingMove(t *testing.T) {
	s := NewSimplifiedThreats()

	kingMove := &board.DirtyPiece{
		Num:   1,
		Piece: [2]board.Piece{board.WhiteKing, board.NoPiece},
		From:  [2]board.Square{board.E1, board.NoSquare},
		To:    [2]board.Square{board.F1, board.NoSquare},
	}
	if !s.RequiresRefresh(kingMove, board.White) {
		t.Errorf("RequiresRefresh = false for a king move, want true")
	}

	pawnMove := &board.DirtyPiece{
		Num:   1,
		Piece: [2]board.Piece{board.WhitePawn, board.NoPiece},
		From:  [2]board.Square{board.E2, board.NoSquare},
		To:    [2]board.Square{board.E4, board.NoSquare},
	}
	if s.RequiresRefresh(pawnMove, board.White) {
		t.Errorf("RequiresRefresh = true for a non-king move, want false")
	}
}
