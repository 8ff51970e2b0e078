package features

import (
	"testing"

	"github.com/corvid-chess/nnuecore/internal/board"
)

// TestFullThreatsScenarioS1 mirrors the simplified variant's S1 but checks
// that the full variant prunes/keeps the same one threat (knight attacking
// a pawn is a valid attacker/victim pairing for every type combination).
func TestFullThreatsScenarioS1(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/2p5/8/1N2K3 w - - 0 1")
	f := NewFullThreats()

	var psq, threats IndexList
	f.AppendActivePSQ(board.White, pos, &psq)
	f.AppendActiveThreats(board.White, pos, &threats)

	if psq.Len() != 4 {
		t.Errorf("presence count = %d, want 4 (knight, pawn and both kings)", psq.Len())
	}
	if threats.Len() != 1 {
		t.Errorf("threat count = %d, want 1", threats.Len())
	}
	for i := 0; i < psq.Len(); i++ {
		if psq.At(i) < fullPresenceBase || psq.At(i) >= uint32(fullDimensions) {
			t.Errorf("presence index %d out of presence range", psq.At(i))
		}
	}
	for i := 0; i < threats.Len(); i++ {
		if threats.At(i) >= uint32(fullPresenceBase) {
			t.Errorf("threat index %d spills into the presence range", threats.At(i))
		}
	}
}

// TestFullThreatsScenarioS3 is S3 for the full variant: the starting
// position's back-rank pieces attack their own neighbors (threats count
// same-side attacks, per AppendActiveThreats intersecting with all
// occupancy, not just enemy), pruned and deduplicated by threatMap and
// the symmetric self-threat rule.
func TestFullThreatsScenarioS3(t *testing.T) {
	pos := board.NewPosition()
	f := NewFullThreats()

	var psq, threats IndexList
	f.AppendActivePSQ(board.White, pos, &psq)
	f.AppendActiveThreats(board.White, pos, &threats)

	if psq.Len() != 32 {
		t.Errorf("presence count = %d, want 32", psq.Len())
	}
	if threats.Len() != 38 {
		t.Errorf("threat count = %d, want 38", threats.Len())
	}
}

// TestFullThreatsSelfThreatDedup exercises the full variant's symmetric
// self-threat dedup: two rooks facing each other on an open rank produce
// only one threat feature between them, not two.
func TestFullThreatsSelfThreatDedup(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/R6r/8/8/4K3 w - - 0 1")
	f := NewFullThreats()

	var threats IndexList
	f.AppendActiveThreats(board.White, pos, &threats)

	count := 0
	for _, rook := range []board.Piece{board.WhiteRook, board.BlackRook} {
		lo := uint32(f.offsets.base(int(rook)))
		hi := lo + uint32(numValidTargets[rook]*f.offsets.span(int(rook)))
		for i := 0; i < threats.Len(); i++ {
			if threats.At(i) >= lo && threats.At(i) < hi {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("rook-vs-rook threat count = %d, want 1 (symmetric self-threat dedup)", count)
	}
}

// TestFullThreatsIndexRange is property 2 for the full variant.
func TestFullThreatsIndexRange(t *testing.T) {
	pos := board.NewPosition()
	f := NewFullThreats()

	for _, persp := range []board.Color{board.White, board.Black} {
		var psq, threats IndexList
		f.AppendActiveFeatures(persp, pos, &psq, &threats)
		for i := 0; i < psq.Len(); i++ {
			if psq.At(i) >= uint32(fullDimensions) {
				t.Errorf("persp %v: presence index %d out of range", persp, psq.At(i))
			}
		}
		for i := 0; i < threats.Len(); i++ {
			if threats.At(i) >= uint32(fullDimensions) {
				t.Errorf("persp %v: threat index %d out of range", persp, threats.At(i))
			}
		}
	}
}

// TestFullThreatsRequiresRefreshCrossesBoundary is S4: a king move that
// crosses the file-boundary under king-bucket orientation forces a
// refresh; one that stays on the same side of the board does not.
func TestFullThreatsRequiresRefreshCrossesBoundary(t *testing.T) {
	f := NewFullThreats()

	crossing := &board.DirtyPiece{
		Num:   1,
		Piece: [2]board.Piece{board.WhiteKing, board.NoPiece},
		From:  [2]board.Square{board.D1, board.NoSquare}, // a-d half
		To:    [2]board.Square{board.E1, board.NoSquare}, // e-h half
	}
	if !f.RequiresRefresh(crossing, board.White) {
		t.Errorf("RequiresRefresh = false for a boundary-crossing king move, want true")
	}

	sameSide := &board.DirtyPiece{
		Num:   1,
		Piece: [2]board.Piece{board.WhiteKing, board.NoPiece},
		From:  [2]board.Square{board.D1, board.NoSquare},
		To:    [2]board.Square{board.C1, board.NoSquare},
	}
	if f.RequiresRefresh(sameSide, board.White) {
		t.Errorf("RequiresRefresh = true for a same-side king move, want false")
	}

	nonKing := &board.DirtyPiece{
		Num:   1,
		Piece: [2]board.Piece{board.WhitePawn, board.NoPiece},
		From:  [2]board.Square{board.E2, board.NoSquare},
		To:    [2]board.Square{board.E4, board.NoSquare},
	}
	if f.RequiresRefresh(nonKing, board.White) {
		t.Errorf("RequiresRefresh = true for a non-king move, want false")
	}
}
