package board

// MakeMove applies a move to the position and returns undo information,
// including the DirtyPiece record describing what changed. The accumulator
// updater walks this record instead of diffing full board snapshots.
//
// DirtyPiece.Num is always 1 or 2: a quiet move moves exactly one piece;
// a capture, promotion, en-passant capture, or castling move touches
// exactly two (mover plus the piece that vanished, appeared, or also
// moved). Entry 0 is always the moving piece itself.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		PawnKey:        p.PawnKey,
		Checkers:       p.Checkers,
		KingSquare:     p.KingSquare,
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		AllOccupied:    p.AllOccupied,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)

	if piece == NoPiece || piece.Color() != us {
		return undo
	}

	undo.Valid = true
	pt := piece.Type()

	dirty := DirtyPiece{Num: 1}
	dirty.Piece[0] = piece
	dirty.From[0] = from
	dirty.To[0] = to

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	if m.IsEnPassant() {
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.PawnKey ^= zobristPiece[them][Pawn][capturedSq]

		dirty.Num = 2
		dirty.Piece[1] = undo.CapturedPiece
		dirty.From[1] = capturedSq
		dirty.To[1] = NoSquare
	} else if captured := p.PieceAt(to); captured != NoPiece {
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
		if captured.Type() == Pawn {
			p.PawnKey ^= zobristPiece[them][Pawn][to]
		}

		dirty.Num = 2
		dirty.Piece[1] = captured
		dirty.From[1] = to
		dirty.To[1] = NoSquare
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]

	if pt == Pawn {
		p.PawnKey ^= zobristPiece[us][Pawn][from]
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
		p.PawnKey ^= zobristPiece[us][Pawn][to]

		// The pawn that arrived at `to` is replaced by the promoted piece;
		// entry 0 already recorded pawn From->To, so record the pawn's
		// removal and the promoted piece's appearance as entry 1.
		dirty.Piece[0] = piece
		dirty.To[0] = NoSquare
		if dirty.Num == 1 {
			dirty.Num = 2
			dirty.Piece[1] = NewPiece(promoPt, us)
			dirty.From[1] = NoSquare
			dirty.To[1] = to
		} else {
			// Promotion with capture: three logical changes don't fit in
			// two slots, so fold the capture's removal and the pawn's
			// removal into entry 1 (both vanish at `to`/`from`) and use
			// entry 0 for the promoted piece's appearance.
			dirty.Piece[0] = NewPiece(promoPt, us)
			dirty.From[0] = NoSquare
			dirty.To[0] = to
			dirty.Piece[1] = piece
			dirty.From[1] = from
			dirty.To[1] = NoSquare
		}
	}

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]

		dirty.Num = 2
		dirty.Piece[1] = NewPiece(Rook, us)
		dirty.From[1] = rookFrom
		dirty.To[1] = rookTo
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}

	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}

	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	usKingSq := p.KingSquare[us]
	if p.IsSquareAttacked(usKingSq, them) {
		p.UnmakeMove(m, undo)
		undo.Valid = false
	}

	undo.Dirty = dirty
	return undo
}

// UnmakeMove undoes a move using the stored undo information. Restores the
// full snapshot rather than inverting the DirtyPiece record, since the
// snapshot is already captured and inversion would just redo the same work.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	us := p.SideToMove.Other()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.PawnKey = undo.PawnKey
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.Pieces = undo.Pieces
	p.Occupied = undo.Occupied
	p.AllOccupied = undo.AllOccupied
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}
}
