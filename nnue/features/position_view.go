package features

import "github.com/corvid-chess/nnuecore/internal/board"

// PositionView is the minimal read-only board query surface the extractor
// needs. board.Position already implements it; keeping it as an interface
// here means the extractor depends on a handful of methods rather than on
// the mutable Position type itself.
type PositionView interface {
	PieceOn(sq board.Square) board.Piece
	PiecesBB(c board.Color, pt board.PieceType) board.Bitboard
	ColorBB(c board.Color) board.Bitboard
	AllPieces() board.Bitboard
	King(c board.Color) board.Square
}

// maxIndexListCap bounds every IndexList: the full variant's 160 maximum
// active dimensions, which also covers the simplified variant's 128
// (spec's stated cap).
const maxIndexListCap = 160

// IndexList is a fixed-capacity, allocation-free list of feature indices,
// the Go shape of Stockfish's ValueList<IndexType, MaxActiveDimensions>.
type IndexList struct {
	values [maxIndexListCap]uint32
	size   int
}

// Push appends an index. Exceeding the cap is a contract violation per
// spec (IndexOverflow) and panics rather than silently truncating.
func (l *IndexList) Push(idx uint32) {
	if l.size >= maxIndexListCap {
		panic("features: IndexList overflow")
	}
	l.values[l.size] = idx
	l.size++
}

// Len returns the number of indices currently held.
func (l *IndexList) Len() int { return l.size }

// At returns the index at position i.
func (l *IndexList) At(i int) uint32 { return l.values[i] }

// Slice returns the held indices as a slice backed by the list's array.
func (l *IndexList) Slice() []uint32 { return l.values[:l.size] }

// Clear resets the list to empty without reallocating.
func (l *IndexList) Clear() { l.size = 0 }

// sortRun insertion-sorts the tail of l.values in [from, l.size) ascending.
// Per-(color,kind) runs are small (at most a few dozen entries), so
// insertion sort beats the overhead of sort.Slice here.
func (l *IndexList) sortRun(from int) {
	for i := from + 1; i < l.size; i++ {
		v := l.values[i]
		j := i - 1
		for j >= from && l.values[j] > v {
			l.values[j+1] = l.values[j]
			j--
		}
		l.values[j+1] = v
	}
}
