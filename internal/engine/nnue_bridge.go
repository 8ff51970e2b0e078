package engine

import (
	"github.com/corvid-chess/nnuecore/internal/board"
)

// nnueEvaluate performs NNUE evaluation for the worker's position, driving
// the accumulator chain's updater forward to the current search node for
// each perspective before handing the pair of accumulators to the network's
// output layer stack.
func (w *Worker) nnueEvaluate() int {
	if w.nnueNet == nil || w.nnueChain == nil {
		return EvaluateWithPawnTable(w.pos, w.pawnTable)
	}

	tail := w.nnueChain.Tail
	w.nnueUpdater.Update(tail, board.White)
	w.nnueUpdater.Update(tail, board.Black)

	sideToMove := board.White
	if w.pos.SideToMove == board.Black {
		sideToMove = board.Black
	}

	score := w.nnueNet.Evaluate(tail.Accumulator(board.White), tail.Accumulator(board.Black), sideToMove)

	// Rule50 dampening, as the teacher's evaluator applies to its own NNUE score.
	rule50 := int(w.pos.HalfMoveClock)
	score -= score * rule50 / 199

	return score
}
