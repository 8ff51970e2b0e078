package accum

import "github.com/corvid-chess/nnuecore/nnue/features"

// Source is the weight-column provider the accumulator adds and subtracts
// against: a feature transformer's bias vector and weight matrix, kept as
// an interface here so this package never imports the parameter-file or
// layer-stack code that produces one.
type Source interface {
	HalfDimensions() int
	Biases() []int16
	Column(idx uint32) []int16
}

// Accumulator holds one perspective's transformed-feature vector.
type Accumulator struct {
	V []int16
}

// NewAccumulator allocates a zeroed accumulator of the given width.
func NewAccumulator(halfDimensions int) *Accumulator {
	return &Accumulator{V: make([]int16, halfDimensions)}
}

// Refresh recomputes the accumulator from scratch: bias plus every active
// feature's weight column.
func (a *Accumulator) Refresh(src Source, active *features.IndexList) {
	copy(a.V, src.Biases())
	for i := 0; i < active.Len(); i++ {
		addRow(a.V, src.Column(active.At(i)))
	}
}

// ApplyDiff copies prev's values then applies added/removed feature
// columns, the incremental update's core arithmetic.
func (a *Accumulator) ApplyDiff(src Source, prev *Accumulator, removed, added *features.IndexList) {
	copy(a.V, prev.V)
	for i := 0; i < added.Len(); i++ {
		addRow(a.V, src.Column(added.At(i)))
	}
	for i := 0; i < removed.Len(); i++ {
		subRow(a.V, src.Column(removed.At(i)))
	}
}

// CopyFrom copies another accumulator's values verbatim (the "no changes"
// shortcut in the incremental update).
func (a *Accumulator) CopyFrom(prev *Accumulator) {
	copy(a.V, prev.V)
}

func addRow(dst, row []int16) {
	for i, w := range row {
		dst[i] += w
	}
}

func subRow(dst, row []int16) {
	for i, w := range row {
		dst[i] -= w
	}
}
