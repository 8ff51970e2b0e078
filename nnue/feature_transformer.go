package nnue

import (
	"fmt"
	"io"

	"github.com/corvid-chess/nnuecore/nnue/common"
)

// transformerHalfDimensions is the accumulator width every Threats network
// this loader reads uses. Stockfish's HalfKAv2_hm networks size this per
// bucket count and PSQT split; this core drops both (single network, no
// PSQT accumulation), so one fixed width covers both feature sets.
const transformerHalfDimensions = 256

// Transformer is the feature transformer: an accum.Source (bias vector
// plus one weight column per input feature) together with the pairwise
// multiply that turns a finished accumulator pair into the output stack's
// first input.
type Transformer struct {
	inputDimensions int
	halfDimensions  int

	biases  []int16
	weights []int16 // inputDimensions rows of halfDimensions columns
}

// newTransformer allocates a transformer sized for a feature set with the
// given input dimension count.
func newTransformer(inputDimensions int) *Transformer {
	return &Transformer{
		inputDimensions: inputDimensions,
		halfDimensions:  transformerHalfDimensions,
		biases:          make([]int16, transformerHalfDimensions),
		weights:         make([]int16, inputDimensions*transformerHalfDimensions),
	}
}

// HalfDimensions implements accum.Source.
func (t *Transformer) HalfDimensions() int { return t.halfDimensions }

// Biases implements accum.Source.
func (t *Transformer) Biases() []int16 { return t.biases }

// Column implements accum.Source.
func (t *Transformer) Column(idx uint32) []int16 {
	off := int(idx) * t.halfDimensions
	return t.weights[off : off+t.halfDimensions]
}

// GetHashValue returns this transformer's contribution to the network hash.
func (t *Transformer) GetHashValue(setHash uint32) uint32 {
	return setHash ^ uint32(t.halfDimensions*2)
}

// ReadParameters reads the bias vector and weight matrix, both LEB128
// compressed the way the parameter format compresses every weight block.
func (t *Transformer) ReadParameters(r io.Reader) error {
	if err := common.ReadLEB128(r, t.biases); err != nil {
		return fmt.Errorf("read transformer biases: %w", err)
	}
	if err := common.ReadLEB128(r, t.weights); err != nil {
		return fmt.Errorf("read transformer weights: %w", err)
	}
	return nil
}

// Transform turns a finished accumulator pair into the output stack's
// uint8 input via clipped pairwise multiplication, the nonlinearity that
// replaces a plain concatenation between the feature transformer and the
// first affine layer.
func (t *Transformer) Transform(persp, other []int16, output []uint8) {
	half := t.halfDimensions / 2
	transformHalf(persp, half, output[:half])
	transformHalf(other, half, output[half:half*2])
}

func transformHalf(acc []int16, half int, output []uint8) {
	const maxVal = int16(127 * 2)
	for j := 0; j < half; j++ {
		a := acc[j]
		b := acc[j+half]
		if a < 0 {
			a = 0
		} else if a > maxVal {
			a = maxVal
		}
		if b < 0 {
			b = 0
		} else if b > maxVal {
			b = maxVal
		}
		output[j] = uint8((int(a) * int(b)) / 512)
	}
}
