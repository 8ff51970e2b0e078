// Package layers implements the output-stack layers a Network propagates
// transformed features through: affine (fully connected) layers and the
// clipped activation functions between them.
package layers

import (
	"fmt"
	"io"

	"github.com/corvid-chess/nnuecore/nnue/common"
)

// AffineTransformHashValue returns the hash contribution for an affine
// layer with the given output width.
func AffineTransformHashValue(prevHash uint32, outputDims int) uint32 {
	hashValue := uint32(0xCC03DAE4)
	hashValue += uint32(outputDims)
	hashValue ^= prevHash >> 1
	hashValue ^= prevHash << 31
	return hashValue
}

// AffineTransform is a fully connected layer: int8 weights and int32
// biases over a uint8 input, scalar dot product only. The dual-lane SIMD
// kernels and the sparse-input variant the weight layout was originally
// padded for are a performance elaboration orthogonal to the layer's
// correctness, so this keeps the padded stride without the lanes that
// stride existed to feed.
type AffineTransform struct {
	InputDimensions       int
	OutputDimensions      int
	PaddedInputDimensions int

	Biases  []int32
	Weights []int8
}

// NewAffineTransform allocates a layer of the given shape.
func NewAffineTransform(inputDims, outputDims int) *AffineTransform {
	padded := common.CeilToMultiple(inputDims, common.MaxSimdWidth)
	return &AffineTransform{
		InputDimensions:       inputDims,
		OutputDimensions:      outputDims,
		PaddedInputDimensions: padded,
		Biases:                make([]int32, outputDims),
		Weights:               make([]int8, outputDims*padded),
	}
}

// GetHashValue returns this layer's contribution to the stack hash.
func (a *AffineTransform) GetHashValue(prevHash uint32) uint32 {
	return AffineTransformHashValue(prevHash, a.OutputDimensions)
}

// ReadParameters reads biases then weights from the parameter stream. The
// file stores weights in the padded, row-major layout; no descrambling is
// needed without the SIMD-chunked layout the original scrambled them for.
func (a *AffineTransform) ReadParameters(r io.Reader) error {
	if err := common.ReadLittleEndianSlice(r, a.Biases); err != nil {
		return fmt.Errorf("read affine biases: %w", err)
	}
	if err := common.ReadLittleEndianSlice(r, a.Weights); err != nil {
		return fmt.Errorf("read affine weights: %w", err)
	}
	return nil
}

// Propagate computes output = weights*input + bias.
func (a *AffineTransform) Propagate(input []uint8, output []int32) {
	for i := 0; i < a.OutputDimensions; i++ {
		row := a.Weights[i*a.PaddedInputDimensions : i*a.PaddedInputDimensions+a.InputDimensions]
		sum := int32(0)
		for j, w := range row {
			sum += int32(w) * int32(input[j])
		}
		output[i] = a.Biases[i] + sum
	}
}
