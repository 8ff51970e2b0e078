// Package nnue ties the Threats feature sets to a trained weight file and
// an output layer stack, producing the evaluation the search calls into.
package nnue

import (
	"fmt"
	"os"

	"github.com/corvid-chess/nnuecore/internal/board"
	"github.com/corvid-chess/nnuecore/nnue/accum"
	"github.com/corvid-chess/nnuecore/nnue/features"
	"github.com/corvid-chess/nnuecore/nnue/layers"
)

// Output stack dimensions. The teacher's architecture buckets this stack
// by piece count and doubles it for a PSQT split; this core has neither
// (one feature set per network, no PSQT accumulation), so one fixed
// single-bucket stack shape covers every Threats network.
const (
	l1Outputs = 16 // FC0 output width (L2+1 in the teacher's naming)
	l2Outputs = 32 // FC1 output width
)

// Network is a loaded, ready-to-evaluate Threats network: the feature set
// that indexes positions into it, the transformer that accumulates those
// indices, and the affine/activation stack that turns the accumulator
// pair into a centipawn score.
type Network struct {
	FeatureSet  features.Set
	Transformer *Transformer
	Description string

	fc0    *layers.AffineTransform
	acSqr0 *layers.SqrClippedReLU
	ac0    *layers.ClippedReLU
	fc1    *layers.AffineTransform
	ac1    *layers.ClippedReLU
	fc2    *layers.AffineTransform
}

func newNetwork(set features.Set) *Network {
	fc0Out := l1Outputs
	return &Network{
		FeatureSet:  set,
		Transformer: newTransformer(set.Dimensions()),
		fc0:         layers.NewAffineTransform(transformerHalfDimensions, fc0Out),
		acSqr0:      layers.NewSqrClippedReLU(fc0Out),
		ac0:         layers.NewClippedReLU(fc0Out),
		fc1:         layers.NewAffineTransform(fc0Out*2, l2Outputs),
		ac1:         layers.NewClippedReLU(l2Outputs),
		fc2:         layers.NewAffineTransform(l2Outputs, 1),
	}
}

// archHash chains the output stack's layer hashes the way the transformer
// chains into the overall network hash, seeded by the transformer's width.
func (n *Network) archHash() uint32 {
	h := uint32(0xEC42E90D)
	h ^= uint32(n.Transformer.halfDimensions * 2)
	h = n.fc0.GetHashValue(h)
	h = n.ac0.GetHashValue(h) // ac0, not acSqr0 — matches the skip layer's hash, not the squared one
	h = n.fc1.GetHashValue(h)
	h = n.ac1.GetHashValue(h)
	h = n.fc2.GetHashValue(h)
	return h
}

func (n *Network) expectedHash() uint32 {
	return n.Transformer.GetHashValue(n.FeatureSet.HashValue()) ^ n.archHash()
}

// Hash returns the network's declared identity hash, the key the
// diagnostics store indexes this network's cached header and counters
// under.
func (n *Network) Hash() uint32 {
	return n.expectedHash()
}

// LoadNetwork reads a parameter file and returns the Network it describes.
// The feature set is selected by matching the file's declared hash against
// each known set's expected hash, so either Threats variant loads through
// this same entry point without a file-format flag naming which one.
func LoadNetwork(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open network file: %w", err)
	}
	defer f.Close()

	declaredHash, description, err := readHeader(f)
	if err != nil {
		return nil, fmt.Errorf("read network header: %w", err)
	}

	candidates := []features.Set{features.NewFullThreats(), features.NewSimplifiedThreats()}
	var net *Network
	for _, set := range candidates {
		candidate := newNetwork(set)
		if candidate.expectedHash() == declaredHash {
			net = candidate
			break
		}
	}
	if net == nil {
		return nil, fmt.Errorf("network hash %08x matches no known feature set", declaredHash)
	}
	net.Description = description

	if err := readBlockHash(f, net.Transformer.GetHashValue(net.FeatureSet.HashValue()), "transformer"); err != nil {
		return nil, err
	}
	if err := net.Transformer.ReadParameters(f); err != nil {
		return nil, fmt.Errorf("read transformer parameters: %w", err)
	}

	if err := readBlockHash(f, net.archHash(), "architecture"); err != nil {
		return nil, err
	}
	if err := net.fc0.ReadParameters(f); err != nil {
		return nil, fmt.Errorf("read fc0 parameters: %w", err)
	}
	if err := net.fc1.ReadParameters(f); err != nil {
		return nil, fmt.Errorf("read fc1 parameters: %w", err)
	}
	if err := net.fc2.ReadParameters(f); err != nil {
		return nil, fmt.Errorf("read fc2 parameters: %w", err)
	}

	return net, nil
}

// Evaluate propagates the accumulator pair for the side to move and its
// opponent through the output stack and returns a centipawn score from
// the side to move's perspective.
func (n *Network) Evaluate(white, black *accum.Accumulator, sideToMove board.Color) int {
	stm, other := white, black
	if sideToMove == board.Black {
		stm, other = black, white
	}

	transformed := make([]uint8, transformerHalfDimensions)
	n.Transformer.Transform(stm.V, other.V, transformed)

	fc0Out := make([]int32, l1Outputs)
	n.fc0.Propagate(transformed, fc0Out)

	acSqr0Out := make([]uint8, l1Outputs*2)
	n.acSqr0.Propagate(fc0Out, acSqr0Out[:l1Outputs])
	ac0Out := make([]uint8, l1Outputs)
	n.ac0.Propagate(fc0Out, ac0Out)
	copy(acSqr0Out[l1Outputs:], ac0Out)

	fc1Out := make([]int32, l2Outputs)
	n.fc1.Propagate(acSqr0Out, fc1Out)

	ac1Out := make([]uint8, l2Outputs)
	n.ac1.Propagate(fc1Out, ac1Out)

	fc2Out := make([]int32, 1)
	n.fc2.Propagate(ac1Out, fc2Out)

	// Skip connection from FC0's last output, scaled into the same
	// centipawn*OutputScale units FC2's output carries.
	const outputScale = 16
	fwd := fc0Out[l1Outputs-1] * (600 * outputScale) / (127 * (1 << layers.WeightScaleBits))

	return int((fc2Out[0] + fwd) / outputScale)
}
