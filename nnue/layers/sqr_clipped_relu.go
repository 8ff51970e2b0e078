package layers

// SqrClippedReLUHashValue returns this layer's contribution to the stack
// hash (the same constant ClippedReLU uses; the two differ only in
// Propagate, not in identity).
func SqrClippedReLUHashValue(prevHash uint32) uint32 {
	return 0x538D24C7 + prevHash
}

// SqrClippedReLU squares its input before clamping, the skip-connection
// nonlinearity between the first affine layer and the rest of the stack.
type SqrClippedReLU struct {
	InputDimensions  int
	OutputDimensions int
}

// NewSqrClippedReLU allocates a layer of the given width.
func NewSqrClippedReLU(dims int) *SqrClippedReLU {
	return &SqrClippedReLU{InputDimensions: dims, OutputDimensions: dims}
}

// GetHashValue returns this layer's contribution to the stack hash.
func (s *SqrClippedReLU) GetHashValue(prevHash uint32) uint32 {
	return SqrClippedReLUHashValue(prevHash)
}

// Propagate applies square-then-clamp.
func (s *SqrClippedReLU) Propagate(input []int32, output []uint8) {
	const shift = 2*WeightScaleBits + 7
	for i := 0; i < s.InputDimensions; i++ {
		v := int64(input[i]) * int64(input[i])
		r := v >> shift
		if r > 127 {
			r = 127
		}
		output[i] = uint8(r)
	}
}
