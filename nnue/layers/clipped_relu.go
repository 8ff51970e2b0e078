package layers

// WeightScaleBits is the shift applied between affine layers to undo the
// fixed-point scaling their int8 weights carry.
const WeightScaleBits = 6

// ClippedReLUHashValue returns this layer's contribution to the stack hash.
func ClippedReLUHashValue(prevHash uint32) uint32 {
	return 0x538D24C7 + prevHash
}

// ClippedReLU clamps a shifted int32 accumulator to [0, 127] and narrows it
// to uint8 for the next affine layer's input.
type ClippedReLU struct {
	InputDimensions  int
	OutputDimensions int
}

// NewClippedReLU allocates a layer of the given width.
func NewClippedReLU(dims int) *ClippedReLU {
	return &ClippedReLU{InputDimensions: dims, OutputDimensions: dims}
}

// GetHashValue returns this layer's contribution to the stack hash.
func (c *ClippedReLU) GetHashValue(prevHash uint32) uint32 {
	return ClippedReLUHashValue(prevHash)
}

// Propagate applies the clamp.
func (c *ClippedReLU) Propagate(input []int32, output []uint8) {
	for i := 0; i < c.InputDimensions; i++ {
		v := input[i] >> WeightScaleBits
		if v < 0 {
			v = 0
		} else if v > 127 {
			v = 127
		}
		output[i] = uint8(v)
	}
}
