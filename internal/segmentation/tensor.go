package segmentation

// Tensor is a dense float32 array with an explicit shape, laid out row-major
// with the last axis varying fastest.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// NumElements returns the element count implied by the shape.
func (t *Tensor) NumElements() int {
	n := 1
	for _, d := range t.Shape {
		n *= int(d)
	}
	return n
}

// Image is an immutable RGB bitmap: interleaved 8-bit channels, row-major.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}
