package segmentation

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch reports a model output whose shape cannot be decoded.
	ErrShapeMismatch = errors.New("unexpected output tensor shape")
	// ErrUnsupportedBatchSize reports a model output with a batch dimension
	// other than 1.
	ErrUnsupportedBatchSize = errors.New("unsupported batch size")
)

// Mask holds one class index per pixel, row-major.
type Mask struct {
	Width   int
	Height  int
	Classes []int
}

// At returns the class index at row i, column j.
func (m *Mask) At(i, j int) int {
	return m.Classes[i*m.Width+j]
}

// Decode reduces a raw model output of shape [1,numClasses,H,W] (or
// [numClasses,H,W]) to a per-pixel class-index mask by taking the argmax over
// the class axis. Ties resolve to the lowest class index, so repeated calls on
// the same tensor always produce the same mask.
func Decode(out *Tensor) (*Mask, error) {
	shape := out.Shape
	if len(shape) == 4 {
		if shape[0] != 1 {
			return nil, fmt.Errorf("%w: got batch of %d", ErrUnsupportedBatchSize, shape[0])
		}
		shape = shape[1:]
	}
	if len(shape) != 3 {
		return nil, fmt.Errorf("%w: rank %d after batch removal, want 3", ErrShapeMismatch, len(shape))
	}

	numClasses, h, w := int(shape[0]), int(shape[1]), int(shape[2])
	if numClasses <= 0 || h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, out.Shape)
	}
	plane := h * w
	if len(out.Data) != numClasses*plane {
		return nil, fmt.Errorf("%w: shape %v implies %d values, tensor holds %d",
			ErrShapeMismatch, out.Shape, numClasses*plane, len(out.Data))
	}

	classes := make([]int, plane)
	for i := 0; i < plane; i++ {
		best, bestScore := 0, out.Data[i]
		for c := 1; c < numClasses; c++ {
			// Strict > keeps the lowest class index on ties.
			if score := out.Data[c*plane+i]; score > bestScore {
				best, bestScore = c, score
			}
		}
		classes[i] = best
	}

	return &Mask{Width: w, Height: h, Classes: classes}, nil
}
