package model

// Metadata describes the bundled ONNX model: tensor shapes, the ordered class
// labels and the square input resolution images must be resized to.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

// NumClasses returns the number of output classes, background included.
func (m Metadata) NumClasses() int {
	return len(m.Classes)
}
