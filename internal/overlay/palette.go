package overlay

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrPaletteIndexOutOfRange reports a mask class index with no palette
	// entry. The palette is validated against the model's class count at
	// startup, so hitting this mid-render means the configuration is wrong.
	ErrPaletteIndexOutOfRange = errors.New("mask class outside palette bounds")
	// ErrPaletteSize reports a palette whose length differs from the model's
	// class count.
	ErrPaletteSize = errors.New("palette size does not match model class count")
)

// Palette maps class indices to display colors. Index 0 is the background
// class and is never painted.
type Palette []color.Color

// ParsePalette builds a palette from hex color strings.
func ParsePalette(hex []string) (Palette, error) {
	p := make(Palette, 0, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// Validate checks the palette against the model's class count. The class
// ordering of the model and the palette is an implicit contract, so a length
// mismatch is treated as a fatal configuration error rather than clamped or
// wrapped.
func (p Palette) Validate(numClasses int) error {
	if len(p) != numClasses {
		return fmt.Errorf("%w: palette has %d entries, model reports %d classes",
			ErrPaletteSize, len(p), numClasses)
	}
	return nil
}

// defaultHex is the Pascal VOC colormap in class order; entry 0 is background.
var defaultHex = []string{
	"#000000", "#800000", "#008000", "#808000", "#000080", "#800080",
	"#008080", "#808080", "#400000", "#c00000", "#408000", "#c08000",
	"#400080", "#c00080", "#408080", "#c08080", "#004000", "#804000",
	"#00c000", "#80c000", "#004080",
}

// DefaultPalette returns the 21-class Pascal VOC palette the bundled
// DeepLabV3 model was trained against.
func DefaultPalette() Palette {
	p, err := ParsePalette(defaultHex)
	if err != nil {
		panic(err)
	}
	return p
}
