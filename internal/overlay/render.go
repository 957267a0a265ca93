package overlay

import (
	"fmt"
	"math"

	"github.com/liuyinglao/DeepLabV3Example/internal/segmentation"
)

// Box is the display region the rendered overlay must fit into.
type Box struct {
	Width  float64
	Height float64
}

// FitScale returns the uniform scale factor that fits an image of the given
// dimensions entirely within the box, preserving aspect ratio. The origin
// stays at the top-left; any unused margin is left as-is.
func FitScale(box Box, width, height int) float64 {
	return math.Min(box.Height/float64(height), box.Width/float64(width))
}

// Render draws the image scaled into the box and paints a unit rectangle in
// the class color over every non-background mask entry. The frame is
// committed only after the full draw sequence succeeds, so a failed render
// never leaves a partial overlay on the surface.
func Render(s Surface, img *segmentation.Image, mask *segmentation.Mask, pal Palette, box Box) error {
	if mask.Width != img.Width || mask.Height != img.Height {
		return fmt.Errorf("%w: mask is %dx%d, image is %dx%d",
			segmentation.ErrShapeMismatch, mask.Width, mask.Height, img.Width, img.Height)
	}

	s.Clear()
	if err := paint(s, img, mask, pal, box); err != nil {
		return err
	}
	return s.Invalidate()
}

// paint holds the scoped transform: the Pop is deferred so the scale is
// undone on every exit path, including mid-paint errors.
func paint(s Surface, img *segmentation.Image, mask *segmentation.Mask, pal Palette, box Box) error {
	s.Push()
	defer s.Pop()

	scale := FitScale(box, img.Width, img.Height)
	s.Scale(scale, scale)
	s.DrawImage(img.Bitmap(), 0, 0)

	for i := 0; i < mask.Height; i++ {
		for j := 0; j < mask.Width; j++ {
			class := mask.At(i, j)
			if class == 0 {
				continue
			}
			if class < 0 || class >= len(pal) {
				return fmt.Errorf("%w: class %d at (%d,%d), palette holds %d entries",
					ErrPaletteIndexOutOfRange, class, i, j, len(pal))
			}
			s.SetColor(pal[class])
			s.FillRect(float64(j), float64(i), 1, 1)
		}
	}
	return nil
}
