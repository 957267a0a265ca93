package overlay

import (
	"image"
	"image/color"
)

// Surface is the drawing target for the overlay renderer. Push and Pop
// bracket a transform scope; every Push must be matched by a Pop so that no
// transform leaks into the next frame. Invalidate commits the pending draws.
type Surface interface {
	Clear()
	Invalidate() error
	Push()
	Pop()
	Scale(sx, sy float64)
	DrawImage(img image.Image, x, y int)
	SetColor(c color.Color)
	FillRect(x, y, w, h float64)
}
