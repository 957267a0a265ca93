package overlay

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
)

// Canvas is a Surface backed by a gg raster context. The raster itself is
// only ever touched by the single in-flight render, but the committed frame
// may be read from other goroutines, so it lives behind its own mutex.
type Canvas struct {
	dc *gg.Context

	mu    sync.Mutex
	frame []byte
}

// NewCanvas allocates a canvas with the given pixel dimensions.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{dc: gg.NewContext(width, height)}
}

// Clear resets the canvas to a white background and drops any committed frame.
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.frame = nil
	c.mu.Unlock()
	c.dc.SetColor(color.White)
	c.dc.Clear()
}

// Invalidate encodes the current raster as the committed frame.
func (c *Canvas) Invalidate() error {
	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return err
	}
	c.mu.Lock()
	c.frame = buf.Bytes()
	c.mu.Unlock()
	return nil
}

func (c *Canvas) Push()                { c.dc.Push() }
func (c *Canvas) Pop()                 { c.dc.Pop() }
func (c *Canvas) Scale(sx, sy float64) { c.dc.Scale(sx, sy) }

func (c *Canvas) DrawImage(img image.Image, x, y int) { c.dc.DrawImage(img, x, y) }
func (c *Canvas) SetColor(col color.Color)            { c.dc.SetColor(col) }

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

// PNG returns a copy of the last committed frame, or nil if nothing has been
// committed since the last Clear. The copy stays valid across later renders.
func (c *Canvas) PNG() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == nil {
		return nil
	}
	out := make([]byte, len(c.frame))
	copy(out, c.frame)
	return out
}
