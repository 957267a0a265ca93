package overlay

import (
	"bytes"
	"image/png"
	"testing"
)

func TestPNGReturnsStableCopy(t *testing.T) {
	canvas := NewCanvas(4, 4)
	canvas.Clear()
	if err := canvas.Invalidate(); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	frame := canvas.PNG()
	canvas.Clear()

	// The copy handed out earlier must survive the next run's Clear.
	if _, err := png.Decode(bytes.NewReader(frame)); err != nil {
		t.Fatalf("frame no longer decodes after Clear: %v", err)
	}
	if canvas.PNG() != nil {
		t.Error("Clear must drop the committed frame")
	}
}

func TestConcurrentFrameReadsAndCommits(t *testing.T) {
	canvas := NewCanvas(4, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			canvas.Clear()
			if err := canvas.Invalidate(); err != nil {
				t.Errorf("invalidate failed: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		if frame := canvas.PNG(); frame != nil {
			if _, err := png.Decode(bytes.NewReader(frame)); err != nil {
				t.Fatalf("read a torn frame: %v", err)
			}
		}
	}
	<-done
}
