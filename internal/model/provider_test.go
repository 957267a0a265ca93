package model

import (
	"errors"
	"testing"

	"github.com/liuyinglao/DeepLabV3Example/internal/segmentation"
)

func TestProviderNotReadyBeforeLoad(t *testing.T) {
	md := Metadata{
		InputShape:  []int64{1, 3, 4, 4},
		OutputShape: []int64{1, 3, 4, 4},
		ImageSize:   4,
		Classes:     []string{"background", "a", "b"},
	}
	p := NewProvider(md, quietLogger())

	if p.Ready() {
		t.Error("provider reported ready before Load ran")
	}
	input := &segmentation.Tensor{Shape: md.InputShape, Data: make([]float32, 48)}
	if _, err := p.Forward(input); !errors.Is(err, ErrModelNotReady) {
		t.Errorf("got %v, want ErrModelNotReady", err)
	}
	if got := p.Metadata().NumClasses(); got != 3 {
		t.Errorf("num classes = %d, want 3", got)
	}
}
