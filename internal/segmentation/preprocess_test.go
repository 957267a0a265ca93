package segmentation

import (
	"errors"
	"math"
	"testing"
)

func solidImage(w, h int, r, g, b uint8) *Image {
	pix := make([]uint8, 0, w*h*3)
	for i := 0; i < w*h; i++ {
		pix = append(pix, r, g, b)
	}
	return &Image{Width: w, Height: h, Pix: pix}
}

func TestPreprocessShape(t *testing.T) {
	img := solidImage(5, 3, 10, 20, 30)
	tensor, err := Preprocess(img)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	want := []int64{1, 3, 3, 5}
	if len(tensor.Shape) != len(want) {
		t.Fatalf("shape rank %d, want %d", len(tensor.Shape), len(want))
	}
	for i, d := range want {
		if tensor.Shape[i] != d {
			t.Errorf("shape[%d] = %d, want %d", i, tensor.Shape[i], d)
		}
	}
	if len(tensor.Data) != tensor.NumElements() {
		t.Errorf("data holds %d values, shape implies %d", len(tensor.Data), tensor.NumElements())
	}
}

func TestPreprocessNormalization(t *testing.T) {
	// A pure red pixel: R=255 -> (1-0.485)/0.229, G=0 -> (0-0.456)/0.224,
	// B=0 -> (0-0.406)/0.225.
	img := solidImage(1, 1, 255, 0, 0)
	tensor, err := Preprocess(img)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	want := []float64{
		(1.0 - 0.485) / 0.229,
		(0.0 - 0.456) / 0.224,
		(0.0 - 0.406) / 0.225,
	}
	for c, w := range want {
		got := float64(tensor.Data[c])
		if math.Abs(got-w) > 1e-5 {
			t.Errorf("channel %d = %v, want %v", c, got, w)
		}
	}
}

func TestPreprocessChannelFirstLayout(t *testing.T) {
	// 2x1 image: left pixel (255,0,0), right pixel (0,255,0). In CHW layout
	// the red plane comes first, then green, then blue.
	img := &Image{Width: 2, Height: 1, Pix: []uint8{255, 0, 0, 0, 255, 0}}
	tensor, err := Preprocess(img)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	high := (1.0 - 0.485) / 0.229
	if got := float64(tensor.Data[0]); math.Abs(got-high) > 1e-5 {
		t.Errorf("red plane left pixel = %v, want %v", got, high)
	}
	highG := (1.0 - 0.456) / 0.224
	if got := float64(tensor.Data[3]); math.Abs(got-highG) > 1e-5 {
		t.Errorf("green plane right pixel = %v, want %v", got, highG)
	}
}

func TestPreprocessValueRange(t *testing.T) {
	img := solidImage(4, 4, 0, 0, 0)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 17 % 256)
	}
	tensor, err := Preprocess(img)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	// Every normalized value must lie in the range implied by inputs in [0,1].
	plane := 16
	for c := 0; c < 3; c++ {
		lo := (0.0 - channelMean[c]) / channelStd[c]
		hi := (1.0 - channelMean[c]) / channelStd[c]
		for i := 0; i < plane; i++ {
			v := tensor.Data[c*plane+i]
			if v < lo-1e-5 || v > hi+1e-5 {
				t.Fatalf("channel %d value %v outside [%v, %v]", c, v, lo, hi)
			}
		}
	}
}

func TestPreprocessRejectsBadImages(t *testing.T) {
	cases := []struct {
		name string
		img  *Image
	}{
		{"nil", nil},
		{"zero width", &Image{Width: 0, Height: 4, Pix: nil}},
		{"zero height", &Image{Width: 4, Height: 0, Pix: nil}},
		{"short buffer", &Image{Width: 2, Height: 2, Pix: make([]uint8, 8)}},
		{"four channels", &Image{Width: 2, Height: 2, Pix: make([]uint8, 16)}},
	}
	for _, tc := range cases {
		if _, err := Preprocess(tc.img); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%s: got %v, want ErrInvalidImage", tc.name, err)
		}
	}
}
