package segmentation

import (
	"errors"
	"fmt"
	"image"
)

// ImageNet normalization constants, RGB channel order.
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// ErrInvalidImage reports an image that cannot be fed to the model.
var ErrInvalidImage = errors.New("invalid image")

// Bitmap converts the image into a stdlib RGBA bitmap for drawing.
func (img *Image) Bitmap() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		out.Pix[i*4+0] = img.Pix[i*3+0]
		out.Pix[i*4+1] = img.Pix[i*3+1]
		out.Pix[i*4+2] = img.Pix[i*3+2]
		out.Pix[i*4+3] = 0xff
	}
	return out
}

// Preprocess converts an RGB image into a normalized model input tensor of
// shape [1,3,H,W]: channel values are scaled to [0,1], reordered to
// channel-first layout, then normalized per channel with the ImageNet
// mean/std the model was trained with.
func Preprocess(img *Image) (*Tensor, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}
	want := img.Width * img.Height * 3
	if len(img.Pix) != want {
		return nil, fmt.Errorf("%w: pixel buffer holds %d bytes, want %d for 3 channels",
			ErrInvalidImage, len(img.Pix), want)
	}

	plane := img.Width * img.Height
	data := make([]float32, 3*plane)
	for i := 0; i < plane; i++ {
		for c := 0; c < 3; c++ {
			v := float32(img.Pix[i*3+c]) / 255.0
			data[c*plane+i] = (v - channelMean[c]) / channelStd[c]
		}
	}

	return &Tensor{
		Shape: []int64{1, 3, int64(img.Height), int64(img.Width)},
		Data:  data,
	}, nil
}
