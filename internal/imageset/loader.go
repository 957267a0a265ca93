package imageset

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	"github.com/liuyinglao/DeepLabV3Example/internal/segmentation"
)

// Loader fetches sample images and converts them to the model's working
// resolution. Samples may be remote URLs or local file paths.
type Loader struct {
	client *http.Client
	size   int
	log    *logrus.Logger
}

// NewLoader returns a loader that resizes every sample to a size×size square,
// the fixed input resolution of the model session.
func NewLoader(size int, log *logrus.Logger) *Loader {
	return &Loader{client: http.DefaultClient, size: size, log: log}
}

// Fetch retrieves, decodes and resizes one sample image.
func (l *Loader) Fetch(ctx context.Context, location string) (*segmentation.Image, error) {
	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", location, err)
	}
	l.log.WithFields(logrus.Fields{
		"image":  location,
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Info("Sample image loaded")

	resized := resize.Resize(uint(l.size), uint(l.size), img, resize.Lanczos3)
	return FromImage(resized), nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", location, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: unexpected status %s", location, resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", location, err)
	}
	return f, nil
}

// FromImage flattens a decoded image into interleaved RGB bytes.
func FromImage(img image.Image) *segmentation.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			pix = append(pix, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return &segmentation.Image{Width: w, Height: h, Pix: pix}
}
