package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults point at the public DeepLabV3 sample assets the demo ships with.
var defaultSamples = []string{
	"https://raw.githubusercontent.com/pytorch/hub/master/images/deeplab1.png",
	"https://raw.githubusercontent.com/pytorch/hub/master/images/dog.jpg",
	"https://raw.githubusercontent.com/pytorch/hub/master/images/classification.jpg",
}

// Config collects the runtime settings for the demo server.
type Config struct {
	Port         string
	ModelURL     string
	MetadataPath string
	CacheDir     string
	Samples      []string
	CanvasWidth  float64
	CanvasHeight float64
}

// FromEnv reads the configuration from environment variables, falling back to
// the bundled defaults.
func FromEnv() Config {
	return Config{
		Port:         getenv("PORT", "8080"),
		ModelURL:     getenv("MODEL_URL", "models/deeplabv3.onnx"),
		MetadataPath: getenv("MODEL_METADATA", filepath.Join("models", "metadata.json")),
		CacheDir:     getenv("MODEL_CACHE_DIR", filepath.Join(os.TempDir(), "deeplab-models")),
		Samples:      getenvList("SAMPLE_IMAGES", defaultSamples),
		CanvasWidth:  getenvFloat("CANVAS_WIDTH", 500),
		CanvasHeight: getenvFloat("CANVAS_HEIGHT", 250),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
