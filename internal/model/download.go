package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Ensure returns a local path for the model artifact, downloading it into
// cacheDir on first use. Plain file paths are passed through untouched.
func Ensure(ctx context.Context, location, cacheDir string, log *logrus.Logger) (string, error) {
	if !strings.Contains(location, "://") {
		return location, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing model URL: %w", err)
	}
	dest := filepath.Join(cacheDir, path.Base(u.Path))

	if _, err := os.Stat(dest); err == nil {
		log.WithField("path", dest).Info("Model already cached")
		return dest, nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}

	log.WithFields(logrus.Fields{"url": location, "path": dest}).Info("Downloading model")
	if err := downloadToFile(ctx, location, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// downloadToFile streams the URL into a temp file in the destination
// directory, then renames it into place so a partial download is never
// mistaken for a cached model.
func downloadToFile(ctx context.Context, rawURL, destPath string) error {
	tempFile, err := os.CreateTemp(filepath.Dir(destPath), "model")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempName := tempFile.Name()
	defer os.Remove(tempName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		tempFile.Close()
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		tempFile.Close()
		return fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		tempFile.Close()
		return fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	if _, err := io.Copy(tempFile, resp.Body); err != nil {
		tempFile.Close()
		return fmt.Errorf("writing model: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempName, destPath); err != nil {
		return fmt.Errorf("moving model into cache: %w", err)
	}
	return nil
}
