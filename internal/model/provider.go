package model

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/liuyinglao/DeepLabV3Example/internal/segmentation"
)

// ErrModelNotReady is returned when inference is requested before the model
// has finished loading. The caller is expected to retry later; nothing is
// queued.
var ErrModelNotReady = errors.New("model is not ready")

// Provider loads the model in the background and guards Forward until it is
// ready. Loading happens once; a load failure is terminal.
type Provider struct {
	md  Metadata
	log *logrus.Logger

	mu      sync.Mutex
	server  *Server
	loadErr error
}

// NewProvider returns a provider for the model described by md. The model
// itself is not loaded until Load runs.
func NewProvider(md Metadata, log *logrus.Logger) *Provider {
	return &Provider{md: md, log: log}
}

// Load fetches the model artifact and initializes the ONNX session. It is
// intended to run in its own goroutine; Ready flips once it completes.
func (p *Provider) Load(ctx context.Context, modelURL, cacheDir string) {
	modelPath, err := Ensure(ctx, modelURL, cacheDir, p.log)
	if err != nil {
		p.fail(err)
		return
	}
	server, err := NewServer(modelPath, p.md)
	if err != nil {
		p.fail(err)
		return
	}

	p.mu.Lock()
	p.server = server
	p.mu.Unlock()
	p.log.WithField("path", modelPath).Info("Model ready")
}

func (p *Provider) fail(err error) {
	p.mu.Lock()
	p.loadErr = err
	p.mu.Unlock()
	p.log.Errorf("Model load failed: %v", err)
}

// Ready reports whether the model can serve inference.
func (p *Provider) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.server != nil
}

// LoadErr returns the terminal load failure, if any. A provider that is still
// loading reports neither ready nor an error.
func (p *Provider) LoadErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

// Metadata returns the model description the provider was created with.
func (p *Provider) Metadata() Metadata {
	return p.md
}

// Forward runs one inference pass, or returns ErrModelNotReady if the model
// has not finished loading.
func (p *Provider) Forward(input *segmentation.Tensor) (*segmentation.Tensor, error) {
	p.mu.Lock()
	server, loadErr := p.server, p.loadErr
	p.mu.Unlock()

	if server == nil {
		if loadErr != nil {
			return nil, loadErr
		}
		return nil, ErrModelNotReady
	}
	return server.Forward(input)
}

// Close releases the session if it was ever created.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.server != nil {
		p.server.Close()
		p.server = nil
	}
}
