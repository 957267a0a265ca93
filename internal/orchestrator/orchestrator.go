package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/liuyinglao/DeepLabV3Example/internal/model"
	"github.com/liuyinglao/DeepLabV3Example/internal/overlay"
	"github.com/liuyinglao/DeepLabV3Example/internal/segmentation"
)

// ErrRunInProgress is returned when a run is requested while another is still
// in flight. Runs are never queued or cancelled.
var ErrRunInProgress = errors.New("a segmentation run is already in progress")

// ErrNoSamples is returned when the orchestrator is constructed without any
// sample images to run on.
var ErrNoSamples = errors.New("no sample images configured")

// Fetcher loads one sample image.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*segmentation.Image, error)
}

// Provider exposes the model's readiness and forward pass. LoadErr reports a
// terminal load failure, which is distinct from "still loading".
type Provider interface {
	Ready() bool
	LoadErr() error
	Forward(input *segmentation.Tensor) (*segmentation.Tensor, error)
}

// Canvas is the drawing surface plus access to the frame it committed.
type Canvas interface {
	overlay.Surface
	PNG() []byte
}

// RunState is the UI-facing snapshot that drives control enablement.
type RunState struct {
	ModelReady    bool   `json:"model_ready"`
	ModelError    string `json:"model_error,omitempty"`
	Processing    bool   `json:"processing"`
	SelectedIndex int    `json:"selected_index"`
	SampleCount   int    `json:"sample_count"`
}

// Orchestrator sequences loader, preprocessor, model, decoder and renderer
// for one user-triggered run at a time. All mutable state lives here, behind
// one mutex; the processing flag is the sole mutual exclusion between runs.
type Orchestrator struct {
	provider Provider
	fetcher  Fetcher
	surface  Canvas
	palette  overlay.Palette
	box      overlay.Box
	samples  []string
	log      *logrus.Logger

	mu         sync.Mutex
	state      State
	processing bool
	selected   int
}

// New builds an orchestrator over the given collaborators. It starts in
// AwaitingModel and settles to Idle once the provider reports ready.
func New(provider Provider, fetcher Fetcher, surface Canvas, palette overlay.Palette,
	box overlay.Box, samples []string, log *logrus.Logger) (*Orchestrator, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return &Orchestrator{
		provider: provider,
		fetcher:  fetcher,
		surface:  surface,
		palette:  palette,
		box:      box,
		samples:  samples,
		log:      log,
		state:    AwaitingModel,
	}, nil
}

// Snapshot returns the current run state.
func (o *Orchestrator) Snapshot() RunState {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settleLocked()
	state := RunState{
		ModelReady:    o.provider.Ready(),
		Processing:    o.processing,
		SelectedIndex: o.selected,
		SampleCount:   len(o.samples),
	}
	if err := o.provider.LoadErr(); err != nil {
		state.ModelError = err.Error()
	}
	return state
}

// settleLocked completes the implicit AwaitingModel -> Idle transition once
// the provider reports ready. Caller holds o.mu.
func (o *Orchestrator) settleLocked() {
	if o.state == AwaitingModel && o.provider.Ready() {
		o.state = Idle
		o.log.Info("Model ready, orchestrator idle")
	}
}

// Next advances the selected sample index, clamped to the last sample. The
// selection is frozen while a run is in flight.
func (o *Orchestrator) Next() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.processing && o.selected < len(o.samples)-1 {
		o.selected++
	}
	return o.selected
}

// Prev moves the selected sample index back, clamped to zero.
func (o *Orchestrator) Prev() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.processing && o.selected > 0 {
		o.selected--
	}
	return o.selected
}

// Run executes one full segmentation pass over the selected sample: load,
// preprocess, infer, decode, render. On success it returns the committed
// frame as PNG; the frame is captured before the processing flag clears, so
// no later run can have started overwriting the surface. Requests are
// rejected while the model is loading or another run is in flight; any step
// failure aborts the run, and the state always returns to Idle.
func (o *Orchestrator) Run(ctx context.Context) ([]byte, error) {
	o.mu.Lock()
	o.settleLocked()
	if err := o.provider.LoadErr(); err != nil {
		o.mu.Unlock()
		return nil, fmt.Errorf("model load failed: %w", err)
	}
	if o.state == AwaitingModel || !o.provider.Ready() {
		o.mu.Unlock()
		return nil, model.ErrModelNotReady
	}
	if o.processing {
		o.mu.Unlock()
		return nil, ErrRunInProgress
	}
	o.processing = true
	location := o.samples[o.selected]
	o.mu.Unlock()

	frame, err := o.run(ctx, location)
	if err != nil {
		o.setState(Failed)
		o.log.WithField("sample", location).Errorf("Run failed: %v", err)
	}

	o.mu.Lock()
	o.processing = false
	o.state = Idle
	o.mu.Unlock()
	return frame, err
}

func (o *Orchestrator) run(ctx context.Context, location string) ([]byte, error) {
	o.setState(Loading)
	img, err := o.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("loading sample: %w", err)
	}

	o.setState(Preprocessing)
	input, err := segmentation.Preprocess(img)
	if err != nil {
		return nil, fmt.Errorf("preprocessing: %w", err)
	}

	o.setState(Inferring)
	output, err := o.provider.Forward(input)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	o.setState(Decoding)
	mask, err := segmentation.Decode(output)
	if err != nil {
		return nil, fmt.Errorf("decoding mask: %w", err)
	}

	o.setState(Rendering)
	if err := overlay.Render(o.surface, img, mask, o.palette, o.box); err != nil {
		return nil, fmt.Errorf("rendering overlay: %w", err)
	}

	o.setState(Done)
	return o.surface.PNG(), nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.log.WithField("state", s.String()).Debug("State transition")
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settleLocked()
	return o.state
}
