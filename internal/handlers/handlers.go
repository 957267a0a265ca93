package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/liuyinglao/DeepLabV3Example/internal/model"
	"github.com/liuyinglao/DeepLabV3Example/internal/orchestrator"
)

// Handler exposes the demo controls over HTTP: sample navigation, run state
// for the UI, and the segmentation trigger that returns the rendered overlay.
type Handler struct {
	orch *orchestrator.Orchestrator
	log  *logrus.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, log *logrus.Logger) *Handler {
	return &Handler{orch: orch, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// State reports the run state snapshot that drives control enablement.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.orch.Snapshot())
}

// Next advances the selected sample; a no-op on the last sample.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.orch.Next()
	h.State(w, r)
}

// Prev moves the selected sample back; a no-op on the first sample.
func (h *Handler) Prev(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.orch.Prev()
	h.State(w, r)
}

// Segment runs the full pipeline on the selected sample and responds with the
// overlay frame that run committed.
func (h *Handler) Segment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	frame, err := h.orch.Run(r.Context())
	switch {
	case errors.Is(err, model.ErrModelNotReady):
		http.Error(w, "Model is still loading, try again shortly", http.StatusServiceUnavailable)
	case errors.Is(err, orchestrator.ErrRunInProgress):
		http.Error(w, "A segmentation run is already in progress", http.StatusConflict)
	case err != nil:
		h.log.Errorf("Segmentation error: %v", err)
		http.Error(w, "Segmentation failed", http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "image/png")
		w.Write(frame)
	}
}
