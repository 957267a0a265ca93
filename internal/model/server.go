package model

import (
	"encoding/json"
	"fmt"
	"os"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/liuyinglao/DeepLabV3Example/internal/segmentation"
)

// Server owns the ONNX Runtime session and the input/output tensors bound to
// it. The session is created with the fixed shapes from the model metadata.
type Server struct {
	session      *ort.AdvancedSession
	Metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// LoadMetadata reads and parses the model metadata file.
func LoadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	var md Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return md, nil
}

// NewServer initializes the ONNX environment and creates a session for the
// model at modelPath.
func NewServer(modelPath string, md Metadata) (*Server, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputShape := ort.NewShape(md.InputShape...)
	outputShape := ort.NewShape(md.OutputShape...)

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Server{
		session:      session,
		Metadata:     md,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Forward runs one inference pass and returns a copy of the output tensor
// with the metadata's output shape attached.
func (s *Server) Forward(input *segmentation.Tensor) (*segmentation.Tensor, error) {
	dst := s.inputTensor.GetData()
	if len(input.Data) != len(dst) {
		return nil, fmt.Errorf("input tensor holds %d values, model expects %d",
			len(input.Data), len(dst))
	}
	copy(dst, input.Data)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := s.outputTensor.GetData()
	data := make([]float32, len(out))
	copy(data, out)
	return &segmentation.Tensor{
		Shape: append([]int64(nil), s.Metadata.OutputShape...),
		Data:  data,
	}, nil
}

// Close releases the session and its tensors.
func (s *Server) Close() {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	ort.DestroyEnvironment()
}
