// Neural VAD backend backed by the Silero VAD ONNX model, registry id
// "silero". Mirrors an onnxruntime-based detector: same state/context
// tensor shapes, same session options, same lifecycle.
//
//go:build vad

package vad

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	sileroStateLen   = 2 * 1 * 128
	sileroContextLen = 64
)

// runtimeInitialized tracks whether the ONNX runtime has been initialized.
var (
	runtimeInitialized bool
	runtimeMu          sync.Mutex
)

// InitRuntime initializes the ONNX runtime environment. libraryPath can be
// empty to use auto-detection, or specify the path to libonnxruntime.so.
// NewSileroBackend calls it with auto-detection if it has not run yet;
// calls after the first successful one are no-ops.
func InitRuntime(libraryPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if runtimeInitialized {
		return nil
	}

	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	} else if libPath := findONNXRuntimeLibrary(); libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	runtimeInitialized = true
	return nil
}

// DestroyRuntime destroys the ONNX runtime environment. Call once at
// application shutdown.
func DestroyRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !runtimeInitialized {
		return nil
	}

	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("failed to destroy ONNX runtime: %w", err)
	}

	runtimeInitialized = false
	return nil
}

func findONNXRuntimeLibrary() string {
	paths := []string{
		os.Getenv("ONNXRUNTIME_LIB"),
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/onnxruntime/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}

	if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
		for _, dir := range filepath.SplitList(ldPath) {
			paths = append(paths, filepath.Join(dir, "libonnxruntime.so"))
		}
	}
	if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
		for _, dir := range filepath.SplitList(dyldPath) {
			paths = append(paths, filepath.Join(dir, "libonnxruntime.dylib"))
		}
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// SileroConfig configures the neural VAD backend.
type SileroConfig struct {
	// ModelPath is the path to the ONNX Silero VAD model file.
	ModelPath string
	// SampleRate the model was exported for. Supported values: 8000, 16000.
	// The VAD processor always frames at 16000, so this is normally 16000.
	SampleRate int
}

// IsValid validates the backend configuration.
func (c SileroConfig) IsValid() error {
	if c.ModelPath == "" {
		return fmt.Errorf("silero: invalid ModelPath: should not be empty")
	}
	if c.SampleRate != 8000 && c.SampleRate != 16000 {
		return fmt.Errorf("silero: invalid SampleRate: valid values are 8000 and 16000")
	}
	return nil
}

// SileroBackend is the neural VAD backend, registry id "silero".
type SileroBackend struct {
	session *ort.DynamicAdvancedSession

	cfg SileroConfig

	state [sileroStateLen]float32
	ctx   [sileroContextLen]float32

	currSample int

	inputNames  []string
	outputNames []string
}

// NewSileroBackend creates a new neural VAD backend. InitRuntime must have
// been called, or will be auto-invoked with default discovery.
func NewSileroBackend(cfg SileroConfig) (*SileroBackend, error) {
	if err := cfg.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	runtimeMu.Lock()
	needsInit := !runtimeInitialized
	runtimeMu.Unlock()
	if needsInit {
		if err := InitRuntime(""); err != nil {
			return nil, fmt.Errorf("ONNX runtime not initialized: %w", err)
		}
	}

	b := &SileroBackend{
		cfg:         cfg,
		inputNames:  []string{"input", "state", "sr"},
		outputNames: []string{"output", "stateN"},
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, fmt.Errorf("failed to set graph optimization level: %w", err)
	}
	if err := options.SetIntraOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
	}
	if err := options.SetInterOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("failed to set inter-op threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, b.inputNames, b.outputNames, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	b.session = session
	return b, nil
}

// Infer implements Backend.
func (b *SileroBackend) Infer(samples []float32) (float32, error) {
	if b == nil {
		return 0, fmt.Errorf("silero: invalid nil backend")
	}
	if len(samples) != 512 {
		return 0, fmt.Errorf("silero: frame must be 512 samples, got %d", len(samples))
	}

	pcm := samples
	if b.currSample > 0 {
		pcm = append(b.ctx[:], samples...)
	}
	if len(samples) >= sileroContextLen {
		copy(b.ctx[:], samples[len(samples)-sileroContextLen:])
	}
	b.currSample += len(samples)

	inputShape := ort.NewShape(1, int64(len(pcm)))
	inputTensor, err := ort.NewTensor(inputShape, pcm)
	if err != nil {
		return 0, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	stateShape := ort.NewShape(2, 1, 128)
	stateTensor, err := ort.NewTensor(stateShape, b.state[:])
	if err != nil {
		return 0, fmt.Errorf("failed to create state tensor: %w", err)
	}
	defer stateTensor.Destroy()

	srShape := ort.NewShape(1)
	srData := []int64{int64(b.cfg.SampleRate)}
	srTensor, err := ort.NewTensor(srShape, srData)
	if err != nil {
		return 0, fmt.Errorf("failed to create sr tensor: %w", err)
	}
	defer srTensor.Destroy()

	outputShape := ort.NewShape(1, 1)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return 0, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	stateNShape := ort.NewShape(2, 1, 128)
	stateNTensor, err := ort.NewEmptyTensor[float32](stateNShape)
	if err != nil {
		return 0, fmt.Errorf("failed to create stateN tensor: %w", err)
	}
	defer stateNTensor.Destroy()

	inputs := []ort.Value{inputTensor, stateTensor, srTensor}
	outputs := []ort.Value{outputTensor, stateNTensor}

	if err := b.session.Run(inputs, outputs); err != nil {
		return 0, fmt.Errorf("failed to run inference: %w", err)
	}

	copy(b.state[:], stateNTensor.GetData())

	outputData := outputTensor.GetData()
	if len(outputData) == 0 {
		return 0, fmt.Errorf("empty output from inference")
	}
	return outputData[0], nil
}

// Reset implements Backend.
func (b *SileroBackend) Reset() error {
	if b == nil {
		return fmt.Errorf("silero: invalid nil backend")
	}
	for i := range b.state {
		b.state[i] = 0
	}
	for i := range b.ctx {
		b.ctx[i] = 0
	}
	b.currSample = 0
	return nil
}

// Destroy implements Backend.
func (b *SileroBackend) Destroy() error {
	if b == nil {
		return fmt.Errorf("silero: invalid nil backend")
	}
	if b.session != nil {
		if err := b.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
		b.session = nil
	}
	return nil
}

var _ Backend = (*SileroBackend)(nil)

// newSileroFromParams is the registry's "silero" constructor in builds
// compiled with the "vad" tag.
func newSileroFromParams(params BackendParams) (Backend, error) {
	modelPath := params["model_path"]
	return NewSileroBackend(SileroConfig{ModelPath: modelPath, SampleRate: 16000})
}
