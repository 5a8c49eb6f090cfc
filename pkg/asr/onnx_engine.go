// Local ONNX-backed ASR engines: Canary/Voxtral, ReazonSpeech and Parakeet.
// All three are CTC-style encoder models exported to ONNX; they share one
// session wrapper and differ only in their registry metadata and vocabulary
// file. Modeled on the same onnxruntime_go session lifecycle as the silero
// VAD backend (github.com/yalue/onnxruntime_go).
//
//go:build asr_onnx

package asr

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/livecap/livecap/pkg/langcode"
)

func init() {
	Register(Info{
		ID:                 "canary",
		DisplayName:        "NVIDIA Canary / Voxtral",
		Description:        "Local ONNX-exported multilingual CTC encoder",
		SupportedLanguages: []string{"en", "es", "fr", "de"},
		RequiresDownload:   true,
		DeviceSupport:      []Device{DeviceCPU, DeviceCUDA},
		Streaming:          false,
		DefaultParams: map[string]string{
			"model_dir": defaultModelDir("canary"),
		},
		Construct: func(device Device, params map[string]string) (Engine, error) {
			return newONNXEngine("canary", device, params, []string{"en", "es", "fr", "de"}, "")
		},
	})

	Register(Info{
		ID:                 "reazonspeech",
		DisplayName:        "ReazonSpeech",
		Description:        "Local ONNX-exported Japanese CTC encoder",
		SupportedLanguages: []string{"ja"},
		RequiresDownload:   true,
		DeviceSupport:      []Device{DeviceCPU, DeviceCUDA},
		Streaming:          false,
		DefaultParams: map[string]string{
			"model_dir": defaultModelDir("reazonspeech"),
		},
		Construct: func(device Device, params map[string]string) (Engine, error) {
			return newONNXEngine("reazonspeech", device, params, []string{"ja"}, "ja")
		},
	})

	Register(Info{
		ID:                 "parakeet-en",
		DisplayName:        "Parakeet (English)",
		Description:        "Local ONNX-exported English CTC encoder",
		SupportedLanguages: []string{"en"},
		RequiresDownload:   true,
		DeviceSupport:      []Device{DeviceCPU, DeviceCUDA},
		Streaming:          false,
		DefaultParams: map[string]string{
			"model_dir": defaultModelDir("parakeet-en"),
		},
		Construct: func(device Device, params map[string]string) (Engine, error) {
			return newONNXEngine("parakeet-en", device, params, []string{"en"}, "en")
		},
	})

	Register(Info{
		ID:                 "parakeet-ja",
		DisplayName:        "Parakeet (Japanese)",
		Description:        "Local ONNX-exported Japanese CTC encoder",
		SupportedLanguages: []string{"ja"},
		RequiresDownload:   true,
		DeviceSupport:      []Device{DeviceCPU, DeviceCUDA},
		Streaming:          false,
		DefaultParams: map[string]string{
			"model_dir": defaultModelDir("parakeet-ja"),
		},
		Construct: func(device Device, params map[string]string) (Engine, error) {
			return newONNXEngine("parakeet-ja", device, params, []string{"ja"}, "ja")
		},
	})
}

func defaultModelDir(engineID string) string {
	base := os.Getenv("LIVECAP_MODELS_DIR")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".cache", "livecap", "models")
	}
	return filepath.Join(base, engineID)
}

var onnxRuntimeMu sync.Mutex
var onnxRuntimeInit bool

func ensureONNXRuntime() error {
	onnxRuntimeMu.Lock()
	defer onnxRuntimeMu.Unlock()
	if onnxRuntimeInit {
		return nil
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("asr: failed to initialize ONNX runtime: %w", err)
	}
	onnxRuntimeInit = true
	return nil
}

// onnxEngine is the shared CTC-greedy-decode engine backing canary,
// reazonspeech and the two parakeet variants.
type onnxEngine struct {
	mu sync.RWMutex

	name      string
	modelDir  string
	device    Device
	langs     []string
	fixedLang string // non-empty for engines pinned to a single language

	session *ort.DynamicAdvancedSession
	vocab   []string // index -> token; index 0 is the CTC blank
}

func newONNXEngine(name string, device Device, params map[string]string, langs []string, fixedLang string) (Engine, error) {
	lang := params["language"]
	if fixedLang == "" && lang != "" && !langcode.Supports(langs, lang) {
		return nil, UnsupportedLanguageError(name, lang)
	}

	modelDir := params["model_dir"]
	if modelDir == "" {
		modelDir = defaultModelDir(name)
	}

	return &onnxEngine{
		name:      name,
		modelDir:  modelDir,
		device:    device,
		langs:     langs,
		fixedLang: fixedLang,
	}, nil
}

func (e *onnxEngine) EngineName() string { return e.name }

func (e *onnxEngine) RequiredSampleRate() int { return 16000 }

func (e *onnxEngine) SupportedLanguages() []string { return append([]string{}, e.langs...) }

func (e *onnxEngine) LoadModel(ctx context.Context, progress ProgressFunc) error {
	return RunLoad(ctx, e, progress)
}

func (e *onnxEngine) CheckDeps(ctx context.Context) error {
	return ensureONNXRuntime()
}

func (e *onnxEngine) PrepareDir(ctx context.Context) error {
	return os.MkdirAll(e.modelDir, 0o755)
}

// DownloadIfMissing verifies that the model and vocabulary files are present
// in modelDir. It does not download anything: a missing file fails with a
// KindModelDownload error.
func (e *onnxEngine) DownloadIfMissing(ctx context.Context, progress ProgressFunc) error {
	modelPath := filepath.Join(e.modelDir, "model.onnx")
	vocabPath := filepath.Join(e.modelDir, "vocab.txt")
	if _, err := os.Stat(modelPath); err != nil {
		return &Error{Kind: KindModelDownload, Message: fmt.Sprintf("%s: model file missing at %s", e.name, modelPath), Err: err}
	}
	if _, err := os.Stat(vocabPath); err != nil {
		return &Error{Kind: KindModelDownload, Message: fmt.Sprintf("%s: vocab file missing at %s", e.name, vocabPath), Err: err}
	}
	if progress != nil {
		progress(100, "model present")
	}
	return nil
}

func (e *onnxEngine) LoadFromPath(ctx context.Context) error {
	vocab, err := loadVocab(filepath.Join(e.modelDir, "vocab.txt"))
	if err != nil {
		return &Error{Kind: KindModelLoad, Message: "failed to load vocabulary", Err: err}
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return &Error{Kind: KindModelLoad, Message: "failed to create session options", Err: err}
	}
	defer options.Destroy()
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return &Error{Kind: KindModelLoad, Message: "failed to set graph optimization level", Err: err}
	}

	session, err := ort.NewDynamicAdvancedSession(
		filepath.Join(e.modelDir, "model.onnx"),
		[]string{"audio_signal"},
		[]string{"logprobs"},
		options,
	)
	if err != nil {
		return &Error{Kind: KindModelLoad, Message: "failed to create inference session", Err: err}
	}

	e.mu.Lock()
	e.session = session
	e.vocab = vocab
	e.mu.Unlock()
	return nil
}

func (e *onnxEngine) Configure(ctx context.Context) error { return nil }

func (e *onnxEngine) Transcribe(audio []float32, sr int) (string, float32, error) {
	if sr != e.RequiredSampleRate() {
		return "", 0, &Error{Kind: KindInvalidOption, Message: fmt.Sprintf("%s requires %d Hz, got %d", e.name, e.RequiredSampleRate(), sr)}
	}

	e.mu.RLock()
	session, vocab := e.session, e.vocab
	e.mu.RUnlock()
	if session == nil {
		return "", 0, &Error{Kind: KindModelLoad, Message: e.name + " used before LoadModel"}
	}

	inputShape := ort.NewShape(1, int64(len(audio)))
	inputTensor, err := ort.NewTensor(inputShape, audio)
	if err != nil {
		return "", 0, &Error{Kind: KindInference, Message: "failed to create input tensor", Err: err}
	}
	defer inputTensor.Destroy()

	numFrames := len(audio) / 320 // ~20ms encoder stride at 16kHz
	if numFrames < 1 {
		numFrames = 1
	}
	outputShape := ort.NewShape(1, int64(numFrames), int64(len(vocab)))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return "", 0, &Error{Kind: KindInference, Message: "failed to create output tensor", Err: err}
	}
	defer outputTensor.Destroy()

	if err := session.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor}); err != nil {
		return "", 0, &Error{Kind: KindInference, Message: "inference failed", Err: err}
	}

	text, confidence := ctcGreedyDecode(outputTensor.GetData(), numFrames, vocab)
	return text, confidence, nil
}

func (e *onnxEngine) Cleanup() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		if err := e.session.Destroy(); err != nil {
			return fmt.Errorf("asr: %s: failed to destroy session: %w", e.name, err)
		}
		e.session = nil
	}
	return nil
}

// ctcGreedyDecode collapses repeated argmax tokens and drops blanks (vocab
// index 0), the standard CTC greedy decode used by Conformer/Parakeet-style
// exported encoders.
func ctcGreedyDecode(logits []float32, numFrames int, vocab []string) (string, float32) {
	if len(vocab) == 0 || numFrames == 0 {
		return "", 0
	}
	vocabSize := len(vocab)

	var out []string
	prev := -1
	var sumConf float64
	for f := 0; f < numFrames; f++ {
		start := f * vocabSize
		if start+vocabSize > len(logits) {
			break
		}
		best, bestVal := 0, logits[start]
		for v := 1; v < vocabSize; v++ {
			if logits[start+v] > bestVal {
				best, bestVal = v, logits[start+v]
			}
		}
		sumConf += float64(bestVal)
		if best != 0 && best != prev {
			out = append(out, vocab[best])
		}
		prev = best
	}

	text := ""
	for _, tok := range out {
		text += tok
	}
	confidence := float32(0)
	if numFrames > 0 {
		confidence = float32(sumConf / float64(numFrames))
	}
	return text, confidence
}

func loadVocab(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vocab := []string{"<blank>"}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		vocab = append(vocab, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return vocab, nil
}

var _ Engine = (*onnxEngine)(nil)
var _ Loader = (*onnxEngine)(nil)
