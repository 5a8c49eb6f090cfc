package asr

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/livecap/livecap/pkg/langcode"
)

func init() {
	Register(Info{
		ID:                 "whisper",
		DisplayName:        "OpenAI Whisper",
		Description:        "OpenAI's hosted Whisper transcription API",
		SupportedLanguages: append([]string{}, langcode.WhisperLanguages...),
		RequiresDownload:   false,
		DeviceSupport:      []Device{DeviceCPU},
		Streaming:          false,
		DefaultParams: map[string]string{
			"model": string(openai.Whisper1),
		},
		Construct: newWhisperEngine,
	})
}

// WhisperEngine implements the ASR engine contract against OpenAI's hosted
// Whisper API. Mirrors WhisperProvider's client construction (OPENAI_BASE_URL
// override) and PCM->WAV framing, reshaped into the load/transcribe/cleanup
// engine contract instead of a Provider/StreamingRecognizer pair.
type WhisperEngine struct {
	mu       sync.RWMutex
	client   *openai.Client
	model    string
	language string // normalized ISO 639-1

	apiKey string
}

func newWhisperEngine(device Device, params map[string]string) (Engine, error) {
	lang := params["language"]
	if lang != "" && !langcode.Supports(langcode.WhisperLanguages, lang) {
		return nil, UnsupportedLanguageError("whisper", lang)
	}

	model := params["model"]
	if model == "" {
		model = string(openai.Whisper1)
	}

	return &WhisperEngine{
		model:    model,
		language: langcode.Normalize(lang),
		apiKey:   params["api_key"],
	}, nil
}

// EngineName implements Engine.
func (w *WhisperEngine) EngineName() string { return "whisper" }

// RequiredSampleRate implements Engine. Whisper accepts 16kHz mono.
func (w *WhisperEngine) RequiredSampleRate() int { return 16000 }

// SupportedLanguages implements Engine.
func (w *WhisperEngine) SupportedLanguages() []string {
	return append([]string{}, langcode.WhisperLanguages...)
}

// LoadModel implements Engine via the shared template-method lifecycle.
// Whisper has no local model to download; the steps reduce to an API key
// presence check.
func (w *WhisperEngine) LoadModel(ctx context.Context, progress ProgressFunc) error {
	return RunLoad(ctx, w, progress)
}

// CheckDeps implements Loader.
func (w *WhisperEngine) CheckDeps(ctx context.Context) error {
	key := w.apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return &Error{Kind: KindDependencyMissing, Message: "OPENAI_API_KEY is not set and no api_key param was given"}
	}
	w.apiKey = key
	return nil
}

// PrepareDir implements Loader. No local directory needed.
func (w *WhisperEngine) PrepareDir(ctx context.Context) error { return nil }

// DownloadIfMissing implements Loader. Nothing to download for a hosted API.
func (w *WhisperEngine) DownloadIfMissing(ctx context.Context, progress ProgressFunc) error {
	return nil
}

// LoadFromPath implements Loader: constructs the API client.
func (w *WhisperEngine) LoadFromPath(ctx context.Context) error {
	clientConfig := openai.DefaultConfig(w.apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		clientConfig.BaseURL = baseURL
		slog.Info("whisper engine using custom base URL", "base_url", baseURL)
	}
	w.mu.Lock()
	w.client = openai.NewClientWithConfig(clientConfig)
	w.mu.Unlock()
	return nil
}

// Configure implements Loader. Nothing further to configure.
func (w *WhisperEngine) Configure(ctx context.Context) error { return nil }

// Transcribe implements Engine.
func (w *WhisperEngine) Transcribe(audio []float32, sr int) (string, float32, error) {
	if sr != w.RequiredSampleRate() {
		return "", 0, &Error{Kind: KindInvalidOption, Message: fmt.Sprintf("whisper requires %d Hz, got %d", w.RequiredSampleRate(), sr)}
	}

	w.mu.RLock()
	client := w.client
	w.mu.RUnlock()
	if client == nil {
		return "", 0, &Error{Kind: KindModelLoad, Message: "whisper engine used before LoadModel"}
	}

	wav, err := floatPCMToWAV(audio, sr)
	if err != nil {
		return "", 0, &Error{Kind: KindInference, Message: "failed to encode audio as WAV", Err: err}
	}

	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(wav),
	}
	if w.language != "" {
		req.Language = w.language
	}

	resp, err := client.CreateTranscription(context.Background(), req)
	if err != nil {
		return "", 0, &Error{Kind: KindInference, Message: "whisper API request failed", Err: err}
	}

	// The hosted API does not return a confidence score.
	return resp.Text, -1, nil
}

// Cleanup implements Engine. No resources to release for a hosted client.
func (w *WhisperEngine) Cleanup() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.client = nil
	return nil
}

// floatPCMToWAV converts normalized mono float32 PCM to a 16-bit WAV file,
// the format the Whisper API expects. Mirrors convertPCMToWAV, reworked for
// a float32 source instead of raw bytes.
func floatPCMToWAV(samples []float32, sampleRate int) ([]byte, error) {
	pcm16 := make([]byte, len(samples)*2)
	for i, s := range samples {
		clamped := s
		if clamped > 1 {
			clamped = 1
		} else if clamped < -1 {
			clamped = -1
		}
		v := int16(math.Round(float64(clamped) * 32767))
		pcm16[i*2] = byte(v)
		pcm16[i*2+1] = byte(v >> 8)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm16)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := uint32(sampleRate * 2)
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, uint16(2)) // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm16)))
	buf.Write(pcm16)

	return buf.Bytes(), nil
}

var _ Engine = (*WhisperEngine)(nil)
var _ Loader = (*WhisperEngine)(nil)
