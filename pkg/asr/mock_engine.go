package asr

import "context"

// MockEngine is a test double satisfying Engine. By default it echoes a
// fixed reference transcript regardless of input, matching the "engine stub
// that returns the reference text verbatim" scenario used to test the
// orchestrator and file pipeline without a real model.
type MockEngine struct {
	Name       string
	SampleRate int
	Languages  []string
	Reference  string
	Confidence float32

	TranscribeFunc func(audio []float32, sr int) (string, float32, error)
	LoadErr        error
	TranscribeErr  error

	LoadCalled    bool
	CleanupCalled bool
	Calls         [][]float32
}

// NewMockEngine returns a MockEngine that always transcribes to reference.
func NewMockEngine(reference string) *MockEngine {
	return &MockEngine{
		Name:       "mock",
		SampleRate: 16000,
		Reference:  reference,
		Confidence: 1.0,
	}
}

func (m *MockEngine) LoadModel(ctx context.Context, progress ProgressFunc) error {
	m.LoadCalled = true
	if progress != nil {
		progress(0, "mock: starting")
		progress(100, "mock: ready")
	}
	return m.LoadErr
}

func (m *MockEngine) Transcribe(audio []float32, sr int) (string, float32, error) {
	m.Calls = append(m.Calls, audio)
	if m.TranscribeErr != nil {
		return "", 0, m.TranscribeErr
	}
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(audio, sr)
	}
	return m.Reference, m.Confidence, nil
}

func (m *MockEngine) RequiredSampleRate() int {
	if m.SampleRate == 0 {
		return 16000
	}
	return m.SampleRate
}

func (m *MockEngine) EngineName() string {
	if m.Name == "" {
		return "mock"
	}
	return m.Name
}

func (m *MockEngine) SupportedLanguages() []string { return m.Languages }

func (m *MockEngine) Cleanup() error {
	m.CleanupCalled = true
	return nil
}

var _ Engine = (*MockEngine)(nil)
