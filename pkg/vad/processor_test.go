package vad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestProcessorChunkFramingAtNativeRate(t *testing.T) {
	cfg := DefaultConfig()
	backend := NewMockBackendWithProb(0.9)
	p := NewProcessor(backend, cfg)

	minSpeechFrames := cfg.minSpeechFrames()
	paddingFrames := cfg.paddingFrames()
	minSilenceFrames := cfg.minSilenceFrames()

	speechSamples := (minSpeechFrames + paddingFrames + 5) * frameSamples
	chunk := tone(speechSamples, 0.8)

	segs, err := p.ProcessChunk(chunk, 16000)
	require.NoError(t, err)
	assert.Empty(t, segs)

	backend.InferFunc = func(frame []float32) (float32, error) { return 0.0, nil }
	silenceSamples := (minSilenceFrames + paddingFrames + 5) * frameSamples
	silence := tone(silenceSamples, 0.0)

	segs2, err := p.ProcessChunk(silence, 16000)
	require.NoError(t, err)

	var finals int
	for _, s := range segs2 {
		if s.IsFinal {
			finals++
		}
	}
	assert.Equal(t, 1, finals)
}

func TestProcessorCarriesPartialFrameAcrossChunks(t *testing.T) {
	backend := NewMockBackendWithProb(0.0)
	p := NewProcessor(backend, DefaultConfig())

	// 300 samples, less than one 512-sample frame: no Infer call yet.
	_, err := p.ProcessChunk(tone(300, 0.0), 16000)
	require.NoError(t, err)
	assert.Equal(t, 0, backend.GetInferCallCount())

	// Another 300 samples completes one frame (600 > 512) and carries 88.
	_, err = p.ProcessChunk(tone(300, 0.0), 16000)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.GetInferCallCount())
}

func TestProcessorResetClearsCarryAndTime(t *testing.T) {
	backend := NewMockBackendWithProb(0.0)
	p := NewProcessor(backend, DefaultConfig())

	_, err := p.ProcessChunk(tone(1200, 0.0), 16000)
	require.NoError(t, err)
	assert.Greater(t, p.CurrentTimeS(), 0.0)

	require.NoError(t, p.Reset())
	assert.Equal(t, 0.0, p.CurrentTimeS())
	assert.True(t, backend.ResetCalled)
}

func TestFromLanguageUnsupported(t *testing.T) {
	_, err := FromLanguage("xx-unknown")
	require.Error(t, err)

	var vadErr *Error
	require.ErrorAs(t, err, &vadErr)
	assert.Equal(t, KindUnsupportedLanguage, vadErr.Kind)
	assert.NotEmpty(t, vadErr.Supported)
}

func TestFromLanguageKnown(t *testing.T) {
	preset, err := FromLanguage("en")
	require.NoError(t, err)
	assert.Equal(t, "tenvad", preset.BackendID)
}

func TestNewProcessorFromLanguage(t *testing.T) {
	p, err := NewProcessorFromLanguage("ja")
	require.NoError(t, err)
	require.NotNil(t, p)
}
