package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livecap/livecap/pkg/asr"
	"github.com/livecap/livecap/pkg/audio"
	"github.com/livecap/livecap/pkg/result"
	"github.com/livecap/livecap/pkg/vad"
)

// speechThenSilence builds 6 frames of 512 samples each: 3 "speech"
// frames (probability forced to 1.0 by the mock backend) followed by 3
// "silence" frames (probability 0.0), which with the config below drives
// the state machine through Silence -> PotentialSpeech -> Speech -> Ending
// -> Silence, yielding exactly one final segment.
func speechThenSilenceChunk() audio.Chunk {
	samples := make([]float32, 6*512)
	return audio.Chunk{Samples: samples, SampleRate: 16000}
}

func smallConfig() vad.Config {
	return vad.Config{
		Threshold:            0.5,
		MinSpeechMs:          64,
		MinSilenceMs:         64,
		SpeechPadMs:          32,
		MaxSpeechMs:          0,
		InterimMinDurationMs: 0,
		InterimIntervalMs:    0,
	}
}

func newTestOrchestrator(t *testing.T, engine asr.Engine, opts Options) *Orchestrator {
	t.Helper()
	backend := vad.NewMockBackendWithSequence([]float32{1, 1, 1, 0, 0, 0})
	opts.Engine = engine
	opts.VADProcessor = vad.NewProcessor(backend, smallConfig())
	o, err := New(opts)
	require.NoError(t, err)
	return o
}

func TestOrchestratorRequiresEngine(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestOrchestratorRequiresLangsWithTranslator(t *testing.T) {
	_, err := New(Options{
		Engine:     asr.NewMockEngine("hello"),
		Translator: &fakeTranslator{},
	})
	assert.Error(t, err)
}

func TestTranscribeSyncFromChunksYieldsOneFinal(t *testing.T) {
	engine := asr.NewMockEngine("hello world")
	o := newTestOrchestrator(t, engine, Options{})

	chunks := make(chan audio.Chunk, 1)
	chunks <- speechThenSilenceChunk()
	close(chunks)

	var finals []result.TranscriptionResult
	err := o.TranscribeSyncFromChunks(chunks, func(r result.TranscriptionResult) {
		finals = append(finals, r)
	}, nil)
	require.NoError(t, err)
	require.Len(t, finals, 1)
	assert.Equal(t, "hello world", finals[0].Text)
	assert.True(t, finals[0].IsFinal)
	assert.LessOrEqual(t, finals[0].StartTimeS, finals[0].EndTimeS)
}

func TestTranscribeSyncFromChunksAppliesTranslation(t *testing.T) {
	engine := asr.NewMockEngine("hello world")
	tr := &fakeTranslator{}
	o := newTestOrchestrator(t, engine, Options{
		Translator: tr,
		SourceLang: "en",
		TargetLang: "ja",
	})

	chunks := make(chan audio.Chunk, 1)
	chunks <- speechThenSilenceChunk()
	close(chunks)

	var finals []result.TranscriptionResult
	err := o.TranscribeSyncFromChunks(chunks, func(r result.TranscriptionResult) {
		finals = append(finals, r)
	}, nil)
	require.NoError(t, err)
	require.Len(t, finals, 1)
	require.NotNil(t, finals[0].TranslatedText)
	assert.Equal(t, "hello world [translated]", *finals[0].TranslatedText)
	require.NotNil(t, finals[0].TargetLanguage)
	assert.Equal(t, "ja", *finals[0].TargetLanguage)
}

func TestTranscribeSyncFromChunksTranslationFailureDegradesGracefully(t *testing.T) {
	engine := asr.NewMockEngine("hello world")
	tr := &fakeTranslator{err: assert.AnError}
	o := newTestOrchestrator(t, engine, Options{
		Translator: tr,
		SourceLang: "en",
		TargetLang: "ja",
	})

	chunks := make(chan audio.Chunk, 1)
	chunks <- speechThenSilenceChunk()
	close(chunks)

	var finals []result.TranscriptionResult
	err := o.TranscribeSyncFromChunks(chunks, func(r result.TranscriptionResult) {
		finals = append(finals, r)
	}, nil)
	require.NoError(t, err)
	require.Len(t, finals, 1)
	assert.Nil(t, finals[0].TranslatedText)
}

func TestTranscribeSyncFromChunksEngineFailureBubblesAsTranscriptionError(t *testing.T) {
	engine := &asr.MockEngine{Reference: "x", TranscribeErr: assert.AnError}
	o := newTestOrchestrator(t, engine, Options{})

	chunks := make(chan audio.Chunk, 1)
	chunks <- speechThenSilenceChunk()
	close(chunks)

	err := o.TranscribeSyncFromChunks(chunks, func(r result.TranscriptionResult) {}, nil)
	require.Error(t, err)
	var tErr *TranscriptionError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindEngine, tErr.Kind)
}

func TestOrchestratorUsableAfterReset(t *testing.T) {
	engine := &asr.MockEngine{Reference: "x", TranscribeErr: assert.AnError}
	o := newTestOrchestrator(t, engine, Options{})

	chunks := make(chan audio.Chunk, 1)
	chunks <- speechThenSilenceChunk()
	close(chunks)
	err := o.TranscribeSyncFromChunks(chunks, func(r result.TranscriptionResult) {}, nil)
	require.Error(t, err)

	require.NoError(t, o.Reset())

	engine.TranscribeErr = nil
	chunks2 := make(chan audio.Chunk, 1)
	chunks2 <- speechThenSilenceChunk()
	close(chunks2)

	var finals []result.TranscriptionResult
	err = o.TranscribeSyncFromChunks(chunks2, func(r result.TranscriptionResult) {
		finals = append(finals, r)
	}, nil)
	require.NoError(t, err)
	assert.Len(t, finals, 1)
}

func TestOrchestratorCloseIsIdempotent(t *testing.T) {
	o := newTestOrchestrator(t, asr.NewMockEngine("x"), Options{})
	require.NoError(t, o.Close())
	require.NoError(t, o.Close())
}
