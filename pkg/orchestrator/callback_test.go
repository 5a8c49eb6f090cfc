package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livecap/livecap/pkg/asr"
	"github.com/livecap/livecap/pkg/result"
)

func TestFeedAudioDeliversFinalToQueueAndCallback(t *testing.T) {
	o := newTestOrchestrator(t, asr.NewMockEngine("hello"), Options{})

	var delivered result.TranscriptionResult
	var gotCallback bool
	o.EnableCallbacks(func(r result.TranscriptionResult) {
		gotCallback = true
		delivered = r
	}, nil)

	err := o.FeedAudio(speechThenSilenceChunk().Samples, 16000)
	require.NoError(t, err)
	assert.True(t, gotCallback)
	assert.Equal(t, "hello", delivered.Text)

	r, ok := o.GetResult(time.Second)
	require.True(t, ok)
	assert.Equal(t, "hello", r.Text)
}

func TestFeedAudioEnableCallbacksIsIdempotent(t *testing.T) {
	o := newTestOrchestrator(t, asr.NewMockEngine("hello"), Options{})
	o.EnableCallbacks(nil, nil)
	o.EnableCallbacks(func(result.TranscriptionResult) { t.Fatal("should not be called, second registration is a no-op") }, nil)

	require.NoError(t, o.FeedAudio(speechThenSilenceChunk().Samples, 16000))
}

func TestGetResultTimesOutWhenEmpty(t *testing.T) {
	o := newTestOrchestrator(t, asr.NewMockEngine("hello"), Options{})
	o.EnableCallbacks(nil, nil)

	_, ok := o.GetResult(10 * time.Millisecond)
	assert.False(t, ok)
}

func TestFeedAudioPropagatesEngineError(t *testing.T) {
	engine := &asr.MockEngine{Reference: "x", TranscribeErr: assert.AnError}
	o := newTestOrchestrator(t, engine, Options{})
	o.EnableCallbacks(nil, nil)

	err := o.FeedAudio(speechThenSilenceChunk().Samples, 16000)
	require.Error(t, err)
}

func TestFinalizeCallbackReturnsResidualSegment(t *testing.T) {
	engine := asr.NewMockEngine("partial")
	o := newTestOrchestrator(t, engine, Options{})
	o.EnableCallbacks(nil, nil)

	samples := make([]float32, 2*512)
	require.NoError(t, o.FeedAudio(samples, 16000))

	r, err := o.FinalizeCallback()
	require.NoError(t, err)
	require.NotNil(t, r)
}
