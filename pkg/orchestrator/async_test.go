package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livecap/livecap/pkg/asr"
)

func TestTranscribeAsyncYieldsFinalInOrder(t *testing.T) {
	engine := asr.NewMockEngine("hello world")
	o := newTestOrchestrator(t, engine, Options{MaxWorkers: 2})

	source := newFakeSource(speechThenSilenceChunk())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var finals []string
	for r := range o.TranscribeAsync(ctx, source) {
		if r.Final != nil {
			finals = append(finals, r.Final.Text)
		}
	}
	require.Len(t, finals, 1)
	assert.Equal(t, "hello world", finals[0])
}

func TestTranscribeAsyncClosesChannelOnExhaustion(t *testing.T) {
	engine := asr.NewMockEngine("hi")
	o := newTestOrchestrator(t, engine, Options{})

	source := newFakeSource()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count := 0
	for range o.TranscribeAsync(ctx, source) {
		count++
	}
	assert.Equal(t, 0, count)
	assert.True(t, source.Exhausted())
}

func TestTranscribeAsyncRespectsCancellation(t *testing.T) {
	engine := asr.NewMockEngine("hi")
	o := newTestOrchestrator(t, engine, Options{})

	source := newFakeSource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range o.TranscribeAsync(ctx, source) {
	}
}
