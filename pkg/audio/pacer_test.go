package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealtimePacerFirstChunkWaitsAtMostItsDuration(t *testing.T) {
	p := NewRealtimePacer()
	start := time.Now()
	// First call establishes the clock and sleeps about the chunk's own
	// 10ms duration, well under the 50ms bound.
	p.WaitForChunk(10 * time.Millisecond)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRealtimePacerAccumulatesEmittedDuration(t *testing.T) {
	p := NewRealtimePacer()
	p.WaitForChunk(5 * time.Millisecond)
	p.WaitForChunk(5 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, p.emittedDur)
}
