package audio

import "time"

// RealtimePacer sleeps between chunk emissions so a finite source (the file
// source's realtime=true mode) plays out at wall-clock speed instead of as
// fast as possible. Mirrors AudioPacer, which paced a fixed 24kHz->48kHz
// playback buffer at a fixed 20ms cadence; this version generalizes the
// same "sleep for the gap between expected and actual elapsed time" idea to
// arbitrary chunk durations and drops the resampling/accumulation-buffer
// logic that doesn't apply to file playback.
type RealtimePacer struct {
	start      time.Time
	emittedDur time.Duration
}

// NewRealtimePacer creates a pacer whose clock starts on first use.
func NewRealtimePacer() *RealtimePacer {
	return &RealtimePacer{}
}

// WaitForChunk sleeps, if necessary, so that chunkDur worth of audio is not
// emitted faster than wall-clock allows. Call once per emitted chunk, after
// computing chunkDur from the chunk's sample count and rate.
func (p *RealtimePacer) WaitForChunk(chunkDur time.Duration) {
	if p.start.IsZero() {
		p.start = time.Now()
	}
	p.emittedDur += chunkDur

	target := p.start.Add(p.emittedDur)
	if gap := time.Until(target); gap > 0 {
		time.Sleep(gap)
	}
}
