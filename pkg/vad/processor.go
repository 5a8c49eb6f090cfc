package vad

import (
	"context"
	"fmt"

	"github.com/livecap/livecap/pkg/audio"
	"github.com/livecap/livecap/pkg/trace"
)

const (
	targetSampleRate = 16000
	frameSamples     = 512
)

// fixedRatioRates names the common source rates (48000, 44100, 32000).
// ProcessChunk does not consult it: every rate other than 16000 goes
// through the same ffmpeg-backed FloatResampler, which supports any ratio.
var fixedRatioRates = map[int]bool{48000: true, 44100: true, 32000: true}

// Processor drives a StateMachine from an incoming chunk stream: it frames
// chunks into fixed 512-sample windows at 16kHz, resampling first if the
// source rate differs, runs each frame through a Backend to get a speech
// probability, and hands (frame, probability, timestamp) to the state
// machine.
type Processor struct {
	backend Backend
	sm      *StateMachine
	cfg     Config

	resampler   *audio.FloatResampler
	resamplerSR int

	// carry holds samples accumulated from a chunk that didn't divide
	// evenly into 512-sample frames, to be prepended to the next chunk.
	carry []float32

	currentTimeS float64
}

// NewProcessor creates a processor with the given backend and VAD config.
// cfg is not validated here; call cfg.Normalize() first to surface
// configuration errors before construction.
func NewProcessor(backend Backend, cfg Config) *Processor {
	return &Processor{
		backend: backend,
		sm:      New(cfg),
		cfg:     cfg,
	}
}

// ensureResampler lazily creates (or recreates, if the rate changed) the
// resampler for sourceRate -> 16000.
func (p *Processor) ensureResampler(sourceRate int) error {
	if sourceRate == targetSampleRate {
		return nil
	}
	if p.resampler != nil && p.resamplerSR == sourceRate {
		return nil
	}
	if p.resampler != nil {
		p.resampler.Free()
		p.resampler = nil
	}
	r, err := audio.NewFloatResampler(sourceRate, targetSampleRate)
	if err != nil {
		return ResampleFailedError(err)
	}
	p.resampler = r
	p.resamplerSR = sourceRate
	return nil
}

// ProcessChunk resamples (if needed) and frames audio sampled at sr,
// advancing current_time_s by frame.len/16000 per frame produced, and
// returns every segment yielded by the state machine along the way.
func (p *Processor) ProcessChunk(chunk []float32, sr int) ([]Segment, error) {
	samples := chunk
	if sr != targetSampleRate {
		if err := p.ensureResampler(sr); err != nil {
			return nil, err
		}
		resampled, err := p.resampler.Resample(chunk)
		if err != nil {
			return nil, ResampleFailedError(err)
		}
		samples = resampled
	}

	buf := append(p.carry, samples...)

	backendName := fmt.Sprintf("%T", p.backend)

	var segments []Segment
	i := 0
	for ; i+frameSamples <= len(buf); i += frameSamples {
		frame := buf[i : i+frameSamples]
		_, span := trace.InstrumentVADFrame(context.Background(), backendName, 0, p.sm.State().String())
		prob, err := p.backend.Infer(frame)
		if err != nil {
			trace.RecordError(span, err)
			span.End()
			return segments, err
		}
		t := p.currentTimeS
		p.currentTimeS += float64(frameSamples) / float64(targetSampleRate)

		seg := p.sm.ProcessFrame(frame, float64(prob), t)
		trace.SetAttributes(span, trace.VADAttrs(backendName, float64(prob), p.sm.State().String())...)
		span.End()
		if seg != nil {
			segments = append(segments, *seg)
		}
	}

	remaining := len(buf) - i
	if remaining > 0 {
		p.carry = append([]float32{}, buf[i:]...)
	} else {
		p.carry = p.carry[:0]
	}

	return segments, nil
}

// Finalize flushes the state machine's in-progress segment, if any, at the
// processor's current time. Carried samples short of a full frame are not
// included in it.
func (p *Processor) Finalize() *Segment {
	return p.sm.Finalize(p.currentTimeS)
}

// Reset rebuilds the state machine, clears carried samples, resets the
// backend and zeroes current_time_s.
func (p *Processor) Reset() error {
	p.sm.Reset()
	p.carry = p.carry[:0]
	p.currentTimeS = 0
	return p.backend.Reset()
}

// CurrentTimeS returns the processor's monotonic clock, in seconds.
func (p *Processor) CurrentTimeS() float64 {
	return p.currentTimeS
}

// Close releases the resampler, if one was created.
func (p *Processor) Close() {
	if p.resampler != nil {
		p.resampler.Free()
		p.resampler = nil
	}
}
