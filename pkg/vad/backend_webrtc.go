package vad

import "fmt"

// WebRTCBackend is the DSP backend with binary output, registry id
// "webrtc". Per §4.B of the detector contract, a binary backend returns
// exactly 0.0 or 1.0 and the state machine must treat that as authoritative
// regardless of threshold/neg_threshold. No pure-Go WebRTC VAD binding is
// available anywhere in the corpus this was built from, so this is a
// minimal energy-threshold detector over short-term RMS with hangover
// smoothing, named for the classic WebRTC VAD's role rather than its
// algorithm; see DESIGN.md.
type WebRTCBackend struct {
	// EnergyThreshold is the RMS energy above which a frame is voiced.
	// Tuned for normalized [-1,1] f32 PCM.
	EnergyThreshold float64

	hangoverFrames int
	hangoverLeft   int
}

// NewWebRTCBackend creates a DSP energy-threshold VAD backend with a
// default threshold and a short hangover to avoid chattering at region
// boundaries.
func NewWebRTCBackend() *WebRTCBackend {
	return &WebRTCBackend{
		EnergyThreshold: 0.01,
		hangoverFrames:  2,
	}
}

// BinaryOutput implements Binary.
func (b *WebRTCBackend) BinaryOutput() bool { return true }

// Infer implements Backend. Returns exactly 0.0 or 1.0.
func (b *WebRTCBackend) Infer(frame []float32) (float32, error) {
	if len(frame) != 512 {
		return 0, fmt.Errorf("webrtc: frame must be 512 samples, got %d", len(frame))
	}

	var sumSquares float64
	for _, s := range frame {
		sumSquares += float64(s) * float64(s)
	}
	rms := sumSquares / float64(len(frame))

	if rms >= b.EnergyThreshold*b.EnergyThreshold {
		b.hangoverLeft = b.hangoverFrames
		return 1.0, nil
	}

	if b.hangoverLeft > 0 {
		b.hangoverLeft--
		return 1.0, nil
	}

	return 0.0, nil
}

// Reset implements Backend.
func (b *WebRTCBackend) Reset() error {
	b.hangoverLeft = 0
	return nil
}

// Destroy implements Backend. Nothing to release.
func (b *WebRTCBackend) Destroy() error {
	return nil
}

var (
	_ Backend = (*WebRTCBackend)(nil)
	_ Binary  = (*WebRTCBackend)(nil)
)
