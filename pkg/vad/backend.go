// Package vad implements the voice-activity detection pipeline: backends
// that score a frame's speech probability, the state machine that turns a
// stream of scored frames into speech segments, and the processor that
// drives both from a chunked audio stream.
package vad

// Backend is satisfied by every registered VAD backend variant (silero,
// tenvad, webrtc). Infer maps one 512-sample, 16kHz, mono frame to a speech
// probability in [0,1]; binary backends return exactly 0.0 or 1.0 and the
// caller must treat that as authoritative regardless of threshold/neg_threshold.
// Implementations must be deterministic given their current internal state.
type Backend interface {
	// Infer scores a single frame. len(frame) must be 512.
	Infer(frame []float32) (float32, error)

	// Reset returns internal state to its initial condition. Required
	// between independent sessions sharing the same backend instance.
	Reset() error

	// Destroy releases any resources (model sessions, native handles) held
	// by the backend. The backend must not be used after Destroy.
	Destroy() error
}

// Binary reports whether a backend always returns exactly 0.0 or 1.0, in
// which case the state machine's threshold comparison degenerates to a
// strict p >= 0.5 test per the registry's binary-output contract.
type Binary interface {
	BinaryOutput() bool
}
