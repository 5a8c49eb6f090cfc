// Package asr defines the ASR engine contract and factory: a template-
// method load lifecycle with progress reporting, a transcribe call, and a
// static registry of engine metadata with merged default parameters.
package asr

import "context"

// ProgressFunc receives lifecycle progress during LoadModel: percent is a
// monotonically non-decreasing value from 0 to 100, message is a short
// human-readable description of the current step.
type ProgressFunc func(percent int, message string)

// Engine is the polymorphic ASR contract. Implementations hold a loaded
// model for their lifetime; the factory constructs but does not load them.
type Engine interface {
	// LoadModel runs check_deps -> prepare_dir -> download_if_missing ->
	// load_from_path -> configure, reporting progress through progress (may
	// be nil) and checking ctx between steps for cooperative cancellation.
	LoadModel(ctx context.Context, progress ProgressFunc) error

	// Transcribe requires sr == RequiredSampleRate(). audio is mono f32 and
	// must not be retained past the call. Returns (text, confidence); an
	// empty text means "no speech detected", not an error.
	Transcribe(audio []float32, sr int) (text string, confidence float32, err error)

	RequiredSampleRate() int
	EngineName() string
	SupportedLanguages() []string

	// Cleanup releases the loaded model. The engine must not be used after
	// Cleanup returns.
	Cleanup() error
}
