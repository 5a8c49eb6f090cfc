package vad

import "fmt"

// frameMs is the fixed duration of one VAD frame: 512 samples at 16kHz.
const frameMs = 32.0

// Config holds the tunable thresholds and timing windows for the state
// machine. All duration fields are milliseconds; zero-value Config is not
// valid — call Normalize (or construct via DefaultConfig) before use.
type Config struct {
	// Threshold is the speech-probability cutoff above which a frame counts
	// as speech for probabilistic backends.
	Threshold float64
	// NegThreshold is not consulted by the state machine; when
	// HasNegThreshold is false, NegThresholdOrDefault returns
	// Threshold - 0.15 instead.
	NegThreshold    float64
	HasNegThreshold bool

	MinSpeechMs           float64
	MinSilenceMs          float64
	SpeechPadMs           float64
	MaxSpeechMs           float64
	InterimMinDurationMs  float64
	InterimIntervalMs     float64
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:            0.5,
		MinSpeechMs:          250,
		MinSilenceMs:         100,
		SpeechPadMs:          100,
		MaxSpeechMs:          0,
		InterimMinDurationMs: 2000,
		InterimIntervalMs:    1000,
	}
}

// NegThresholdOrDefault returns the effective negative threshold.
func (c Config) NegThresholdOrDefault() float64 {
	if c.HasNegThreshold {
		return c.NegThreshold
	}
	return c.Threshold - 0.15
}

// Normalize validates the config's invariants, returning an error that
// wraps ErrInvalidConfig on violation. It does not change any field; all
// defaults are filled in by DefaultConfig at construction.
func (c Config) Normalize() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be in [0,1], got %v", ErrInvalidConfig, c.Threshold)
	}
	if c.HasNegThreshold && (c.NegThreshold < 0 || c.NegThreshold > 1) {
		return fmt.Errorf("%w: neg_threshold must be in [0,1], got %v", ErrInvalidConfig, c.NegThreshold)
	}
	if c.MinSpeechMs < frameMs {
		return fmt.Errorf("%w: min_speech_ms must be >= %v, got %v", ErrInvalidConfig, frameMs, c.MinSpeechMs)
	}
	if c.MinSilenceMs < frameMs {
		return fmt.Errorf("%w: min_silence_ms must be >= %v, got %v", ErrInvalidConfig, frameMs, c.MinSilenceMs)
	}
	if c.SpeechPadMs < frameMs {
		return fmt.Errorf("%w: speech_pad_ms must be >= %v, got %v", ErrInvalidConfig, frameMs, c.SpeechPadMs)
	}
	if c.MaxSpeechMs < 0 {
		return fmt.Errorf("%w: max_speech_ms must be >= 0, got %v", ErrInvalidConfig, c.MaxSpeechMs)
	}
	if c.InterimMinDurationMs < 0 {
		return fmt.Errorf("%w: interim_min_duration_ms must be >= 0, got %v", ErrInvalidConfig, c.InterimMinDurationMs)
	}
	if c.InterimIntervalMs < 0 {
		return fmt.Errorf("%w: interim_interval_ms must be >= 0, got %v", ErrInvalidConfig, c.InterimIntervalMs)
	}
	return nil
}

// minSpeechFrames, minSilenceFrames and paddingFrames derive the state
// machine's frame-counted constants from the millisecond config, per §4.C.
func (c Config) minSpeechFrames() int {
	return int(c.MinSpeechMs / frameMs)
}

func (c Config) minSilenceFrames() int {
	return int(c.MinSilenceMs / frameMs)
}

func (c Config) paddingFrames() int {
	n := int(c.SpeechPadMs / frameMs)
	if n < 1 {
		return 1
	}
	return n
}
