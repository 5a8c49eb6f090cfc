package vad

import "errors"

// Kind tags a VadError so callers can switch on failure category without
// string-matching the message, per the grep-friendly kind-tag requirement.
type Kind string

const (
	KindUnsupportedLanguage Kind = "unsupported_language"
	KindResampleFailed      Kind = "resample_failed"
	KindInvalidConfig       Kind = "invalid_config"
)

// ErrInvalidConfig is wrapped by Config.Normalize failures.
var ErrInvalidConfig = errors.New("vad: invalid_config")

// Error is the VAD package's sentinel error type. It carries a Kind so
// callers can errors.As and branch on category, and wraps the underlying
// cause when there is one.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Supported lists the known-good values when Kind is
	// KindUnsupportedLanguage.
	Supported []string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "vad: " + string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return "vad: " + string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// UnsupportedLanguageError reports that from_language was asked for a
// language with no preset (backend, Config) pair.
func UnsupportedLanguageError(lang string, supported []string) *Error {
	return &Error{
		Kind:      KindUnsupportedLanguage,
		Message:   "language " + lang + " is not in the preset table",
		Supported: supported,
	}
}

// ResampleFailedError wraps a resampling failure encountered while framing
// a chunk at a non-16kHz source rate.
func ResampleFailedError(err error) *Error {
	return &Error{Kind: KindResampleFailed, Message: "failed to resample chunk to 16kHz", Err: err}
}
