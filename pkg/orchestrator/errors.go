package orchestrator

// Kind tags a TranscriptionError so callers can branch without string
// matching, matching the pattern used throughout pkg/vad, pkg/asr,
// pkg/audio and pkg/translator.
type Kind string

const (
	// KindEngine wraps an underlying asr.Error surfaced from a
	// transcribe call; the orchestrator remains usable after Reset().
	KindEngine Kind = "engine"
)

// TranscriptionError is the orchestrator's sentinel error type. It always
// wraps an engine failure today, but carries a Kind so future failure
// categories (e.g. source errors bubbling through transcribe_sync) have
// somewhere to go without changing callers' error-handling shape.
type TranscriptionError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return "orchestrator: " + string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return "orchestrator: " + string(e.Kind) + ": " + e.Message
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

func engineError(err error) *TranscriptionError {
	return &TranscriptionError{Kind: KindEngine, Message: "engine transcription failed", Err: err}
}
