package translator

// Kind tags a translator Error so callers can branch without string
// matching, matching the pattern used throughout pkg/vad and pkg/asr.
type Kind string

const (
	KindNetwork         Kind = "network"
	KindModel           Kind = "model"
	KindUnsupportedPair Kind = "unsupported_pair"
	KindTimeout         Kind = "timeout"
	KindOther           Kind = "other"
)

// Error is the translator package's sentinel error type.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "translator: " + string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return "translator: " + string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func unsupportedPairError(source, target string) *Error {
	return &Error{Kind: KindUnsupportedPair, Message: "unsupported language pair " + source + "->" + target}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
}

func modelError(err error) *Error {
	return &Error{Kind: KindModel, Message: "backend returned no usable response", Err: err}
}

func timeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "translation timed out", Err: err}
}
