// Package translator defines the translation contract consumed by the
// stream orchestrator and file pipeline, plus two concrete backends.
package translator

import (
	"context"

	"github.com/livecap/livecap/pkg/result"
)

// Translator is the polymorphic translation contract.
type Translator interface {
	// Translate maps text from source to target, optionally joining
	// context (recent finalized sentences) into the request for better
	// continuity. Empty text returns an empty result without calling the
	// backend; source == target is an UnsupportedPair error.
	Translate(ctx context.Context, text, source, target string, contextLines []string) (result.TranslationResult, error)

	// TranslateAsync defaults to wrapping Translate on a worker; concrete
	// translators may override for a genuinely async backend.
	TranslateAsync(ctx context.Context, text, source, target string, contextLines []string) <-chan AsyncResult

	// GetSupportedPairs returns declared (source,target) pairs; an empty
	// slice means "all pairs are supported".
	GetSupportedPairs() []LanguagePair

	GetTranslatorName() string

	LoadModel(ctx context.Context) error
	Cleanup() error
	IsInitialized() bool
}

// LanguagePair is one (source, target) pair a translator declares support
// for via GetSupportedPairs.
type LanguagePair struct {
	Source string
	Target string
}

type AsyncResult struct {
	Result result.TranslationResult
	Err    error
}

// DefaultTranslateAsync is the shared default implementation: runs
// Translate on a new goroutine and delivers the result over a
// single-value channel. Both concrete translators call this from their
// own TranslateAsync rather than duplicating the goroutine wrapper.
func DefaultTranslateAsync(ctx context.Context, t Translator, text, source, target string, contextLines []string) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		r, err := t.Translate(ctx, text, source, target, contextLines)
		ch <- AsyncResult{Result: r, Err: err}
	}()
	return ch
}

// SupportsPair reports whether pairs declares (source, target) as
// supported. An empty pairs slice means "all pairs".
func SupportsPair(pairs []LanguagePair, source, target string) bool {
	if len(pairs) == 0 {
		return true
	}
	for _, p := range pairs {
		if p.Source == source && p.Target == target {
			return true
		}
	}
	return false
}
