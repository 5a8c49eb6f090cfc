package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/livecap/livecap/pkg/audio"
	"github.com/livecap/livecap/pkg/result"
	"github.com/livecap/livecap/pkg/translator"
)

// fakeSource is a finite, Exhaustible audio.Source test double: Read
// yields chunks queued at construction, then permanently reports
// exhaustion once drained.
type fakeSource struct {
	mu        sync.Mutex
	chunks    []audio.Chunk
	started   bool
	closed    bool
	exhausted bool
}

func newFakeSource(chunks ...audio.Chunk) *fakeSource {
	return &fakeSource{chunks: chunks}
}

func (f *fakeSource) Start() error {
	f.started = true
	return nil
}

func (f *fakeSource) Read(timeout time.Duration) (audio.Chunk, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.chunks) == 0 {
		f.exhausted = true
		return audio.Chunk{}, false, nil
	}
	c := f.chunks[0]
	f.chunks = f.chunks[1:]
	return c, true, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSource) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exhausted
}

var (
	_ audio.Source      = (*fakeSource)(nil)
	_ audio.Exhaustible = (*fakeSource)(nil)
)

// fakeTranslator is a Translator test double that appends a fixed suffix to
// whatever text it is asked to translate, recording every call.
type fakeTranslator struct {
	mu    sync.Mutex
	calls []string
	err   error
	delay time.Duration
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string, contextLines []string) (result.TranslationResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return result.TranslationResult{}, ctx.Err()
		}
	}
	if f.err != nil {
		return result.TranslationResult{}, f.err
	}
	return result.TranslationResult{Text: text + " [translated]", SourceLang: source, TargetLang: target}, nil
}

func (f *fakeTranslator) TranslateAsync(ctx context.Context, text, source, target string, contextLines []string) <-chan translator.AsyncResult {
	return translator.DefaultTranslateAsync(ctx, f, text, source, target, contextLines)
}

func (f *fakeTranslator) GetSupportedPairs() []translator.LanguagePair { return nil }
func (f *fakeTranslator) GetTranslatorName() string                    { return "fake" }
func (f *fakeTranslator) LoadModel(ctx context.Context) error          { return nil }
func (f *fakeTranslator) Cleanup() error                               { return nil }
func (f *fakeTranslator) IsInitialized() bool                          { return true }

var _ translator.Translator = (*fakeTranslator)(nil)
