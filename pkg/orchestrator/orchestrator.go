// Package orchestrator wires an audio source through a VAD processor and
// an ASR engine, optionally through a translator, and exposes the result
// as a blocking iterator, a cooperative-asynchronous iterator, or a
// callback surface.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/livecap/livecap/pkg/asr"
	"github.com/livecap/livecap/pkg/audio"
	"github.com/livecap/livecap/pkg/result"
	"github.com/livecap/livecap/pkg/trace"
	"github.com/livecap/livecap/pkg/translator"
	"github.com/livecap/livecap/pkg/vad"
)

const (
	defaultTranslationTimeout = 5 * time.Second
	defaultContextSentences   = 3
)

// Options configures one Orchestrator. Engine is required; everything else
// has a default.
type Options struct {
	Engine asr.Engine

	// VADProcessor, if set, is used as-is and takes precedence over
	// VADConfig/SourceLang-derived presets.
	VADProcessor *vad.Processor
	// VADConfig, if set (and VADProcessor is nil), builds a processor on
	// the lightweight "tenvad" backend with this config.
	VADConfig *vad.Config

	SourceID   string
	MaxWorkers int

	Translator         translator.Translator
	SourceLang         string
	TargetLang         string
	ContextSentences   int
	TranslationTimeout time.Duration
}

// Orchestrator drives one transcription session from construction to
// Close. It is not safe for concurrent use of the same surface by
// multiple goroutines, beyond what each surface documents (the async
// surface's worker pool is internal and safe).
type Orchestrator struct {
	engine    asr.Engine
	processor *vad.Processor
	sourceID  string

	maxWorkers int

	translator         translator.Translator
	sourceLang         string
	targetLang         string
	contextSentences   int
	translationTimeout time.Duration
	ctxBuf             *ContextBuffer

	mu        sync.Mutex
	closed    bool
	callbacks callbackState
}

// callbackState holds the callback surface's queues and handlers,
// separated out so Orchestrator's zero-value-sensitive fields stay
// readable.
type callbackState struct {
	finalQueue   chan result.TranscriptionResult
	interimQueue chan result.InterimResult
	onFinal      func(result.TranscriptionResult)
	onInterim    func(result.InterimResult)
}

// New validates opts and constructs an Orchestrator. Per the translator
// construction rule, SourceLang and TargetLang are required together with
// a Translator; a language-pair warning is logged (not an error) if the
// translator declares supported pairs and this pair is absent.
func New(opts Options) (*Orchestrator, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("orchestrator: Engine is required")
	}
	if opts.SourceID == "" {
		opts.SourceID = "default"
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 1
	}
	if opts.ContextSentences <= 0 {
		opts.ContextSentences = defaultContextSentences
	}
	if opts.TranslationTimeout <= 0 {
		opts.TranslationTimeout = translationTimeoutFromEnv()
	}
	if opts.Translator != nil {
		if opts.SourceLang == "" || opts.TargetLang == "" {
			return nil, fmt.Errorf("orchestrator: source_lang and target_lang are required when a translator is set")
		}
		pairs := opts.Translator.GetSupportedPairs()
		if len(pairs) > 0 && !translator.SupportsPair(pairs, opts.SourceLang, opts.TargetLang) {
			slog.Warn("translator does not declare support for this language pair",
				"translator", opts.Translator.GetTranslatorName(),
				"source_lang", opts.SourceLang,
				"target_lang", opts.TargetLang)
		}
	}

	processor := opts.VADProcessor
	if processor == nil {
		cfg := vad.DefaultConfig()
		if opts.VADConfig != nil {
			cfg = *opts.VADConfig
		}
		backend, err := vad.NewBackend("tenvad", nil)
		if err != nil {
			return nil, err
		}
		processor = vad.NewProcessor(backend, cfg)
	}

	o := &Orchestrator{
		engine:             opts.Engine,
		processor:          processor,
		sourceID:           opts.SourceID,
		maxWorkers:         opts.MaxWorkers,
		translator:         opts.Translator,
		sourceLang:         opts.SourceLang,
		targetLang:         opts.TargetLang,
		contextSentences:   opts.ContextSentences,
		translationTimeout: opts.TranslationTimeout,
		ctxBuf:             NewContextBuffer(),
	}
	return o, nil
}

func translationTimeoutFromEnv() time.Duration {
	if v := os.Getenv("LIVECAP_TRANSLATION_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultTranslationTimeout
}

// transcribeSegment runs the engine synchronously and builds a
// TranscriptionResult, applying the translation hook when a translator is
// attached. It is shared by all three surfaces: transcribe_sync and the
// callback surface call it on the caller's goroutine, the async surface
// from its worker goroutines.
func (o *Orchestrator) transcribeSegment(seg vad.Segment) (result.TranscriptionResult, error) {
	_, span := trace.InstrumentEngineTranscribe(context.Background(), o.engine.EngineName(), o.sourceLang, "")
	text, confidence, err := o.engine.Transcribe(seg.Audio, o.engine.RequiredSampleRate())
	if err != nil {
		trace.RecordError(span, err)
		span.End()
		return result.TranscriptionResult{}, engineError(err)
	}
	span.End()

	r := result.NewTranscriptionResult(text, seg.StartTimeS, seg.EndTimeS, confidence, o.sourceLang, o.sourceID)
	if text != "" {
		o.applyTranslation(&r)
	}
	return r, nil
}

// applyTranslation runs the translation hook in place on r, attaching
// TranslatedText/TargetLanguage on success. Any translator failure,
// including timeout, degrades to "no translation" and is logged, never
// failing the transcription.
func (o *Orchestrator) applyTranslation(r *result.TranscriptionResult) {
	if o.translator == nil {
		return
	}

	ctxLines := o.ctxBuf.Last(o.contextSentences)
	ctx, cancel := context.WithTimeout(context.Background(), o.translationTimeout)
	defer cancel()

	ctx, span := trace.InstrumentTranslate(ctx, o.translator.GetTranslatorName(), o.sourceLang, o.targetLang)
	defer span.End()

	translated, err := o.translator.Translate(ctx, r.Text, o.sourceLang, o.targetLang, ctxLines)
	if err != nil {
		trace.RecordError(span, err)
		slog.Warn("translation failed, leaving translated_text absent",
			"translator", o.translator.GetTranslatorName(), "error", err)
		o.ctxBuf.Push(r.Text)
		return
	}

	*r = r.WithTranslation(translated.Text, o.targetLang)
	o.ctxBuf.Push(r.Text)
}

// transcribeInterim runs the engine on an interim segment's buffered
// audio, same as a final segment but without the translation hook or
// context-buffer push (context accumulates from finals only) and without
// failing the caller on an engine error — an interim is advisory, so a
// transient engine hiccup just yields an empty-text interim rather than
// aborting the surface.
func (o *Orchestrator) transcribeInterim(seg vad.Segment) result.InterimResult {
	text, _, err := o.engine.Transcribe(seg.Audio, o.engine.RequiredSampleRate())
	if err != nil {
		text = ""
	}
	return result.InterimResult{
		Text:             text,
		AccumulatedTimeS: seg.EndTimeS - seg.StartTimeS,
		SourceID:         o.sourceID,
	}
}

// TranscribeSync is the blocking iterator surface: it drains source until
// exhaustion, calling onFinal/onInterim for every result in the order
// segments are produced and finalized, per §4.G's ordering contract —
// interims are dispatched and yielded before any later final. onInterim
// may be nil to ignore interims.
func (o *Orchestrator) TranscribeSync(source audio.Source, onFinal func(result.TranscriptionResult), onInterim func(result.InterimResult)) error {
	exhaustible, _ := source.(audio.Exhaustible)

	for {
		chunk, ok, err := source.Read(time.Second)
		if err != nil {
			return err
		}
		if !ok {
			if exhaustible != nil && exhaustible.Exhausted() {
				break
			}
			continue
		}

		segments, err := o.processor.ProcessChunk(chunk.Samples, chunk.SampleRate)
		if err != nil {
			return err
		}
		for _, seg := range segments {
			if err := o.dispatchSegment(seg, onFinal, onInterim); err != nil {
				return err
			}
		}
	}

	if seg := o.processor.Finalize(); seg != nil {
		if err := o.dispatchSegment(*seg, onFinal, onInterim); err != nil {
			return err
		}
	}
	return nil
}

// TranscribeSyncFromChunks drives the blocking surface from a finite
// channel of chunks instead of a Source, for callers that already have
// chunks in hand (e.g. tests, or a custom reader loop). It finalizes the
// VAD once the channel closes.
func (o *Orchestrator) TranscribeSyncFromChunks(chunks <-chan audio.Chunk, onFinal func(result.TranscriptionResult), onInterim func(result.InterimResult)) error {
	for c := range chunks {
		segments, err := o.processor.ProcessChunk(c.Samples, c.SampleRate)
		if err != nil {
			return err
		}
		for _, seg := range segments {
			if err := o.dispatchSegment(seg, onFinal, onInterim); err != nil {
				return err
			}
		}
	}
	if seg := o.processor.Finalize(); seg != nil {
		if err := o.dispatchSegment(*seg, onFinal, onInterim); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) dispatchSegment(seg vad.Segment, onFinal func(result.TranscriptionResult), onInterim func(result.InterimResult)) error {
	if !seg.IsFinal {
		if onInterim != nil {
			onInterim(o.transcribeInterim(seg))
		}
		return nil
	}

	r, err := o.transcribeSegment(seg)
	if err != nil {
		return err
	}
	onFinal(r)
	return nil
}

// Reset clears the VAD's in-progress state, the context buffer, and (if
// the callback surface was enabled) its result queues, leaving the
// orchestrator usable after an engine failure.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ctxBuf = NewContextBuffer()
	drainFinal(o.callbacks.finalQueue)
	drainInterim(o.callbacks.interimQueue)
	return o.processor.Reset()
}

func drainFinal(ch chan result.TranscriptionResult) {
	if ch == nil {
		return
	}
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func drainInterim(ch chan result.InterimResult) {
	if ch == nil {
		return
	}
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// Close releases the VAD processor's resampler and is safe to call more
// than once. The async surface's worker pool is scoped to one
// TranscribeAsync call and shuts down on its own when the call's context
// is done, so Close has nothing further to stop there.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.processor.Close()
	return nil
}
