// Package filepipeline decodes a whole audio/video file, segments it,
// transcribes every segment in order, optionally translates each one with a
// fresh per-file context buffer, and writes SRT subtitle tracks.
package filepipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/livecap/livecap/pkg/asr"
	"github.com/livecap/livecap/pkg/audio"
	"github.com/livecap/livecap/pkg/orchestrator"
	"github.com/livecap/livecap/pkg/result"
	"github.com/livecap/livecap/pkg/trace"
	"github.com/livecap/livecap/pkg/translator"
	"github.com/livecap/livecap/pkg/vad"
)

const (
	defaultChunkMs            = 1000
	defaultTranslationTimeout = 5 * time.Second
	defaultContextSentences   = 3
)

// rawSegment is one (start, end, text) tuple produced by segmenting and
// transcribing the decoded PCM, before translation and index assignment.
type rawSegment struct {
	startS, endS float64
	text         string
}

// Options configures a Processor. Engine is required; VADProcessor is
// optional (a tenvad-backed default is built with the same config every
// other package in this repo defaults to).
type Options struct {
	Engine       asr.Engine
	VADProcessor *vad.Processor
	VADConfig    *vad.Config
	ChunkMs      int

	Translator         translator.Translator
	SourceLang         string
	TargetLang         string
	ContextSentences   int
	TranslationTimeout time.Duration

	// NewSource builds the demux source for a given file path. Defaults to
	// audio.NewFileSource; overridable so tests can substitute a fake
	// Source without a real media file or ffmpeg/astiav decode.
	NewSource func(path string, sampleRate, chunkMs int) audio.Source
}

// Processor runs process_file/process_files over one configured
// (engine, segmenter, translator?) collaborator set.
type Processor struct {
	engine    asr.Engine
	processor *vad.Processor
	chunkMs   int

	translator         translator.Translator
	sourceLang         string
	targetLang         string
	contextSentences   int
	translationTimeout time.Duration
	newSource          func(path string, sampleRate, chunkMs int) audio.Source
}

// New validates Options and builds a Processor. VAD and translation-context
// state are not shared between files: the one vad.Processor is reset at the
// start of every ProcessFile call, and a new context buffer is allocated
// per file.
func New(opts Options) (*Processor, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("filepipeline: Engine is required")
	}
	if opts.ChunkMs <= 0 {
		opts.ChunkMs = defaultChunkMs
	}
	if opts.ContextSentences <= 0 {
		opts.ContextSentences = defaultContextSentences
	}
	if opts.TranslationTimeout <= 0 {
		opts.TranslationTimeout = defaultTranslationTimeout
	}
	if opts.Translator != nil && (opts.SourceLang == "" || opts.TargetLang == "") {
		return nil, fmt.Errorf("filepipeline: source_lang and target_lang are required when a translator is set")
	}

	vp := opts.VADProcessor
	if vp == nil {
		cfg := vad.DefaultConfig()
		if opts.VADConfig != nil {
			cfg = *opts.VADConfig
		}
		backend, err := vad.NewBackend("tenvad", nil)
		if err != nil {
			return nil, err
		}
		vp = vad.NewProcessor(backend, cfg)
	}

	newSource := opts.NewSource
	if newSource == nil {
		newSource = func(path string, sampleRate, chunkMs int) audio.Source {
			return audio.NewFileSource(path, sampleRate, chunkMs, false)
		}
	}

	return &Processor{
		engine:             opts.Engine,
		processor:          vp,
		chunkMs:            opts.ChunkMs,
		translator:         opts.Translator,
		sourceLang:         opts.SourceLang,
		targetLang:         opts.TargetLang,
		contextSentences:   opts.ContextSentences,
		translationTimeout: opts.TranslationTimeout,
		newSource:          newSource,
	}, nil
}

// FileProcessingResult is process_file's return value.
type FileProcessingResult struct {
	Success              bool
	Subtitles            []result.FileSubtitleSegment
	OutputPath           string
	TranslatedOutputPath string
}

// ProcessFile demuxes path, segments and transcribes it in order, optionally
// translates each non-empty segment, and optionally writes .srt files.
// writeSubtitles defaults to true in spirit: callers that pass outPath=""
// simply get no file written, subtitles are still returned in-memory.
func (p *Processor) ProcessFile(ctx context.Context, path, outPath string, writeTranslatedSubtitles bool) (FileProcessingResult, error) {
	if err := ctx.Err(); err != nil {
		return FileProcessingResult{}, cancelledError()
	}

	if err := p.processor.Reset(); err != nil {
		return FileProcessingResult{}, err
	}

	raws, err := p.decodeAndSegment(path)
	if err != nil {
		return FileProcessingResult{}, err
	}

	subtitles := p.translateSegments(raws)

	res := FileProcessingResult{Success: true, Subtitles: subtitles}

	if outPath != "" {
		if err := writeSRT(outPath, originalOnly(subtitles)); err != nil {
			return FileProcessingResult{}, writeSubtitleError(outPath, err)
		}
		res.OutputPath = outPath

		if writeTranslatedSubtitles && p.translator != nil {
			translatedPath := translatedSRTPath(outPath, p.targetLang)
			if err := writeSRT(translatedPath, subtitles); err != nil {
				return FileProcessingResult{}, writeSubtitleError(translatedPath, err)
			}
			res.TranslatedOutputPath = translatedPath
		}
	}

	return res, nil
}

// decodeAndSegment demuxes the file via FileSource at the engine's required
// sample rate, feeds every decoded chunk through the VAD processor, and
// transcribes every final segment in the order the state machine yields it.
func (p *Processor) decodeAndSegment(path string) ([]rawSegment, error) {
	sr := p.engine.RequiredSampleRate()
	src := p.newSource(path, sr, p.chunkMs)
	defer src.Close()

	if err := src.Start(); err != nil {
		return nil, decodeError(err)
	}

	exhaustible, _ := src.(audio.Exhaustible)
	var raws []rawSegment
	for {
		chunk, ok, err := src.Read(0)
		if err != nil {
			return nil, decodeError(err)
		}
		if !ok {
			if exhaustible != nil && exhaustible.Exhausted() {
				break
			}
			if exhaustible == nil {
				break
			}
			continue
		}
		segments, err := p.processor.ProcessChunk(chunk.Samples, chunk.SampleRate)
		if err != nil {
			return nil, err
		}
		for _, seg := range segments {
			if !seg.IsFinal {
				continue
			}
			raws = append(raws, p.transcribeOne(seg))
		}
	}
	if seg := p.processor.Finalize(); seg != nil {
		raws = append(raws, p.transcribeOne(*seg))
	}
	return raws, nil
}

func (p *Processor) transcribeOne(seg vad.Segment) rawSegment {
	_, span := trace.InstrumentEngineTranscribe(context.Background(), p.engine.EngineName(), p.sourceLang, "")
	defer span.End()
	text, _, err := p.engine.Transcribe(seg.Audio, p.engine.RequiredSampleRate())
	if err != nil {
		trace.RecordError(span, err)
		text = ""
	}
	return rawSegment{startS: seg.StartTimeS, endS: seg.EndTimeS, text: text}
}

// translateSegments assigns 1-based monotone indices and, if a translator is
// configured, translates every non-empty segment using a context buffer
// fresh to this file. A translation failure degrades to an absent
// translated_text for that segment only; it never fails the file.
func (p *Processor) translateSegments(raws []rawSegment) []result.FileSubtitleSegment {
	ctxBuf := orchestrator.NewContextBuffer()
	out := make([]result.FileSubtitleSegment, 0, len(raws))

	for i, raw := range raws {
		seg := result.FileSubtitleSegment{
			Index:  i + 1,
			StartS: raw.startS,
			EndS:   raw.endS,
			Text:   raw.text,
		}

		if p.translator != nil && raw.text != "" {
			lines := ctxBuf.Last(p.contextSentences)
			tctx, cancel := context.WithTimeout(context.Background(), p.translationTimeout)
			tctx, span := trace.InstrumentTranslate(tctx, p.translator.GetTranslatorName(), p.sourceLang, p.targetLang)
			translated, err := p.translator.Translate(tctx, raw.text, p.sourceLang, p.targetLang, lines)
			cancel()
			if err != nil {
				trace.RecordError(span, err)
				span.End()
				slog.Warn("translation failed, leaving translated_text absent",
					"translator", p.translator.GetTranslatorName(), "error", err)
			} else {
				span.End()
				text, lang := translated.Text, p.targetLang
				seg.TranslatedText = &text
				seg.TargetLanguage = &lang
			}
			ctxBuf.Push(raw.text)
		}

		out = append(out, seg)
	}
	return out
}

// originalOnly strips any translated_text so the primary .srt always carries
// the source-language text, even when a translator is attached and the
// caller also asked for a translated file.
func originalOnly(segments []result.FileSubtitleSegment) []result.FileSubtitleSegment {
	out := make([]result.FileSubtitleSegment, len(segments))
	for i, seg := range segments {
		seg.TranslatedText = nil
		seg.TargetLanguage = nil
		out[i] = seg
	}
	return out
}

// writeSRT writes segments as an SRT file; FileSubtitleSegment.ToSRTEntry
// already prefers translated_text when present, so the caller controls
// original-vs-translated output by choosing which slice (or originalOnly
// variant) to pass in.
func writeSRT(path string, segments []result.FileSubtitleSegment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(seg.ToSRTEntry())
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// translatedSRTPath suffixes the file stem with the target language code,
// e.g. "movie.srt" + "ja" -> "movie.ja.srt".
func translatedSRTPath(outPath, targetLang string) string {
	ext := filepath.Ext(outPath)
	stem := strings.TrimSuffix(outPath, ext)
	return stem + "." + targetLang + ext
}
