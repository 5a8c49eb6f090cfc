package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"

	"github.com/livecap/livecap/pkg/asr"
	"github.com/livecap/livecap/pkg/audio"
	"github.com/livecap/livecap/pkg/filepipeline"
	"github.com/livecap/livecap/pkg/orchestrator"
	"github.com/livecap/livecap/pkg/result"
	"github.com/livecap/livecap/pkg/trace"
	"github.com/livecap/livecap/pkg/translator"
	"github.com/livecap/livecap/pkg/vad"
)

// buildVADProcessor resolves the --vad flag: "auto" uses the language
// preset table when a language is given (falling back to the tenvad
// default otherwise), any other value names a backend id directly with
// default tuning.
func buildVADProcessor(vadID, language string) (*vad.Processor, error) {
	if vadID == "" || vadID == "auto" {
		if language != "" {
			if p, err := vad.NewProcessorFromLanguage(language); err == nil {
				return p, nil
			}
		}
		vadID = "tenvad"
	}
	backend, err := vad.NewBackend(vadID, nil)
	if err != nil {
		return nil, err
	}
	return vad.NewProcessor(backend, vad.DefaultConfig()), nil
}

// buildTranslator constructs the requested translator by id, reading its
// API key from the environment the same way WhisperEngine falls back to
// OPENAI_API_KEY. Empty id means no translation.
func buildTranslator(id string) (translator.Translator, error) {
	switch id {
	case "":
		return nil, nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return translator.NewOpenAITranslator(key, ""), nil
	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return translator.NewGeminiTranslator(key, ""), nil
	default:
		return nil, fmt.Errorf("unknown translator id %q", id)
	}
}

// translationTimeout reads LIVECAP_TRANSLATION_TIMEOUT (seconds) or falls
// back to the package default.
func translationTimeout() time.Duration {
	if v := os.Getenv("LIVECAP_TRANSLATION_TIMEOUT"); v != "" {
		var secs float64
		if _, err := fmt.Sscanf(v, "%f", &secs); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return 5 * time.Second
}

func buildEngine(opts *commonOptions) (asr.Engine, error) {
	engine, err := asr.CreateEngine(opts.engine, resolveDevice(opts.device), opts.engineOverrides())
	if err != nil {
		return nil, err
	}
	ctx, span := trace.InstrumentEngineLoad(context.Background(), engine.EngineName(), opts.device)
	defer span.End()
	if err := engine.LoadModel(ctx, nil); err != nil {
		trace.RecordError(span, err)
		return nil, err
	}
	return engine, nil
}

func runTranscribe(args []string) int {
	fs, cfg := newSubcommandFlagSet("transcribe")
	opts := registerCommonFlags(fs, cfg)
	out := fs.String("o", "", "output .srt path (file mode)")
	outDir := fs.String("out-dir", "", "output directory for batch file mode")
	writeTranslated := fs.Bool("write-translated", false, "also write a target-language .srt")
	realtime := fs.Bool("realtime", false, "stream from a capture device instead of files")
	mic := fs.Int("mic", -1, "capture device index (realtime mode)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	engine, err := buildEngine(opts)
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}
	defer engine.Cleanup()

	var trans translator.Translator
	if opts.translate != "" {
		trans, err = buildTranslator(opts.translate)
		if err != nil {
			fmt.Println("error:", err)
			return 1
		}
		if err := trans.LoadModel(context.Background()); err != nil {
			fmt.Println("error:", err)
			return 1
		}
	}

	if *realtime {
		return runRealtimeTranscribe(engine, trans, opts, *mic)
	}
	return runFileTranscribe(engine, trans, opts, fs.Args(), *out, *outDir, *writeTranslated)
}

func runFileTranscribe(engine asr.Engine, trans translator.Translator, opts *commonOptions, paths []string, out, outDir string, writeTranslated bool) int {
	if len(paths) == 0 {
		fmt.Println("error: transcribe requires at least one input file")
		return 1
	}

	vp, err := buildVADProcessor(opts.vad, opts.language)
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}

	p, err := filepipeline.New(filepipeline.Options{
		Engine:             engine,
		VADProcessor:       vp,
		Translator:         trans,
		SourceLang:         opts.language,
		TargetLang:         opts.targetLang,
		TranslationTimeout: translationTimeout(),
	})
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}

	if len(paths) == 1 && out != "" {
		res, err := p.ProcessFile(context.Background(), paths[0], out, writeTranslated)
		if err != nil {
			fmt.Println("error:", err)
			return 1
		}
		fmt.Fprintf(stdout(), "wrote %s (%d subtitles)\n", res.OutputPath, len(res.Subtitles))
		return 0
	}

	failed := false
	p.ProcessFiles(context.Background(), paths, outDir, writeTranslated, filepipeline.BatchCallbacks{
		Result: func(path string, res filepipeline.FileProcessingResult) {
			fmt.Fprintf(stdout(), "%s -> %s (%d subtitles)\n", path, res.OutputPath, len(res.Subtitles))
		},
		Error: func(path string, err error) {
			failed = true
			fmt.Fprintf(stdout(), "%s: error: %v\n", path, err)
		},
	})
	if failed {
		return 1
	}
	return 0
}

func runRealtimeTranscribe(engine asr.Engine, trans translator.Translator, opts *commonOptions, micIndex int) int {
	if micIndex < 0 {
		fmt.Println("error: --realtime requires --mic <id>")
		return 1
	}

	src := audio.NewMicrophoneSource(micIndex, engine.RequiredSampleRate(), 100)
	if err := src.Start(); err != nil {
		fmt.Println("error:", err)
		return 1
	}
	defer src.Close()

	vp, err := buildVADProcessor(opts.vad, opts.language)
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}

	orch, err := orchestrator.New(orchestrator.Options{
		Engine:             engine,
		VADProcessor:       vp,
		SourceID:           uuid.NewString(),
		Translator:         trans,
		SourceLang:         opts.language,
		TargetLang:         opts.targetLang,
		TranslationTimeout: translationTimeout(),
	})
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}
	defer orch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	err = orch.TranscribeSync(src,
		func(r result.TranscriptionResult) {
			text := r.Text
			if r.TranslatedText != nil {
				text = text + " -> " + *r.TranslatedText
			}
			fmt.Fprintf(stdout(), "[%6.2f-%6.2f] %s\n", r.StartTimeS, r.EndTimeS, text)
		},
		func(r result.InterimResult) {
			fmt.Fprintf(stdout(), "... %s\n", r.Text)
		},
	)
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}
	return 0
}
