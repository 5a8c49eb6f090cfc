package trace

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// InstrumentVADFrame creates a span around a single VAD backend invocation.
func InstrumentVADFrame(ctx context.Context, backend string, probability float64, state string) (context.Context, trace.Span) {
	return StartSpan(ctx, "vad.frame",
		trace.WithAttributes(VADAttrs(backend, probability, state)...),
	)
}

// InstrumentEngineTranscribe creates a span around an ASR engine transcribe call.
func InstrumentEngineTranscribe(ctx context.Context, engineID, language, device string) (context.Context, trace.Span) {
	return StartSpan(ctx, "asr.transcribe",
		trace.WithAttributes(EngineAttrs(engineID, language, device)...),
	)
}

// InstrumentEngineLoad creates a span around an ASR engine load_model call.
func InstrumentEngineLoad(ctx context.Context, engineID, device string) (context.Context, trace.Span) {
	return StartSpan(ctx, "asr.load_model",
		trace.WithAttributes(EngineAttrs(engineID, "", device)...),
	)
}

// InstrumentTranslate creates a span around a translator call.
func InstrumentTranslate(ctx context.Context, translatorID, sourceLang, targetLang string) (context.Context, trace.Span) {
	return StartSpan(ctx, "translation.translate",
		trace.WithAttributes(TranslatorAttrs(translatorID, sourceLang, targetLang)...),
	)
}
