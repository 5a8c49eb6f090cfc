package trace

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys used throughout the application.
const (
	AttrSessionID = "session.id"

	AttrAudioSampleRate = "audio.sample_rate"
	AttrAudioChannels   = "audio.channels"
	AttrAudioDataSize   = "audio.data_size"

	AttrVADBackend     = "vad.backend"
	AttrVADProbability = "vad.probability"
	AttrVADState       = "vad.state"

	AttrEngineID       = "asr.engine_id"
	AttrEngineLanguage = "asr.language"
	AttrEngineDevice   = "asr.device"

	AttrTranslatorID = "translation.translator_id"
	AttrSourceLang   = "translation.source_lang"
	AttrTargetLang   = "translation.target_lang"

	AttrErrorType    = "error.type"
	AttrErrorMessage = "error.message"
)

// SessionAttrs creates attributes for session information.
func SessionAttrs(sessionID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSessionID, sessionID),
	}
}

// AudioAttrs creates attributes for a chunk of audio data.
func AudioAttrs(sampleRate, channels, dataSize int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrAudioSampleRate, sampleRate),
		attribute.Int(AttrAudioChannels, channels),
		attribute.Int(AttrAudioDataSize, dataSize),
	}
}

// VADAttrs creates attributes describing a single VAD frame decision.
func VADAttrs(backend string, probability float64, state string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrVADBackend, backend),
		attribute.Float64(AttrVADProbability, probability),
		attribute.String(AttrVADState, state),
	}
}

// EngineAttrs creates attributes describing an ASR engine invocation.
func EngineAttrs(engineID, language, device string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrEngineID, engineID),
		attribute.String(AttrEngineLanguage, language),
		attribute.String(AttrEngineDevice, device),
	}
}

// TranslatorAttrs creates attributes describing a translation call.
func TranslatorAttrs(translatorID, sourceLang, targetLang string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrTranslatorID, translatorID),
		attribute.String(AttrSourceLang, sourceLang),
		attribute.String(AttrTargetLang, targetLang),
	}
}

// ErrorAttrs creates attributes for errors.
func ErrorAttrs(errType, errMsg string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrErrorType, errType),
		attribute.String(AttrErrorMessage, errMsg),
	}
}
