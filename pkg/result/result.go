// Package result defines the immutable result records produced by the
// stream orchestrator and file pipeline, plus SRT subtitle serialization.
package result

import "fmt"

// TranscriptionResult is an immutable final transcription record.
type TranscriptionResult struct {
	Text           string
	StartTimeS     float64
	EndTimeS       float64
	IsFinal        bool
	Confidence     float32
	Language       string
	SourceID       string
	TranslatedText *string
	TargetLanguage *string
}

// NewTranscriptionResult constructs a final result with IsFinal always true,
// matching the spec's TranscriptionResult.is_final=true invariant.
func NewTranscriptionResult(text string, startS, endS float64, confidence float32, language, sourceID string) TranscriptionResult {
	return TranscriptionResult{
		Text:       text,
		StartTimeS: startS,
		EndTimeS:   endS,
		IsFinal:    true,
		Confidence: confidence,
		Language:   language,
		SourceID:   sourceID,
	}
}

// DurationS returns end - start.
func (r TranscriptionResult) DurationS() float64 { return r.EndTimeS - r.StartTimeS }

// WithTranslation returns a copy with translated_text/target_language set.
func (r TranscriptionResult) WithTranslation(translatedText, targetLanguage string) TranscriptionResult {
	r.TranslatedText = &translatedText
	r.TargetLanguage = &targetLanguage
	return r
}

// ToSRTEntry formats index on its own line, the HH:MM:SS,mmm --> HH:MM:SS,mmm
// timecode line, the text line, and a trailing newline. Uses translated_text
// when present, matching FileSubtitleSegment's translated-variant behavior.
func (r TranscriptionResult) ToSRTEntry(index int) string {
	text := r.Text
	if r.TranslatedText != nil {
		text = *r.TranslatedText
	}
	return formatSRTEntry(index, r.StartTimeS, r.EndTimeS, text)
}

// InterimResult is an immutable non-final transcription of a still-open
// segment. It has no start/end, only elapsed-in-segment duration.
type InterimResult struct {
	Text             string
	AccumulatedTimeS float64
	SourceID         string
}

// FileSubtitleSegment is one entry of a batch file's subtitle track.
type FileSubtitleSegment struct {
	Index          int // 1-based
	StartS         float64
	EndS           float64
	Text           string
	Metadata       map[string]string
	TranslatedText *string
	TargetLanguage *string
}

// ToSRTEntry formats this segment the same way TranscriptionResult does.
func (s FileSubtitleSegment) ToSRTEntry() string {
	text := s.Text
	if s.TranslatedText != nil {
		text = *s.TranslatedText
	}
	return formatSRTEntry(s.Index, s.StartS, s.EndS, text)
}

// formatSRTEntry is shared by both result types' SRT serialization: index
// line, timecode line (comma decimal separator), text line, trailing
// newline. Milliseconds are floor-of (t*1000) mod 1000 per spec — never
// rounded, to avoid a 999.6ms boundary rolling over into the next second.
func formatSRTEntry(index int, startS, endS float64, text string) string {
	return fmt.Sprintf("%d\n%s --> %s\n%s\n", index, formatTimecode(startS), formatTimecode(endS), text)
}

func formatTimecode(seconds float64) string {
	totalMs := int64(seconds * 1000)
	if totalMs < 0 {
		totalMs = 0
	}
	ms := totalMs % 1000
	totalS := totalMs / 1000
	s := totalS % 60
	totalM := totalS / 60
	m := totalM % 60
	h := totalM / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// TranslationResult is the immutable output of a translator call.
type TranslationResult struct {
	Text         string
	OriginalText string
	SourceLang   string
	TargetLang   string
	Confidence   *float32
	SourceID     string
}
