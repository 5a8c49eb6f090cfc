package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/livecap/livecap/pkg/result"
)

// GeminiTranslator is an LLM-backed translator using Gemini's
// GenerateContent call. Mirrors TranslateElement's Gemini path: context is
// injected via SystemInstruction rather than prepended to the input, since
// the system prompt is where that path places translation instructions for
// this backend.
type GeminiTranslator struct {
	mu          sync.Mutex
	client      *genai.Client
	model       string
	apiKey      string
	initialized bool
}

func NewGeminiTranslator(apiKey, model string) *GeminiTranslator {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiTranslator{apiKey: apiKey, model: model}
}

func (t *GeminiTranslator) LoadModel(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		return nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  t.apiKey,
		Backend: genai.BackendGoogleAI,
	})
	if err != nil {
		return modelError(err)
	}
	t.client = client
	t.initialized = true
	return nil
}

func (t *GeminiTranslator) IsInitialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initialized
}

func (t *GeminiTranslator) Cleanup() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.client = nil
	t.initialized = false
	return nil
}

func (t *GeminiTranslator) GetTranslatorName() string { return "gemini" }

func (t *GeminiTranslator) GetSupportedPairs() []LanguagePair { return nil }

func (t *GeminiTranslator) Translate(ctx context.Context, text, source, target string, contextLines []string) (result.TranslationResult, error) {
	if text == "" {
		return result.TranslationResult{SourceLang: source, TargetLang: target}, nil
	}
	if source == target {
		return result.TranslationResult{}, unsupportedPairError(source, target)
	}

	t.mu.Lock()
	client := t.client
	t.mu.Unlock()
	if client == nil {
		return result.TranslationResult{}, modelError(fmt.Errorf("gemini translator used before LoadModel"))
	}

	systemPrompt := buildSystemPrompt(source, target)
	if len(contextLines) > 0 {
		systemPrompt += "\n\nRecent context for continuity:\n" + strings.Join(contextLines, "\n")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, t.model, genai.Text(text), config)
	if err != nil {
		if ctx.Err() != nil {
			return result.TranslationResult{}, timeoutError(ctx.Err())
		}
		return result.TranslationResult{}, networkError(err)
	}

	translated := collectGeminiText(resp)
	if translated == "" {
		return result.TranslationResult{}, modelError(fmt.Errorf("empty response"))
	}

	return result.TranslationResult{
		Text:         translated,
		OriginalText: text,
		SourceLang:   source,
		TargetLang:   target,
	}, nil
}

func (t *GeminiTranslator) TranslateAsync(ctx context.Context, text, source, target string, contextLines []string) <-chan AsyncResult {
	return DefaultTranslateAsync(ctx, t, text, source, target, contextLines)
}

// collectGeminiText concatenates every candidate's text parts, mirroring
// collectGeminiText in translate_element.go.
func collectGeminiText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

var _ Translator = (*GeminiTranslator)(nil)
