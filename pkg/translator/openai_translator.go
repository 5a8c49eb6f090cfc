package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/livecap/livecap/pkg/result"
)

// languageNames maps a handful of common codes to the display names used
// in the default system prompt. Grounded on getLanguageName's table in
// translate_element.go.
var languageNames = map[string]string{
	"auto": "auto-detect",
	"zh":   "Chinese",
	"en":   "English",
	"ja":   "Japanese",
	"ko":   "Korean",
	"es":   "Spanish",
	"fr":   "French",
	"de":   "German",
	"ru":   "Russian",
	"ar":   "Arabic",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// OpenAITranslator is an LLM-backed translator using a chat-completion
// call per request. Mirrors TranslateElement's OpenAI path: same
// system-prompt construction, same non-streaming ChatCompletions.New call,
// now reshaped into the Translator contract
// instead of a pipeline element consuming a channel.
type OpenAITranslator struct {
	mu          sync.Mutex
	client      *openai.Client
	model       string
	apiKey      string
	initialized bool
}

// NewOpenAITranslator constructs an uninitialized translator; LoadModel
// creates the API client.
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAITranslator{apiKey: apiKey, model: model}
}

func (t *OpenAITranslator) LoadModel(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(t.apiKey))
	t.client = &client
	t.initialized = true
	return nil
}

func (t *OpenAITranslator) IsInitialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initialized
}

func (t *OpenAITranslator) Cleanup() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.client = nil
	t.initialized = false
	return nil
}

func (t *OpenAITranslator) GetTranslatorName() string { return "openai" }

// GetSupportedPairs returns empty: an LLM backend supports any pair.
func (t *OpenAITranslator) GetSupportedPairs() []LanguagePair { return nil }

func (t *OpenAITranslator) Translate(ctx context.Context, text, source, target string, contextLines []string) (result.TranslationResult, error) {
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
		return result.TranslationResult{}, modelError(fmt.Errorf("openai translator used before LoadModel"))
	}

	prompt := buildSystemPrompt(source, target)
	input := text
	if len(contextLines) > 0 {
		input = strings.Join(contextLines, "\n") + "\n" + text
	}

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(input),
		},
		Model: shared.ChatModel(t.model),
	})
	if err != nil {
		if ctx.Err() != nil {
			return result.TranslationResult{}, timeoutError(ctx.Err())
		}
		return result.TranslationResult{}, networkError(err)
	}
	if len(completion.Choices) == 0 {
		return result.TranslationResult{}, modelError(fmt.Errorf("no choices in response"))
	}

	return result.TranslationResult{
		Text:         completion.Choices[0].Message.Content,
		OriginalText: text,
		SourceLang:   source,
		TargetLang:   target,
	}, nil
}

func (t *OpenAITranslator) TranslateAsync(ctx context.Context, text, source, target string, contextLines []string) <-chan AsyncResult {
	return DefaultTranslateAsync(ctx, t, text, source, target, contextLines)
}

func buildSystemPrompt(source, target string) string {
	targetName := languageName(target)
	if source == "" || source == "auto" {
		return fmt.Sprintf("You are a professional translator. Translate the following text to %s. Only output the translation, no explanations.", targetName)
	}
	return fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s. Only output the translation, no explanations.", languageName(source), targetName)
}

var _ Translator = (*OpenAITranslator)(nil)
