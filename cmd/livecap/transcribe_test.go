package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVADProcessorAutoWithKnownLanguage(t *testing.T) {
	p, err := buildVADProcessor("auto", "ja")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBuildVADProcessorAutoWithUnknownLanguageFallsBackToTenVAD(t *testing.T) {
	p, err := buildVADProcessor("auto", "xx-not-a-real-language")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBuildVADProcessorExplicitBackend(t *testing.T) {
	p, err := buildVADProcessor("webrtc", "")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBuildVADProcessorUnknownBackendErrors(t *testing.T) {
	_, err := buildVADProcessor("not-a-backend", "")
	assert.Error(t, err)
}

func TestBuildTranslatorEmptyIDReturnsNil(t *testing.T) {
	tr, err := buildTranslator("")
	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestBuildTranslatorUnknownIDErrors(t *testing.T) {
	_, err := buildTranslator("not-a-translator")
	assert.Error(t, err)
}

func TestBuildTranslatorOpenAIRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := buildTranslator("openai")
	assert.Error(t, err)
}

func TestBuildTranslatorOpenAIConstructsWithAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	tr, err := buildTranslator("openai")
	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestTranslationTimeoutDefaultsWhenUnset(t *testing.T) {
	t.Setenv("LIVECAP_TRANSLATION_TIMEOUT", "")
	assert.Equal(t, 5*time.Second, translationTimeout())
}

func TestTranslationTimeoutReadsEnvOverride(t *testing.T) {
	t.Setenv("LIVECAP_TRANSLATION_TIMEOUT", "2.5")
	assert.Equal(t, 2500*time.Millisecond, translationTimeout())
}
