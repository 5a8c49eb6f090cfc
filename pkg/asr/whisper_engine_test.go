package asr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWhisperEngineRejectsUnsupportedLanguage(t *testing.T) {
	_, err := newWhisperEngine(DeviceCPU, map[string]string{"language": "xx-not-a-lang"})
	require.Error(t, err)
	var asrErr *Error
	require.ErrorAs(t, err, &asrErr)
	assert.Equal(t, KindUnsupportedLang, asrErr.Kind)
}

func TestNewWhisperEngineNormalizesLanguage(t *testing.T) {
	eng, err := newWhisperEngine(DeviceCPU, map[string]string{"language": "EN-us"})
	require.NoError(t, err)
	w := eng.(*WhisperEngine)
	assert.Equal(t, "en", w.language)
}

func TestNewWhisperEngineDefaultsModel(t *testing.T) {
	eng, err := newWhisperEngine(DeviceCPU, map[string]string{})
	require.NoError(t, err)
	w := eng.(*WhisperEngine)
	assert.NotEmpty(t, w.model)
}

func TestWhisperEngineCheckDepsRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	eng, err := newWhisperEngine(DeviceCPU, map[string]string{})
	require.NoError(t, err)
	w := eng.(*WhisperEngine)

	err = w.CheckDeps(nil)
	require.Error(t, err)
	var asrErr *Error
	require.ErrorAs(t, err, &asrErr)
	assert.Equal(t, KindDependencyMissing, asrErr.Kind)
}

func TestWhisperEngineCheckDepsAcceptsParamKey(t *testing.T) {
	eng, err := newWhisperEngine(DeviceCPU, map[string]string{"api_key": "sk-test"})
	require.NoError(t, err)
	w := eng.(*WhisperEngine)
	require.NoError(t, w.CheckDeps(nil))
}

func TestFloatPCMToWAVHeader(t *testing.T) {
	samples := make([]float32, 1600)
	wav, err := floatPCMToWAV(samples, 16000)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Len(t, wav, 44+len(samples)*2)
}
