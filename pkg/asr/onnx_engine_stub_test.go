//go:build !asr_onnx

package asr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestONNXEnginesRegisteredButUnconstructableWithoutTag(t *testing.T) {
	for _, id := range []string{"canary", "reazonspeech", "parakeet-en", "parakeet-ja"} {
		info, ok := Lookup(id)
		require.True(t, ok, "expected %s to be registered", id)
		assert.NotEmpty(t, info.SupportedLanguages)

		_, err := CreateEngine(id, DeviceAuto, nil)
		require.Error(t, err)
		var asrErr *Error
		require.ErrorAs(t, err, &asrErr)
		assert.Equal(t, KindDependencyMissing, asrErr.Kind)
	}
}

func TestONNXEnginesAppearInLanguageLookup(t *testing.T) {
	assert.Contains(t, EnginesForLanguage("ja"), "reazonspeech")
	assert.Contains(t, EnginesForLanguage("en"), "parakeet-en")
}
