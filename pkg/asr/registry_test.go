package asr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEngineAutoIsDeprecated(t *testing.T) {
	_, err := CreateEngine("auto", DeviceAuto, nil)
	require.Error(t, err)
	var asrErr *Error
	require.ErrorAs(t, err, &asrErr)
	assert.Equal(t, KindAutoDeprecated, asrErr.Kind)
}

func TestCreateEngineUnknownID(t *testing.T) {
	_, err := CreateEngine("does-not-exist", DeviceAuto, nil)
	require.Error(t, err)
	var asrErr *Error
	require.ErrorAs(t, err, &asrErr)
	assert.Equal(t, KindUnknownEngine, asrErr.Kind)
}

func TestCreateEngineMergesDefaultsAndOverrides(t *testing.T) {
	Register(Info{
		ID: "test-merge-engine",
		DefaultParams: map[string]string{
			"a": "default-a",
			"b": "default-b",
		},
		Construct: func(device Device, params map[string]string) (Engine, error) {
			e := NewMockEngine("x")
			e.Name = params["a"] + "/" + params["b"]
			return e, nil
		},
	})

	eng, err := CreateEngine("test-merge-engine", DeviceAuto, map[string]string{"b": "override-b"})
	require.NoError(t, err)
	assert.Equal(t, "default-a/override-b", eng.EngineName())
}

func TestIDsSorted(t *testing.T) {
	Register(Info{ID: "zzz-test"})
	Register(Info{ID: "aaa-test"})
	ids := IDs()
	require.Contains(t, ids, "zzz-test")
	require.Contains(t, ids, "aaa-test")

	var zIdx, aIdx int
	for i, id := range ids {
		if id == "zzz-test" {
			zIdx = i
		}
		if id == "aaa-test" {
			aIdx = i
		}
	}
	assert.Less(t, aIdx, zIdx)
}

func TestEnginesForLanguageNormalizesAndFilters(t *testing.T) {
	Register(Info{ID: "zh-test-engine", SupportedLanguages: []string{"zh"}})
	ids := EnginesForLanguage("zh-CN")
	assert.Contains(t, ids, "zh-test-engine")
}

func TestEnginesForLanguageIncludesAllLanguageEngines(t *testing.T) {
	Register(Info{ID: "universal-test-engine", SupportedLanguages: nil})
	ids := EnginesForLanguage("fr")
	assert.Contains(t, ids, "universal-test-engine")
}
