package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/livecap/livecap/pkg/asr"
)

func TestResolveDevice(t *testing.T) {
	assert.Equal(t, asr.DeviceCUDA, resolveDevice("gpu"))
	assert.Equal(t, asr.DeviceCUDA, resolveDevice("cuda"))
	assert.Equal(t, asr.DeviceCPU, resolveDevice("cpu"))
	assert.Equal(t, asr.DeviceAuto, resolveDevice("auto"))
	assert.Equal(t, asr.DeviceAuto, resolveDevice(""))
}

func TestRegisterCommonFlagsUsesConfigAsDefaultAndFlagsOverride(t *testing.T) {
	cfg := FileConfig{Engine: "whisper", Device: "cpu", VAD: "webrtc"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := registerCommonFlags(fs, cfg)

	require := func(cond bool, msg string) {
		if !cond {
			t.Fatal(msg)
		}
	}
	require(fs.Parse(nil) == nil, "parse should not fail")
	assert.Equal(t, "whisper", opts.engine)
	assert.Equal(t, "cpu", opts.device)
	assert.Equal(t, "webrtc", opts.vad)

	fs2 := flag.NewFlagSet("test2", flag.ContinueOnError)
	opts2 := registerCommonFlags(fs2, cfg)
	err := fs2.Parse([]string{"--device", "gpu"})
	assert.NoError(t, err)
	assert.Equal(t, "gpu", opts2.device)
	assert.Equal(t, "whisper", opts2.engine)
}

func TestEngineOverridesIncludesModelSizeAndLanguage(t *testing.T) {
	opts := &commonOptions{modelSize: "large", language: "ja"}
	overrides := opts.engineOverrides()
	assert.Equal(t, "large", overrides["model_size"])
	assert.Equal(t, "ja", overrides["language"])
}

func TestEngineOverridesOmitsUnsetFields(t *testing.T) {
	opts := &commonOptions{}
	overrides := opts.engineOverrides()
	assert.Empty(t, overrides)
}
