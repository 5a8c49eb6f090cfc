package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreScanConfigFlagSpaceForm(t *testing.T) {
	got := preScanConfigFlag([]string{"transcribe", "--config", "my.yaml", "-o", "out.srt"})
	assert.Equal(t, "my.yaml", got)
}

func TestPreScanConfigFlagEqualsForm(t *testing.T) {
	got := preScanConfigFlag([]string{"transcribe", "--config=my.yaml"})
	assert.Equal(t, "my.yaml", got)
}

func TestPreScanConfigFlagAbsent(t *testing.T) {
	got := preScanConfigFlag([]string{"transcribe", "-o", "out.srt"})
	assert.Equal(t, "", got)
}

func TestLoadConfigEmptyPathReturnsZeroValue(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: whisper\ndevice: cpu\ntarget_lang: ja\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "whisper", cfg.Engine)
	assert.Equal(t, "cpu", cfg.Device)
	assert.Equal(t, "ja", cfg.TargetLang)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", orDefault("", "fallback"))
	assert.Equal(t, "value", orDefault("value", "fallback"))
}
