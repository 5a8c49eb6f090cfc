package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional --config file.yaml shape: every field mirrors
// a common CLI flag and, when set, becomes that flag's default so a config
// file and explicit flags compose (flags win).
type FileConfig struct {
	Engine     string `yaml:"engine"`
	Device     string `yaml:"device"`
	Language   string `yaml:"language"`
	ModelSize  string `yaml:"model_size"`
	VAD        string `yaml:"vad"`
	Translate  string `yaml:"translate"`
	TargetLang string `yaml:"target_lang"`
}

// loadConfig reads path (if non-empty) as YAML into a FileConfig. A missing
// path is not an error: absence of --config just means no overridden
// defaults.
func loadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// preScanConfigFlag finds a "--config" or "--config=value" argument among
// args without fully parsing the flag set, so its value can seed flag
// defaults before the real flag.FlagSet is built.
func preScanConfigFlag(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := cutPrefix(a, "--config="); ok {
			return v
		}
	}
	return ""
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return "", false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
