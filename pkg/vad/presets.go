package vad

import "sort"

// Preset pairs a backend id with a tuned Config for one language family.
// BackendID refers to an id registered in the package registry (see
// registry.go); every preset uses "tenvad", a backend that needs no
// external model file, so FromLanguage can hand back
// a fully constructed Processor without involving a resource locator. A
// caller that wants the neural "silero" backend instead configures the
// processor explicitly via the registry.
type Preset struct {
	BackendID string
	Config    Config
}

// languagePresets is the small static preset table from_language draws
// from. Entries are illustrative tunings: tonal/syllable-timed languages
// get a slightly lower threshold and shorter min_silence, since pitch
// contours carry more of the speech signal than raw energy.
var languagePresets = map[string]Preset{
	"en": {BackendID: "tenvad", Config: DefaultConfig()},
	"es": {BackendID: "tenvad", Config: DefaultConfig()},
	"fr": {BackendID: "tenvad", Config: DefaultConfig()},
	"de": {BackendID: "tenvad", Config: DefaultConfig()},
	"ja": {BackendID: "tenvad", Config: tunedConfig(0.45, 90)},
	"zh": {BackendID: "tenvad", Config: tunedConfig(0.45, 90)},
	"ko": {BackendID: "tenvad", Config: tunedConfig(0.45, 90)},
	"vi": {BackendID: "tenvad", Config: tunedConfig(0.45, 90)},
}

func tunedConfig(threshold float64, minSilenceMs float64) Config {
	c := DefaultConfig()
	c.Threshold = threshold
	c.MinSilenceMs = minSilenceMs
	return c
}

// FromLanguage returns the preset (backend id, Config) pair for lang, or an
// UnsupportedLanguage *Error listing the known codes.
func FromLanguage(lang string) (Preset, error) {
	if p, ok := languagePresets[lang]; ok {
		return p, nil
	}
	supported := make([]string, 0, len(languagePresets))
	for k := range languagePresets {
		supported = append(supported, k)
	}
	sort.Strings(supported)
	return Preset{}, UnsupportedLanguageError(lang, supported)
}

// NewProcessorFromLanguage builds a Processor preconfigured for lang using
// the preset table and the package's backend registry.
func NewProcessorFromLanguage(lang string) (*Processor, error) {
	preset, err := FromLanguage(lang)
	if err != nil {
		return nil, err
	}
	backend, err := NewBackend(preset.BackendID, nil)
	if err != nil {
		return nil, err
	}
	return NewProcessor(backend, preset.Config), nil
}
