// Stub registrations for the local ONNX-backed engines when built without
// the "asr_onnx" tag: the ids are still registered (so info/engines listings
// and engines_for_language stay consistent across build configurations) but
// construction fails with DependencyMissing instead of silently omitting
// the engine.
//
//go:build !asr_onnx

package asr

func init() {
	for _, e := range []struct {
		id, display string
		langs       []string
	}{
		{"canary", "NVIDIA Canary / Voxtral", []string{"en", "es", "fr", "de"}},
		{"reazonspeech", "ReazonSpeech", []string{"ja"}},
		{"parakeet-en", "Parakeet (English)", []string{"en"}},
		{"parakeet-ja", "Parakeet (Japanese)", []string{"ja"}},
	} {
		id, display, langs := e.id, e.display, e.langs
		Register(Info{
			ID:                 id,
			DisplayName:        display,
			Description:        display + " (requires a build with the \"asr_onnx\" tag)",
			SupportedLanguages: langs,
			RequiresDownload:   true,
			DeviceSupport:      []Device{DeviceCPU, DeviceCUDA},
			Streaming:          false,
			Construct: func(device Device, params map[string]string) (Engine, error) {
				return nil, &Error{Kind: KindDependencyMissing, Message: id + ": built without the \"asr_onnx\" tag"}
			},
		})
	}
}
