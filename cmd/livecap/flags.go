package main

import (
	"flag"

	"github.com/livecap/livecap/pkg/asr"
)

// commonOptions holds the flag values shared by every subcommand that talks
// to the engine registry, VAD registry, or translator contract.
type commonOptions struct {
	engine     string
	device     string
	language   string
	modelSize  string
	vad        string
	translate  string
	targetLang string
}

// registerCommonFlags adds the shared flags to fs, seeded from cfg so a
// --config file sets defaults that explicit flags still override.
func registerCommonFlags(fs *flag.FlagSet, cfg FileConfig) *commonOptions {
	opts := &commonOptions{}
	fs.StringVar(&opts.engine, "engine", orDefault(cfg.Engine, "whisper"), "ASR engine id (see `engines`)")
	fs.StringVar(&opts.device, "device", orDefault(cfg.Device, "auto"), "compute device: auto, gpu, cpu")
	fs.StringVar(&opts.language, "language", cfg.Language, "source language code (BCP-47-ish)")
	fs.StringVar(&opts.modelSize, "model-size", cfg.ModelSize, "model size variant, if the engine has one")
	fs.StringVar(&opts.vad, "vad", orDefault(cfg.VAD, "auto"), "VAD backend: auto, silero, tenvad, webrtc")
	fs.StringVar(&opts.translate, "translate", cfg.Translate, "translator id to enable (openai, gemini)")
	fs.StringVar(&opts.targetLang, "target-lang", cfg.TargetLang, "target language code when --translate is set")
	return opts
}

// resolveDevice maps the CLI's {auto,gpu,cpu} vocabulary onto asr.Device,
// treating "gpu" as an alias for "cuda" per the external interface contract.
func resolveDevice(device string) asr.Device {
	switch device {
	case "gpu", "cuda":
		return asr.DeviceCUDA
	case "cpu":
		return asr.DeviceCPU
	default:
		return asr.DeviceAuto
	}
}

// engineOverrides turns the model-size and language flags into the
// registry's overrides map; every other engine-specific parameter stays at
// its registered default.
func (o *commonOptions) engineOverrides() map[string]string {
	overrides := map[string]string{}
	if o.modelSize != "" {
		overrides["model_size"] = o.modelSize
	}
	if o.language != "" {
		overrides["language"] = o.language
	}
	return overrides
}
