// Command livecap is the CLI surface over the transcription core: file and
// realtime transcription, plus informational subcommands (info, devices,
// engines, translators) backed by the same registries the factory uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/livecap/livecap/pkg/trace"
)

var stdoutWriter io.Writer = os.Stdout

func stdout() io.Writer { return stdoutWriter }

// newSubcommandFlagSet builds a flag.FlagSet for one subcommand, pre-
// scanning os.Args for --config so file-provided defaults are available
// before the caller registers its own flags.
func newSubcommandFlagSet(name string) (*flag.FlagSet, FileConfig) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", "", "optional YAML config file for default flag values")

	preScanned := preScanConfigFlag(os.Args[2:])
	cfg, err := loadConfig(preScanned)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: failed to load --config:", err)
	}
	return fs, cfg
}

func main() {
	os.Exit(runMain())
}

func runMain() int {
	godotenv.Load()

	ctx := context.Background()
	if err := trace.Initialize(ctx, trace.DefaultConfig()); err != nil {
		slog.Warn("tracing disabled: failed to initialize exporter", "error", err)
	}
	defer func() {
		if err := trace.Shutdown(ctx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	return run(os.Args)
}

func run(args []string) int {
	if len(args) < 2 {
		printUsage()
		return 1
	}

	switch args[1] {
	case "info":
		return runInfo(args[2:])
	case "devices":
		return runDevices(args[2:])
	case "engines":
		return runEngines(args[2:])
	case "translators":
		return runTranslators(args[2:])
	case "transcribe":
		return runTranscribe(args[2:])
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `livecap - transcription and subtitle CLI

Usage:
  livecap info [--as-json] [--ensure-demux]
  livecap devices
  livecap engines
  livecap translators
  livecap transcribe <file>... -o <out.srt> [options]
  livecap transcribe --realtime --mic <id> [options]

Common options:
  --engine <id>            ASR engine id (default "whisper")
  --device {auto,gpu,cpu}  compute device (default "auto")
  --language <code>        source language code
  --model-size <size>      model size variant, if applicable
  --vad {auto,silero,tenvad,webrtc}  VAD backend (default "auto")
  --translate <id>         translator id to enable (openai, gemini)
  --target-lang <code>     target language code when --translate is set
  --config <file.yaml>     load default flag values from a YAML file`)
}
