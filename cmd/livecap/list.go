package main

import (
	"fmt"

	"github.com/livecap/livecap/pkg/asr"
	"github.com/livecap/livecap/pkg/audio"
)

func runDevices(args []string) int {
	fs, _ := newSubcommandFlagSet("devices")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	devices, err := audio.ListCaptureDevices()
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}
	for _, d := range devices {
		def := ""
		if d.IsDefault {
			def = " (default)"
		}
		fmt.Fprintf(stdout(), "%d: %s [%d channels]%s\n", d.Index, d.Name, d.Channels, def)
	}
	return 0
}

func runEngines(args []string) int {
	fs, _ := newSubcommandFlagSet("engines")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	for _, id := range asr.IDs() {
		info, _ := asr.Lookup(id)
		fmt.Fprintf(stdout(), "%s: %s %v\n", info.ID, info.DisplayName, info.DeviceSupport)
	}
	return 0
}

func runTranslators(args []string) int {
	fs, _ := newSubcommandFlagSet("translators")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	// No translator registry package exists yet (unlike asr/vad); the two
	// hosted translators this repo wires are listed directly.
	fmt.Fprintln(stdout(), "openai: OpenAI chat-completion translator")
	fmt.Fprintln(stdout(), "gemini: Google Gemini translator")
	return 0
}
