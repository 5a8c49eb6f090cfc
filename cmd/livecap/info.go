package main

import (
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/livecap/livecap/pkg/asr"
	"github.com/livecap/livecap/pkg/locators"
	"github.com/livecap/livecap/pkg/vad"
)

// infoReport is the structured payload info prints, either as a human-
// readable block or as JSON with --as-json.
type infoReport struct {
	ModelsDir      string   `json:"models_dir"`
	CacheDir       string   `json:"cache_dir"`
	DemuxPath      string   `json:"demux_path,omitempty"`
	DemuxError     string   `json:"demux_error,omitempty"`
	GPUAvailable   bool     `json:"gpu_available"`
	VADBackends    []string `json:"vad_backends"`
	Engines        []string `json:"engines"`
	Translators    []string `json:"translators"`
}

// gatherInfo resolves every path and capability info reports. ensureDemux
// controls whether DemuxExecutable is actually called (it may be a slow or
// side-effecting resolution on some locators) or merely described.
func gatherInfo(ensureDemux bool) (infoReport, error) {
	loc, err := locators.NewDefaultLocator()
	if err != nil {
		return infoReport{}, err
	}

	modelsDir, err := loc.ModelsDir("")
	if err != nil {
		return infoReport{}, err
	}
	cacheDir, release, err := loc.CacheDir("info")
	if err != nil {
		return infoReport{}, err
	}
	defer release()

	report := infoReport{
		ModelsDir:    modelsDir,
		CacheDir:     cacheDir,
		GPUAvailable: gpuAvailable(),
		VADBackends:  vad.BackendIDs(),
		Engines:      asr.IDs(),
		Translators:  []string{"openai", "gemini"},
	}

	if ensureDemux {
		path, err := loc.DemuxExecutable()
		if err != nil {
			report.DemuxError = err.Error()
		} else {
			report.DemuxPath = path
		}
	}

	return report, nil
}

// gpuAvailable is a best-effort heuristic: presence of nvidia-smi on PATH.
// No GPU-detection library is wired into this repo's dependency stack, so
// this stays a thin stdlib probe rather than a fabricated dependency.
func gpuAvailable() bool {
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

func runInfo(args []string) int {
	fs, cfg := newSubcommandFlagSet("info")
	asJSON := fs.Bool("as-json", false, "print the report as JSON")
	ensureDemux := fs.Bool("ensure-demux", false, "resolve the demux binary path now")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	_ = cfg

	report, err := gatherInfo(*ensureDemux)
	if err != nil {
		fmt.Println("error:", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Println("error:", err)
			return 1
		}
		return 0
	}

	fmt.Fprintln(stdout(), "models_dir:", report.ModelsDir)
	fmt.Fprintln(stdout(), "cache_dir:", report.CacheDir)
	if report.DemuxPath != "" {
		fmt.Fprintln(stdout(), "demux_path:", report.DemuxPath)
	}
	if report.DemuxError != "" {
		fmt.Fprintln(stdout(), "demux_error:", report.DemuxError)
	}
	fmt.Fprintln(stdout(), "gpu_available:", report.GPUAvailable)
	fmt.Fprintln(stdout(), "vad_backends:", report.VADBackends)
	fmt.Fprintln(stdout(), "engines:", report.Engines)
	fmt.Fprintln(stdout(), "translators:", report.Translators)
	return 0
}
