package asr

import (
	"sort"
	"sync"

	"github.com/livecap/livecap/pkg/langcode"
)

// Device is the resolved compute device for an engine: empty means
// "attempt CUDA, fall back to CPU" per §4.F's create_engine contract.
type Device string

const (
	DeviceAuto Device = ""
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
)

// Info is the registry's static metadata for one engine id.
type Info struct {
	ID                  string
	DisplayName         string
	Description         string
	SupportedLanguages  []string
	RequiresDownload    bool
	DeviceSupport       []Device
	Streaming           bool
	AvailableModelSizes []string
	DefaultParams       map[string]string

	// Construct builds an unloaded Engine instance from the merged
	// parameters and resolved device. LoadModel is not called here.
	Construct func(device Device, params map[string]string) (Engine, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Info{}
)

// Register adds or replaces an engine's registry entry. Called from
// package init() in each concrete engine's file.
func Register(info Info) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[info.ID] = info
}

// Lookup returns the registry entry for id.
func Lookup(id string) (Info, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	info, ok := registry[id]
	return info, ok
}

// IDs returns every registered engine id, sorted for deterministic CLI
// listing order.
func IDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EnginesForLanguage returns every registered engine id whose
// SupportedLanguages include the normalized form of lang. An empty
// SupportedLanguages set means "all languages", so such engines are always
// included.
func EnginesForLanguage(lang string) []string {
	norm := langcode.Normalize(lang)
	registryMu.RLock()
	defer registryMu.RUnlock()

	var ids []string
	for id, info := range registry {
		if len(info.SupportedLanguages) == 0 {
			ids = append(ids, id)
			continue
		}
		for _, l := range info.SupportedLanguages {
			if l == norm {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// CreateEngine builds an Engine for engineID per §4.F:
//  1. missing id -> UnknownEngineError
//  2. "auto" is explicitly rejected -> AutoDeprecatedError
//  3. final params = registry.DefaultParams ∪ overrides (overrides win)
//  4. construct, do not call LoadModel
func CreateEngine(engineID string, device Device, overrides map[string]string) (Engine, error) {
	if engineID == "auto" {
		return nil, AutoDeprecatedError()
	}

	info, ok := Lookup(engineID)
	if !ok {
		return nil, UnknownEngineError(engineID)
	}

	params := make(map[string]string, len(info.DefaultParams)+len(overrides))
	for k, v := range info.DefaultParams {
		params[k] = v
	}
	for k, v := range overrides {
		params[k] = v
	}

	return info.Construct(device, params)
}
