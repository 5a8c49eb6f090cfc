package vad

import "fmt"

// BackendParams carries construction-time overrides for a registered
// backend id. Only "silero" consumes it today (model_path); other
// backends ignore unrecognized keys.
type BackendParams map[string]string

// NewBackend constructs a registered backend by id. "silero" requires
// params["model_path"] and is only available in builds compiled with the
// "vad" build tag (onnxruntime_go linkage); "tenvad" and "webrtc" are pure
// Go and always available.
func NewBackend(id string, params BackendParams) (Backend, error) {
	switch id {
	case "tenvad":
		return NewTenVADBackend(), nil
	case "webrtc":
		return NewWebRTCBackend(), nil
	case "silero":
		return newSileroFromParams(params)
	default:
		return nil, fmt.Errorf("vad: unknown backend id %q", id)
	}
}

// BackendIDs lists the registered backend ids, in the order the CLI's
// `--vad` flag advertises them.
func BackendIDs() []string {
	return []string{"silero", "tenvad", "webrtc"}
}
