// Stand-in for the neural backend when built without the "vad" tag (no
// onnxruntime_go linkage available). Keeps the registry usable for the
// pure-Go backends without requiring every build to link ONNX Runtime.
//
//go:build !vad

package vad

import "fmt"

func newSileroFromParams(params BackendParams) (Backend, error) {
	return nil, fmt.Errorf("vad: silero backend unavailable: built without the \"vad\" tag")
}
