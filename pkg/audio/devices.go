package audio

import "github.com/gen2brain/malgo"

// CaptureDeviceInfo is one entry in the enumeration returned by
// ListCaptureDevices, matching the CLI's `devices` subcommand contract:
// index, name, channel count, and whether it is the system default.
type CaptureDeviceInfo struct {
	Index     int
	Name      string
	Channels  int
	IsDefault bool
}

// ListCaptureDevices enumerates capture devices the same way
// MicrophoneSource.resolveDevice resolves a --device index against, so the
// CLI's `devices` listing and `--mic <id>` always agree on indices.
func ListCaptureDevices() ([]CaptureDeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, deviceUnavailableError("failed to initialize audio context", err)
	}
	defer ctx.Uninit()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, deviceUnavailableError("failed to enumerate capture devices", err)
	}

	out := make([]CaptureDeviceInfo, 0, len(infos))
	for i, info := range infos {
		out = append(out, CaptureDeviceInfo{
			Index:     i,
			Name:      info.Name(),
			Channels:  int(info.MaxChannels()),
			IsDefault: info.IsDefault != 0,
		})
	}
	return out, nil
}
