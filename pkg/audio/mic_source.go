package audio

import (
	"fmt"
	"time"

	"github.com/gen2brain/malgo"
)

// micQueueSlots bounds the capture ring buffer to roughly 100 chunk_ms
// slots, matching the ~100-slot bounded queue with drop-oldest-on-overflow.
const micQueueSlots = 100

// MicrophoneSource captures from a device by index via malgo, buffering
// callback-delivered frames into a bounded ring buffer. Infinite: Read
// blocks up to timeout waiting for new samples and never reports
// exhaustion; the caller terminates it via Close. Mirrors
// local_connection.go's capture device setup (S16 format, 20ms period),
// generalized to an arbitrary device index and declared sample rate instead
// of a hardcoded 16kHz/48kHz pair, and the raw callback buffer replaced by
// the package's own RingBuffer for bounded drop-oldest overflow instead of
// an unbounded channel.
type MicrophoneSource struct {
	deviceIndex int
	sampleRate  int
	chunkMs     int

	ctx    *malgo.AllocatedContext
	device *malgo.Device
	buf    *RingBuffer

	started bool
	closed  bool
	newData chan struct{}
}

// NewMicrophoneSource creates a source bound to a capture device index.
// deviceIndex is resolved against the system's enumerated capture devices
// on Start; index -1 means "default device".
func NewMicrophoneSource(deviceIndex, sampleRate, chunkMs int) *MicrophoneSource {
	if chunkMs <= 0 {
		chunkMs = 100
	}
	return &MicrophoneSource{
		deviceIndex: deviceIndex,
		sampleRate:  sampleRate,
		chunkMs:     chunkMs,
		newData:     make(chan struct{}, 1),
	}
}

// Start implements Source. Idempotent.
func (m *MicrophoneSource) Start() error {
	if m.started {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return deviceUnavailableError("failed to initialize audio context", err)
	}

	deviceInfo, infoErr := m.resolveDevice(ctx)
	if infoErr != nil {
		ctx.Uninit()
		return infoErr
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.PeriodSizeInMilliseconds = uint32(m.chunkMs)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(m.sampleRate)
	if deviceInfo != nil {
		deviceConfig.Capture.DeviceID = deviceInfo.ID.Pointer()
	}

	m.buf = NewRingBuffer(m.sampleRate, m.chunkMs*micQueueSlots)

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(outputSamples, inputSamples []byte, frameCount uint32) {
			m.buf.Write(inputSamples)
			select {
			case m.newData <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		ctx.Uninit()
		return deviceUnavailableError("failed to initialize capture device", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		return deviceUnavailableError("failed to start capture device", err)
	}

	m.ctx = ctx
	m.device = device
	m.started = true
	return nil
}

func (m *MicrophoneSource) resolveDevice(ctx *malgo.AllocatedContext) (*malgo.DeviceInfo, error) {
	if m.deviceIndex < 0 {
		return nil, nil
	}
	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, deviceUnavailableError("failed to enumerate capture devices", err)
	}
	if m.deviceIndex >= len(infos) {
		return nil, deviceUnavailableError(fmt.Sprintf("no capture device at index %d", m.deviceIndex), nil)
	}
	return &infos[m.deviceIndex], nil
}

// Read implements Source.
func (m *MicrophoneSource) Read(timeout time.Duration) (Chunk, bool, error) {
	if m.closed {
		return Chunk{}, false, closedError("read after close")
	}
	if !m.started {
		if err := m.Start(); err != nil {
			return Chunk{}, false, err
		}
	}

	chunkBytes := m.sampleRate * m.chunkMs / 1000 * 2

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for m.buf.Size() < chunkBytes {
		select {
		case <-m.newData:
			continue
		case <-deadline.C:
			return Chunk{}, false, nil
		}
	}

	all := m.buf.ReadAll()
	m.buf.Clear()

	n := chunkBytes
	if n > len(all) {
		n = len(all) - (len(all) % 2)
	}
	samples := s16BytesToFloat32(all[:n])

	// Re-buffer any leftover beyond the one chunk we consumed.
	if len(all) > n {
		m.buf.Write(all[n:])
	}

	return Chunk{Samples: samples, SampleRate: m.sampleRate}, true, nil
}

func s16BytesToFloat32(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(uint16(data[i*2]) | uint16(data[i*2+1])<<8)
		out[i] = float32(v) / 32768.0
	}
	return out
}

// Close implements Source. Safe to call multiple times or before Start.
func (m *MicrophoneSource) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.device != nil {
		m.device.Stop()
		m.device.Uninit()
		m.device = nil
	}
	if m.ctx != nil {
		m.ctx.Uninit()
		m.ctx = nil
	}
	return nil
}

var _ Source = (*MicrophoneSource)(nil)
