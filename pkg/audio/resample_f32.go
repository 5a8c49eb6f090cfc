package audio

import (
	"fmt"
	"math"

	"github.com/asticode/go-astiav"
)

// FloatResampler resamples mono float32 PCM between arbitrary sample rates
// using libswresample. Used by the VAD processor to bring 48000/44100/
// 32000 Hz sources down to the 16kHz the state machine requires, and by
// FileSource to convert decoded audio to the declared sample rate.
type FloatResampler struct {
	ctx      *astiav.SoftwareResampleContext
	inFrame  *astiav.Frame
	outFrame *astiav.Frame
	inRate   int
	outRate  int
}

// NewFloatResampler creates a mono float32 resampler from inRate to outRate.
func NewFloatResampler(inRate, outRate int) (*FloatResampler, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("invalid resample rates: in=%d out=%d", inRate, outRate)
	}

	r := &FloatResampler{inRate: inRate, outRate: outRate}

	r.ctx = astiav.AllocSoftwareResampleContext()
	if r.ctx == nil {
		return nil, fmt.Errorf("failed to allocate resample context")
	}
	r.inFrame = astiav.AllocFrame()
	if r.inFrame == nil {
		r.Free()
		return nil, fmt.Errorf("failed to allocate input frame")
	}
	r.outFrame = astiav.AllocFrame()
	if r.outFrame == nil {
		r.Free()
		return nil, fmt.Errorf("failed to allocate output frame")
	}

	return r, nil
}

// Free releases the underlying FFmpeg resources.
func (r *FloatResampler) Free() {
	if r.ctx != nil {
		r.ctx.Free()
		r.ctx = nil
	}
	if r.inFrame != nil {
		r.inFrame.Free()
		r.inFrame = nil
	}
	if r.outFrame != nil {
		r.outFrame.Free()
		r.outFrame = nil
	}
}

// Resample converts mono float32 samples at inRate to mono float32 samples
// at outRate.
func (r *FloatResampler) Resample(samples []float32) ([]float32, error) {
	const align = 0

	if len(samples) == 0 {
		return nil, nil
	}

	r.inFrame.Unref()
	r.outFrame.Unref()

	r.inFrame.SetChannelLayout(astiav.ChannelLayoutMono)
	r.inFrame.SetSampleFormat(astiav.SampleFormatFlt)
	r.inFrame.SetSampleRate(r.inRate)
	r.inFrame.SetNbSamples(len(samples))

	r.outFrame.SetChannelLayout(astiav.ChannelLayoutMono)
	r.outFrame.SetSampleFormat(astiav.SampleFormatFlt)
	r.outFrame.SetSampleRate(r.outRate)

	outNumSamples := (len(samples)*r.outRate)/r.inRate + 16
	r.outFrame.SetNbSamples(outNumSamples)

	if err := r.inFrame.AllocBuffer(align); err != nil {
		return nil, fmt.Errorf("failed to allocate input buffer: %w", err)
	}
	if err := r.outFrame.AllocBuffer(align); err != nil {
		return nil, fmt.Errorf("failed to allocate output buffer: %w", err)
	}
	if err := r.inFrame.MakeWritable(); err != nil {
		return nil, fmt.Errorf("making frame writable failed: %w", err)
	}

	inBytes := float32SliceToBytes(samples)
	if err := r.inFrame.Data().SetBytes(inBytes, align); err != nil {
		return nil, fmt.Errorf("setting frame's data failed: %w", err)
	}

	if err := r.ctx.ConvertFrame(r.inFrame, r.outFrame); err != nil {
		return nil, fmt.Errorf("failed to resample: %w", err)
	}

	outBytes, err := r.outFrame.Data().Bytes(align)
	if err != nil {
		return nil, fmt.Errorf("getting output data failed: %w", err)
	}

	return bytesToFloat32Slice(outBytes), nil
}

func float32SliceToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

func bytesToFloat32Slice(data []byte) []float32 {
	n := len(data) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := uint32(data[i*4+0]) | uint32(data[i*4+1])<<8 | uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
