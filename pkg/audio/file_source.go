package audio

import (
	"fmt"
	"time"

	"github.com/asticode/go-astiav"
)

// FileSource decodes an audio file via FFmpeg's libraries (demux + decode +
// resample + downmix), yielding mono float32 chunks of approximately
// chunkMs at the declared sample rate. Finite: Read returns (Chunk{}, false,
// io-style nil error) once the file is exhausted — callers distinguish end
// of stream from timeout by checking ok alongside Exhausted().
type FileSource struct {
	path       string
	sampleRate int
	chunkMs    int
	realtime   bool

	formatCtx *astiav.FormatContext
	codecCtx  *astiav.CodecContext
	streamIdx int

	resampler   *FloatResampler
	pacer       *RealtimePacer
	pending     []float32 // decoded, resampled, not-yet-chunked samples
	started     bool
	closed      bool
	exhausted   bool
	chunkSamples int
}

// NewFileSource opens no resources eagerly; Start performs the demux/decode
// setup so construction can never partially fail.
func NewFileSource(path string, sampleRate, chunkMs int, realtime bool) *FileSource {
	if chunkMs <= 0 {
		chunkMs = 100
	}
	return &FileSource{
		path:       path,
		sampleRate: sampleRate,
		chunkMs:    chunkMs,
		realtime:   realtime,
	}
}

// Start implements Source. Idempotent: a second call is a no-op.
func (f *FileSource) Start() error {
	if f.started {
		return nil
	}

	formatCtx := astiav.AllocFormatContext()
	if formatCtx == nil {
		return deviceUnavailableError("failed to allocate format context", nil)
	}
	if err := formatCtx.OpenInput(f.path, nil, nil); err != nil {
		formatCtx.Free()
		return decodeFailedError("failed to open "+f.path, err)
	}
	if err := formatCtx.FindStreamInfo(nil); err != nil {
		formatCtx.CloseInput()
		return decodeFailedError("failed to read stream info", err)
	}

	stream, codec, err := formatCtx.FindBestStream(astiav.MediaTypeAudio)
	if err != nil || stream == nil {
		formatCtx.CloseInput()
		return decodeFailedError("no audio stream found in "+f.path, err)
	}

	codecCtx := astiav.AllocCodecContext(codec)
	if codecCtx == nil {
		formatCtx.CloseInput()
		return decodeFailedError("failed to allocate codec context", nil)
	}
	if err := stream.CodecParameters().ToCodecContext(codecCtx); err != nil {
		codecCtx.Free()
		formatCtx.CloseInput()
		return decodeFailedError("failed to copy codec parameters", err)
	}
	if err := codecCtx.Open(codec, nil); err != nil {
		codecCtx.Free()
		formatCtx.CloseInput()
		return decodeFailedError("failed to open decoder", err)
	}

	resampler, err := NewFloatResampler(codecCtx.SampleRate(), f.sampleRate)
	if err != nil {
		codecCtx.Free()
		formatCtx.CloseInput()
		return decodeFailedError("failed to create resampler", err)
	}

	f.formatCtx = formatCtx
	f.codecCtx = codecCtx
	f.streamIdx = stream.Index()
	f.resampler = resampler
	f.chunkSamples = f.sampleRate * f.chunkMs / 1000
	if f.realtime {
		f.pacer = NewRealtimePacer()
	}
	f.started = true
	return nil
}

// Read implements Source. timeout is ignored for a file source: decoding is
// CPU-bound and always completes without blocking on external input.
func (f *FileSource) Read(timeout time.Duration) (Chunk, bool, error) {
	if f.closed {
		return Chunk{}, false, closedError("read after close")
	}
	if !f.started {
		if err := f.Start(); err != nil {
			return Chunk{}, false, err
		}
	}

	for len(f.pending) < f.chunkSamples && !f.exhausted {
		if err := f.decodeOnePacket(); err != nil {
			return Chunk{}, false, err
		}
	}

	if len(f.pending) == 0 {
		return Chunk{}, false, nil
	}

	n := f.chunkSamples
	if n > len(f.pending) {
		n = len(f.pending)
	}
	out := make([]float32, n)
	copy(out, f.pending[:n])
	f.pending = f.pending[n:]

	if f.pacer != nil {
		f.pacer.WaitForChunk(time.Duration(n) * time.Second / time.Duration(f.sampleRate))
	}

	return Chunk{Samples: out, SampleRate: f.sampleRate}, true, nil
}

// decodeOnePacket reads and decodes a single packet, appending any decoded,
// resampled, downmixed samples to f.pending. Sets f.exhausted on EOF.
func (f *FileSource) decodeOnePacket() error {
	pkt := astiav.AllocPacket()
	defer pkt.Free()

	for {
		if err := f.formatCtx.ReadFrame(pkt); err != nil {
			f.exhausted = true
			return f.drainDecoder()
		}
		if pkt.StreamIndex() != f.streamIdx {
			pkt.Unref()
			continue
		}
		break
	}

	if err := f.codecCtx.SendPacket(pkt); err != nil {
		return decodeFailedError("decoder rejected packet", err)
	}
	return f.receiveFrames()
}

func (f *FileSource) drainDecoder() error {
	if err := f.codecCtx.SendPacket(nil); err != nil {
		return nil // already flushing/flushed
	}
	return f.receiveFrames()
}

func (f *FileSource) receiveFrames() error {
	frame := astiav.AllocFrame()
	defer frame.Free()

	for {
		err := f.codecCtx.ReceiveFrame(frame)
		if err != nil {
			return nil // EAGAIN/EOF both mean "no more frames right now"
		}
		samples, err := frameToMonoFloat32(frame)
		if err != nil {
			return decodeFailedError("failed to convert decoded frame", err)
		}
		resampled, err := f.resampler.Resample(samples)
		if err != nil {
			return decodeFailedError("failed to resample decoded frame", err)
		}
		f.pending = append(f.pending, resampled...)
		frame.Unref()
	}
}

// frameToMonoFloat32 downmixes an arbitrary-channel decoded frame to mono
// float32 by averaging channels. FFmpeg's planar/packed handling is left to
// astiav's Data accessor; this only handles the downmix arithmetic.
func frameToMonoFloat32(frame *astiav.Frame) ([]float32, error) {
	channels := frame.ChannelLayout().Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("decoded frame reports %d channels", channels)
	}

	raw, err := frame.Data().Bytes(0)
	if err != nil {
		return nil, err
	}
	all := bytesToFloat32Slice(raw)

	if channels == 1 {
		return all, nil
	}

	n := len(all) / channels
	mono := make([]float32, n)
	for i := 0; i < n; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += all[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono, nil
}

// Close implements Source. Safe to call multiple times or before Start.
func (f *FileSource) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.resampler != nil {
		f.resampler.Free()
		f.resampler = nil
	}
	if f.codecCtx != nil {
		f.codecCtx.Free()
		f.codecCtx = nil
	}
	if f.formatCtx != nil {
		f.formatCtx.CloseInput()
		f.formatCtx = nil
	}
	return nil
}

// Exhausted reports whether the file has been fully decoded and every
// pending sample drained — the permanent end-of-stream condition a caller
// can distinguish from an ordinary Read timeout (both return ok=false).
func (f *FileSource) Exhausted() bool {
	return f.exhausted && len(f.pending) == 0
}

var _ Source = (*FileSource)(nil)
