package filepipeline

import (
	"time"

	"github.com/livecap/livecap/pkg/audio"
)

// fakeSource is an in-memory, Exhaustible audio.Source test double that
// replays a fixed list of chunks, mirroring FileSource's finite contract
// without any real demux/decode work.
type fakeSource struct {
	chunks    []audio.Chunk
	exhausted bool
	closed    bool
}

func newFakeSource(chunks ...audio.Chunk) *fakeSource {
	return &fakeSource{chunks: chunks}
}

func (f *fakeSource) Start() error { return nil }

func (f *fakeSource) Read(timeout time.Duration) (audio.Chunk, bool, error) {
	if len(f.chunks) == 0 {
		f.exhausted = true
		return audio.Chunk{}, false, nil
	}
	c := f.chunks[0]
	f.chunks = f.chunks[1:]
	return c, true, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSource) Exhausted() bool { return f.exhausted }

var (
	_ audio.Source      = (*fakeSource)(nil)
	_ audio.Exhaustible = (*fakeSource)(nil)
)

// speechThenSilenceChunk mirrors the orchestrator package's fixture: 6
// frames of 512 samples driving vad.NewMockBackendWithSequence([1,1,1,0,0,0])
// through exactly one final segment with smallConfig.
func speechThenSilenceChunk() audio.Chunk {
	return audio.Chunk{Samples: make([]float32, 6*512), SampleRate: 16000}
}
