package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/livecap/livecap/pkg/audio"
	"github.com/livecap/livecap/pkg/result"
	"github.com/livecap/livecap/pkg/vad"
)

// readTimeout bounds each Source.Read call in the async surface so the
// driver can still observe ctx cancellation promptly between chunks.
const readTimeout = time.Second

// AsyncResult is the union delivered over TranscribeAsync's channel:
// exactly one of Final or Interim is set.
type AsyncResult struct {
	Final   *result.TranscriptionResult
	Interim *result.InterimResult
}

// asyncJob is one final segment queued for a worker: its sequence number
// fixes the order its result must be delivered in, regardless of which
// worker finishes first.
type asyncJob struct {
	seq int
	seg vad.Segment
}

type asyncOutcome struct {
	seq int
	r   result.TranscriptionResult
	err error
}

// TranscribeAsync is the cooperative-asynchronous iterator surface: the
// VAD runs on the calling goroutine (cheap), final-segment engine calls
// are offloaded to a pool of MaxWorkers goroutines, and results are
// delivered back over the returned channel in the same order their
// segments ended. Interim results are transcribed and delivered inline on
// the driver goroutine as soon as produced, since §4.G only requires
// worker offload for finals and an interim's value decays quickly.
//
// Cancelling ctx lets any in-flight engine calls finish but discards their
// results and drops pending segments; the channel is closed once the
// source is exhausted (or ctx is cancelled) and every accepted job has
// drained.
func (o *Orchestrator) TranscribeAsync(ctx context.Context, source audio.Source) <-chan AsyncResult {
	out := make(chan AsyncResult)

	go func() {
		defer close(out)

		jobs := make(chan asyncJob)
		outcomes := make(chan asyncOutcome)
		var wg sync.WaitGroup

		for i := 0; i < o.maxWorkers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for job := range jobs {
					r, err := o.transcribeSegment(job.seg)
					select {
					case outcomes <- asyncOutcome{seq: job.seq, r: r, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}()
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		exhaustible, _ := source.(audio.Exhaustible)
		pending := map[int]asyncOutcome{}
		nextDeliver := 0
		seq := 0

		deliverReady := func() bool {
			for {
				oc, ok := pending[nextDeliver]
				if !ok {
					return true
				}
				delete(pending, nextDeliver)
				nextDeliver++
				if oc.err != nil {
					continue
				}
				r := oc.r
				select {
				case out <- AsyncResult{Final: &r}:
				case <-ctx.Done():
					return false
				}
			}
		}

		drainOutcome := func() {
			select {
			case oc := <-outcomes:
				pending[oc.seq] = oc
				deliverReady()
			default:
			}
		}

	readLoop:
		for {
			select {
			case <-ctx.Done():
				break readLoop
			default:
			}

			chunk, ok, err := source.Read(readTimeout)
			if err != nil {
				break readLoop
			}
			if !ok {
				if exhaustible != nil && exhaustible.Exhausted() {
					break readLoop
				}
				continue
			}

			segments, err := o.processor.ProcessChunk(chunk.Samples, chunk.SampleRate)
			if err != nil {
				break readLoop
			}
			for _, s := range segments {
				if !s.IsFinal {
					interim := o.transcribeInterim(s)
					select {
					case out <- AsyncResult{Interim: &interim}:
					case <-ctx.Done():
						break readLoop
					}
					continue
				}

				job := asyncJob{seq: seq, seg: s}
				seq++
				select {
				case jobs <- job:
				case <-ctx.Done():
					break readLoop
				}

				drainOutcome()
			}
		}

		if exhaustible != nil && exhaustible.Exhausted() {
			if s := o.processor.Finalize(); s != nil {
				job := asyncJob{seq: seq, seg: *s}
				seq++
				select {
				case jobs <- job:
				case <-ctx.Done():
				}
			}
		}

		close(jobs)

		for nextDeliver < seq {
			select {
			case oc := <-outcomes:
				pending[oc.seq] = oc
				if !deliverReady() {
					return
				}
			case <-done:
				deliverReady()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
