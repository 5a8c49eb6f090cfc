package orchestrator

import (
	"time"

	"github.com/livecap/livecap/pkg/result"
	"github.com/livecap/livecap/pkg/vad"
)

const callbackQueueCap = 64

// EnableCallbacks initializes the callback surface's queues and handler
// slots. Must be called once before FeedAudio; a second call is a no-op.
func (o *Orchestrator) EnableCallbacks(onFinal func(result.TranscriptionResult), onInterim func(result.InterimResult)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.callbacks.finalQueue != nil {
		return
	}
	o.callbacks.finalQueue = make(chan result.TranscriptionResult, callbackQueueCap)
	o.callbacks.interimQueue = make(chan result.InterimResult, callbackQueueCap)
	o.callbacks.onFinal = onFinal
	o.callbacks.onInterim = onInterim
}

// FeedAudio is the callback surface's entry point: non-blocking for chunks
// that don't finalize a segment. When a final segment is produced it is
// transcribed synchronously on the caller's goroutine, then pushed onto
// the result queue and delivered to on_final; interims go through
// on_interim and a separate queue.
func (o *Orchestrator) FeedAudio(chunk []float32, sr int) error {
	segments, err := o.processor.ProcessChunk(chunk, sr)
	if err != nil {
		return err
	}
	for _, seg := range segments {
		if err := o.deliverCallbackSegment(seg); err != nil {
			return err
		}
	}
	return nil
}

// deliverCallbackSegment handles one segment from FeedAudio: interims are
// queued/delivered directly; finals are transcribed synchronously on the
// caller's goroutine (per the callback surface's contract) before being
// queued/delivered. An engine failure bubbles out of FeedAudio as a
// TranscriptionError, per the failure model; the orchestrator stays
// usable after Reset().
func (o *Orchestrator) deliverCallbackSegment(seg vad.Segment) error {
	if !seg.IsFinal {
		o.pushInterim(o.transcribeInterim(seg))
		return nil
	}

	r, err := o.transcribeSegment(seg)
	if err != nil {
		return err
	}
	o.pushFinal(r)
	return nil
}

// FinalizeCallback flushes the VAD and, if a residual segment was open,
// transcribes and delivers it exactly like a normal final segment,
// returning it for convenience.
func (o *Orchestrator) FinalizeCallback() (*result.TranscriptionResult, error) {
	seg := o.processor.Finalize()
	if seg == nil {
		return nil, nil
	}
	r, err := o.transcribeSegment(*seg)
	if err != nil {
		return nil, err
	}
	o.pushFinal(r)
	return &r, nil
}

// GetResult blocks up to timeout for the next queued final result.
func (o *Orchestrator) GetResult(timeout time.Duration) (result.TranscriptionResult, bool) {
	select {
	case r := <-o.callbacks.finalQueue:
		return r, true
	case <-time.After(timeout):
		return result.TranscriptionResult{}, false
	}
}

// GetInterimResult blocks up to timeout for the next queued interim
// result.
func (o *Orchestrator) GetInterimResult(timeout time.Duration) (result.InterimResult, bool) {
	select {
	case r := <-o.callbacks.interimQueue:
		return r, true
	case <-time.After(timeout):
		return result.InterimResult{}, false
	}
}

func (o *Orchestrator) pushFinal(r result.TranscriptionResult) {
	if o.callbacks.finalQueue != nil {
		select {
		case o.callbacks.finalQueue <- r:
		default:
		}
	}
	if o.callbacks.onFinal != nil {
		o.callbacks.onFinal(r)
	}
}

func (o *Orchestrator) pushInterim(r result.InterimResult) {
	if o.callbacks.interimQueue != nil {
		select {
		case o.callbacks.interimQueue <- r:
		default:
		}
	}
	if o.callbacks.onInterim != nil {
		o.callbacks.onInterim(r)
	}
}
