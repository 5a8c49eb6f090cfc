package vad

// State is the VAD state machine's current phase.
type State int

const (
	Silence State = iota
	PotentialSpeech
	Speech
	Ending
)

func (s State) String() string {
	switch s {
	case Silence:
		return "silence"
	case PotentialSpeech:
		return "potential_speech"
	case Speech:
		return "speech"
	case Ending:
		return "ending"
	default:
		return "unknown"
	}
}

// Segment is a contiguous span of audio the state machine has identified as
// a single speech event, with optional pre/post padding folded in.
type Segment struct {
	Audio      []float32
	StartTimeS float64
	EndTimeS   float64
	IsFinal    bool
}

// StateMachine converts a stream of (frame, probability, timestamp) triples
// into speech segments per the four-state transition table: Silence,
// PotentialSpeech, Speech, Ending. It is backend-agnostic — the caller
// (normally a Processor) supplies the per-frame probability, however it was
// computed.
type StateMachine struct {
	cfg   Config
	state State

	// preBuffer is a ring of the last paddingFrames frames seen while in
	// Silence, prepended to a newly detected segment for pre-padding.
	preBuffer   [][]float32
	preBufCap   int

	speechBuffer [][]float32

	speechFrames  int
	silenceFrames int

	segmentStartS float64

	// interim bookkeeping: frame count and wall-clock time as of the last
	// emitted interim, so both thresholds are measured since-last-interim.
	lastInterimFrameCount int
	lastInterimWallClockS float64
	haveInterim           bool
}

// New creates a state machine with the derived frame-counted constants
// computed from cfg. cfg must have already passed Normalize.
func New(cfg Config) *StateMachine {
	sm := &StateMachine{cfg: cfg}
	sm.preBufCap = cfg.paddingFrames()
	sm.reset()
	return sm
}

func (sm *StateMachine) reset() {
	sm.state = Silence
	sm.preBuffer = sm.preBuffer[:0]
	sm.speechBuffer = nil
	sm.speechFrames = 0
	sm.silenceFrames = 0
	sm.segmentStartS = 0
	sm.lastInterimFrameCount = 0
	sm.lastInterimWallClockS = 0
	sm.haveInterim = false
}

// Reset rebuilds the state machine to its initial Silence state, discarding
// all buffered audio.
func (sm *StateMachine) Reset() {
	sm.reset()
}

// State returns the current phase, mainly for tests and diagnostics.
func (sm *StateMachine) State() State { return sm.state }

func (sm *StateMachine) pushPreBuffer(frame []float32) {
	if sm.preBufCap <= 0 {
		return
	}
	sm.preBuffer = append(sm.preBuffer, frame)
	if len(sm.preBuffer) > sm.preBufCap {
		sm.preBuffer = sm.preBuffer[len(sm.preBuffer)-sm.preBufCap:]
	}
}

func concatFrames(frames [][]float32) []float32 {
	n := 0
	for _, f := range frames {
		n += len(f)
	}
	out := make([]float32, 0, n)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

// ProcessFrame feeds one 512-sample frame with its precomputed speech
// probability and timestamp (seconds, start of frame) through the state
// machine. Returns at most one segment: an interim (IsFinal=false) or a
// final segment produced by this frame.
func (sm *StateMachine) ProcessFrame(frame []float32, p float64, tS float64) *Segment {
	isSpeech := p >= sm.cfg.Threshold

	switch sm.state {
	case Silence:
		if isSpeech {
			sm.speechBuffer = append(append([][]float32{}, sm.preBuffer...), frame)
			sm.speechFrames = 1
			sm.segmentStartS = tS - float64(len(sm.preBuffer))*frameMs/1000.0
			sm.state = PotentialSpeech
		} else {
			sm.pushPreBuffer(frame)
		}
		return nil

	case PotentialSpeech:
		sm.speechBuffer = append(sm.speechBuffer, frame)
		if isSpeech {
			sm.speechFrames++
			if sm.speechFrames >= sm.cfg.minSpeechFrames() {
				sm.state = Speech
			}
			return nil
		}
		sm.silenceFrames++
		if sm.silenceFrames >= sm.cfg.minSilenceFrames() {
			sm.speechBuffer = nil
			sm.preBuffer = sm.preBuffer[:0]
			sm.speechFrames = 0
			sm.silenceFrames = 0
			sm.state = Silence
		}
		return nil

	case Speech:
		sm.speechBuffer = append(sm.speechBuffer, frame)
		if isSpeech {
			sm.speechFrames++
			sm.silenceFrames = 0

			if sm.cfg.MaxSpeechMs > 0 {
				bufferedMs := float64(len(sm.speechBuffer)) * frameMs
				if bufferedMs >= sm.cfg.MaxSpeechMs {
					seg := sm.finalizeSegment(tS)
					// This frame is speech: immediately begin a new
					// segment with it rather than dropping to Silence.
					sm.speechBuffer = [][]float32{frame}
					sm.speechFrames = 1
					sm.silenceFrames = 0
					sm.segmentStartS = tS
					sm.state = Speech
					return seg
				}
			}
			return sm.maybeInterim(tS)
		}

		sm.silenceFrames++
		if sm.silenceFrames >= sm.cfg.minSilenceFrames() {
			sm.state = Ending
			return nil
		}
		return sm.maybeInterim(tS)

	case Ending:
		sm.speechBuffer = append(sm.speechBuffer, frame)
		if isSpeech {
			sm.silenceFrames = 0
			sm.speechFrames++
			sm.state = Speech
			return nil
		}
		sm.silenceFrames++
		if sm.silenceFrames >= sm.cfg.paddingFrames() {
			seg := sm.finalizeSegment(tS)
			sm.state = Silence
			sm.speechFrames = 0
			sm.silenceFrames = 0
			sm.preBuffer = sm.preBuffer[:0]
			return seg
		}
		return nil

	default:
		return nil
	}
}

// maybeInterim checks the dual since-last-interim thresholds and, if both
// are exceeded, yields a non-final segment over the current speech buffer
// without draining it.
func (sm *StateMachine) maybeInterim(tS float64) *Segment {
	framesSinceInterim := len(sm.speechBuffer) - sm.lastInterimFrameCount
	bufferedMsSinceInterim := float64(framesSinceInterim) * frameMs
	if bufferedMsSinceInterim <= sm.cfg.InterimMinDurationMs {
		return nil
	}

	var wallClockSinceInterim float64
	if sm.haveInterim {
		wallClockSinceInterim = (tS - sm.lastInterimWallClockS) * 1000.0
	} else {
		wallClockSinceInterim = (tS - sm.segmentStartS) * 1000.0
	}
	if wallClockSinceInterim <= sm.cfg.InterimIntervalMs {
		return nil
	}

	sm.lastInterimFrameCount = len(sm.speechBuffer)
	sm.lastInterimWallClockS = tS
	sm.haveInterim = true

	return &Segment{
		Audio:      concatFrames(sm.speechBuffer),
		StartTimeS: sm.segmentStartS,
		EndTimeS:   tS + frameMs/1000.0,
		IsFinal:    false,
	}
}

func (sm *StateMachine) finalizeSegment(tS float64) *Segment {
	audio := concatFrames(sm.speechBuffer)
	endS := sm.segmentStartS + float64(len(sm.speechBuffer))*frameMs/1000.0
	seg := &Segment{
		Audio:      audio,
		StartTimeS: sm.segmentStartS,
		EndTimeS:   endS,
		IsFinal:    true,
	}
	sm.speechBuffer = nil
	sm.lastInterimFrameCount = 0
	sm.lastInterimWallClockS = 0
	sm.haveInterim = false
	return seg
}

// Finalize flushes any in-progress segment. If the state machine is in
// PotentialSpeech, Speech or Ending with a non-empty speech buffer, it
// yields one final segment and transitions to Silence; otherwise it yields
// nothing.
func (sm *StateMachine) Finalize(tS float64) *Segment {
	if sm.state == Silence || len(sm.speechBuffer) == 0 {
		return nil
	}
	seg := sm.finalizeSegment(tS)
	sm.state = Silence
	sm.speechFrames = 0
	sm.silenceFrames = 0
	sm.preBuffer = sm.preBuffer[:0]
	return seg
}
