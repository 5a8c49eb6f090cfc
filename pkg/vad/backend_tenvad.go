package vad

import (
	"fmt"
	"math"
)

// TenVADBackend is the lightweight probabilistic VAD backend, registry id
// "tenvad". No onnxruntime dependency: it scores a frame from short-term
// energy and zero-crossing rate, smoothed across frames with a fixed decay,
// and squashes the result into [0,1] with a logistic curve. It exists to
// give the registry a cheap, dependency-free probabilistic alternative to
// the neural backend; no pack library implements this, see DESIGN.md.
type TenVADBackend struct {
	smoothedEnergy float64
	smoothedZCR    float64
	primed         bool
}

// NewTenVADBackend creates a lightweight probabilistic VAD backend.
func NewTenVADBackend() *TenVADBackend {
	return &TenVADBackend{}
}

// Infer implements Backend.
func (b *TenVADBackend) Infer(frame []float32) (float32, error) {
	if len(frame) != 512 {
		return 0, fmt.Errorf("tenvad: frame must be 512 samples, got %d", len(frame))
	}

	var energy float64
	var crossings int
	for i, s := range frame {
		energy += float64(s) * float64(s)
		if i > 0 {
			prev := frame[i-1]
			if (prev >= 0) != (s >= 0) {
				crossings++
			}
		}
	}
	energy /= float64(len(frame))
	zcr := float64(crossings) / float64(len(frame))

	const decay = 0.6
	if !b.primed {
		b.smoothedEnergy = energy
		b.smoothedZCR = zcr
		b.primed = true
	} else {
		b.smoothedEnergy = decay*b.smoothedEnergy + (1-decay)*energy
		b.smoothedZCR = decay*b.smoothedZCR + (1-decay)*zcr
	}

	// Voiced speech tends to combine moderate-to-high energy with a
	// moderate zero-crossing rate; pure noise or silence sits at either
	// extreme. Score is a logistic function of log-energy penalized by
	// distance from a typical speech ZCR band.
	logEnergy := logOrFloor(b.smoothedEnergy)
	zcrPenalty := 0.0
	if b.smoothedZCR > 0.35 {
		zcrPenalty = (b.smoothedZCR - 0.35) * 4
	}
	score := logEnergy*1.8 + 6.0 - zcrPenalty
	prob := 1.0 / (1.0 + math.Exp(-score))

	return float32(prob), nil
}

// Reset implements Backend.
func (b *TenVADBackend) Reset() error {
	b.smoothedEnergy = 0
	b.smoothedZCR = 0
	b.primed = false
	return nil
}

// Destroy implements Backend. Nothing to release.
func (b *TenVADBackend) Destroy() error {
	return nil
}

func logOrFloor(v float64) float64 {
	if v <= 1e-12 {
		return -12
	}
	return math.Log(v)
}

var _ Backend = (*TenVADBackend)(nil)
