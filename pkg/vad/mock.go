package vad

import "sync"

// MockBackend is a mock implementation of Backend for testing the state
// machine and processor without a real model or native dependency.
type MockBackend struct {
	// InferFunc is called when Infer is invoked. If nil, returns 0.0.
	InferFunc func(frame []float32) (float32, error)

	// InferCalls records all calls to Infer for verification.
	InferCalls [][]float32

	// ResetCalled tracks if Reset was called.
	ResetCalled bool

	// DestroyCalled tracks if Destroy was called.
	DestroyCalled bool

	mu sync.Mutex
}

// NewMockBackend creates a new MockBackend with default behavior.
func NewMockBackend() *MockBackend {
	return &MockBackend{InferCalls: make([][]float32, 0)}
}

// NewMockBackendWithProb creates a MockBackend that returns a fixed probability.
func NewMockBackendWithProb(prob float32) *MockBackend {
	return &MockBackend{
		InferFunc: func(frame []float32) (float32, error) {
			return prob, nil
		},
		InferCalls: make([][]float32, 0),
	}
}

// NewMockBackendWithSequence creates a MockBackend that returns probabilities
// in sequence, cycling back to the start once exhausted.
func NewMockBackendWithSequence(probs []float32) *MockBackend {
	idx := 0
	return &MockBackend{
		InferFunc: func(frame []float32) (float32, error) {
			if len(probs) == 0 {
				return 0, nil
			}
			prob := probs[idx]
			idx = (idx + 1) % len(probs)
			return prob, nil
		},
		InferCalls: make([][]float32, 0),
	}
}

// Infer implements Backend.
func (m *MockBackend) Infer(frame []float32) (float32, error) {
	m.mu.Lock()
	frameCopy := make([]float32, len(frame))
	copy(frameCopy, frame)
	m.InferCalls = append(m.InferCalls, frameCopy)
	m.mu.Unlock()

	if m.InferFunc != nil {
		return m.InferFunc(frame)
	}
	return 0.0, nil
}

// Reset implements Backend.
func (m *MockBackend) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalled = true
	return nil
}

// Destroy implements Backend.
func (m *MockBackend) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DestroyCalled = true
	return nil
}

// GetInferCallCount returns the number of times Infer was called.
func (m *MockBackend) GetInferCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.InferCalls)
}

var _ Backend = (*MockBackend)(nil)
