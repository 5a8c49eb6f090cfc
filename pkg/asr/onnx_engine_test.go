//go:build asr_onnx

package asr

import "testing"

func TestCTCGreedyDecodeCollapsesRepeatsAndDropsBlanks(t *testing.T) {
	vocab := []string{"<blank>", "a", "b"}
	// Frame logits favoring: a, a, blank, b -> collapse repeats, drop blank -> "ab"
	logits := []float32{
		0, 5, 0, // frame 0: a
		0, 5, 0, // frame 1: a (repeat, collapsed)
		5, 0, 0, // frame 2: blank
		0, 0, 5, // frame 3: b
	}
	text, conf := ctcGreedyDecode(logits, 4, vocab)
	if text != "ab" {
		t.Fatalf("expected %q, got %q", "ab", text)
	}
	if conf <= 0 {
		t.Fatalf("expected positive average confidence, got %f", conf)
	}
}

func TestCTCGreedyDecodeAllBlankYieldsEmpty(t *testing.T) {
	vocab := []string{"<blank>", "a"}
	logits := []float32{5, 0, 5, 0, 5, 0}
	text, _ := ctcGreedyDecode(logits, 3, vocab)
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}
