package windowing

import (
	"math"
	"testing"
)

func TestHannPeriodicMeanSquare(t *testing.T) {
	h := NewHann(1000, false)
	if math.Abs(h.MeanSquare()-3.0/8.0) > 1e-12 {
		t.Fatalf("periodic Hann mean square: got %v want 0.375", h.MeanSquare())
	}
}

func TestHannApply(t *testing.T) {
	h := NewHann(4, false)
	out, err := h.Apply([]float64{2, 2, 2, 2})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	want := []float64{0, 1, 2, 1}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("coefficient %d: got %v want %v", i, out[i], want[i])
		}
	}

	if _, err := h.Apply([]float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestHannSymmetricEndpoints(t *testing.T) {
	h := NewHann(5, true)
	out, _ := h.Apply([]float64{1, 1, 1, 1, 1})
	if out[0] != 0 || math.Abs(out[4]) > 1e-12 || math.Abs(out[2]-1) > 1e-12 {
		t.Fatalf("unexpected symmetric window: %v", out)
	}
}
