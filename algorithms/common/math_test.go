package common

import (
	"math"
	"testing"
)

func TestEmptyInputs(t *testing.T) {
	if Mean(nil) != 0 || RMS(nil) != 0 || Max(nil) != 0 || Min(nil) != 0 || MaxAbs(nil) != 0 {
		t.Fatal("expected zeros for empty input")
	}
	if got := RemoveMean(nil); len(got) != 0 {
		t.Fatalf("RemoveMean(nil): got %v", got)
	}
}

func TestBasicStatistics(t *testing.T) {
	data := []float64{1, -3, 2, 4}

	if got := Mean(data); got != 1 {
		t.Errorf("Mean: got %v want 1", got)
	}
	if got := RMS(data); math.Abs(got-math.Sqrt(7.5)) > 1e-12 {
		t.Errorf("RMS: got %v want %v", got, math.Sqrt(7.5))
	}
	if Max(data) != 4 || Min(data) != -3 || MaxAbs(data) != 4 {
		t.Errorf("extremes: max %v min %v maxabs %v", Max(data), Min(data), MaxAbs(data))
	}
}

func TestRemoveMeanCopies(t *testing.T) {
	data := []float64{2, 4, 6}
	centered := RemoveMean(data)

	want := []float64{-2, 0, 2}
	for i := range want {
		if centered[i] != want[i] {
			t.Fatalf("RemoveMean: got %v want %v", centered, want)
		}
	}
	if data[0] != 2 {
		t.Error("RemoveMean modified its input")
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite([]float64{0, 1.5, -2}) {
		t.Error("finite data reported as non-finite")
	}
	if AllFinite([]float64{0, math.NaN()}) || AllFinite([]float64{math.Inf(-1)}) {
		t.Error("non-finite data reported as finite")
	}
}
