package waves

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// sine samples offset + A·sin(2πft − 0.3) so the record starts below the mean
func sine(amplitude, frequency, duration, dt, offset float64) []float64 {
	n := int(math.Round(duration / dt))
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = offset + amplitude*math.Sin(2*math.Pi*frequency*float64(i)*dt-0.3)
	}
	return levels
}

func TestCalculateWaveHeightsSinusoid(t *testing.T) {
	const (
		amplitude = 0.5
		frequency = 0.5
		duration  = 20.0
		dt        = 0.02
	)
	levels := sine(amplitude, frequency, duration, dt, 0)

	stats, err := CalculateWaveHeights(levels, dt, MethodZeroCrossing)
	if err != nil {
		t.Fatalf("CalculateWaveHeights error: %v", err)
	}

	expectedWaves := duration * frequency
	if math.Abs(float64(stats.NWaves)-expectedWaves) > 1 {
		t.Fatalf("expected about %.0f waves, got %d", expectedWaves, stats.NWaves)
	}
	if math.Abs(stats.MeanWaveHeight-2*amplitude) > 0.1*2*amplitude {
		t.Errorf("mean wave height: got %.4f want ≈ %.4f", stats.MeanWaveHeight, 2*amplitude)
	}
	if math.Abs(stats.MeanPeriod-1/frequency) > 0.1/frequency {
		t.Errorf("mean period: got %.4f want ≈ %.4f", stats.MeanPeriod, 1/frequency)
	}
	if math.Abs(stats.RMSWaveHeight-2*amplitude) > 0.1 {
		t.Errorf("rms wave height: got %.4f", stats.RMSWaveHeight)
	}
}

func TestCalculateWaveHeightsUsesRawLevels(t *testing.T) {
	const dt = 0.05
	levels := sine(0.4, 0.5, 20, dt, 2.0)

	stats, err := CalculateWaveHeights(levels, dt, MethodZeroCrossing)
	if err != nil {
		t.Fatalf("CalculateWaveHeights error: %v", err)
	}
	if stats.NWaves == 0 {
		t.Fatalf("expected waves on an offset sinusoid")
	}
	if math.Abs(stats.MeanWaveHeight-0.8) > 0.08 {
		t.Errorf("offset should not change heights: got %.4f", stats.MeanWaveHeight)
	}
}

func TestCalculateWaveHeightsZeroCases(t *testing.T) {
	cases := map[string][]float64{
		"empty":    {},
		"single":   {1.0},
		"two":      {1.0, 2.0},
		"constant": {1.5, 1.5, 1.5, 1.5, 1.5, 1.5, 1.5, 1.5},
		"ramp":     {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		"one_up":   {-1, 1, 1, -1, -1},
	}

	for name, levels := range cases {
		t.Run(name, func(t *testing.T) {
			stats, err := CalculateWaveHeights(levels, 0.1, MethodZeroCrossing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stats != (WaveStatistics{}) {
				t.Fatalf("expected zero statistics, got %+v", stats)
			}
		})
	}
}

func TestCalculateWaveHeightsUnknownMethod(t *testing.T) {
	_, err := CalculateWaveHeights([]float64{0, 1, 0, -1, 0}, 0.1, Method("bogus"))
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the method, got %q", err.Error())
	}
}

func TestCalculateWaveHeightsHandBuiltWaves(t *testing.T) {
	// Mean is zero; up-crossings at 0, 4, 8; waves of height 2 and 4
	levels := []float64{-1, 1, 1, -1, -2, 2, 2, -2, -1, 1}

	stats, err := CalculateWaveHeights(levels, 0.5, MethodZeroCrossing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.NWaves != 2 {
		t.Fatalf("expected 2 waves, got %d", stats.NWaves)
	}
	if stats.MaxWaveHeight != 4 {
		t.Errorf("max height: got %v want 4", stats.MaxWaveHeight)
	}
	if stats.SignificantWaveHeight != 4 {
		t.Errorf("H1/3 with 2 waves should be the largest: got %v", stats.SignificantWaveHeight)
	}
	if stats.MeanWaveHeight != 3 {
		t.Errorf("mean height: got %v want 3", stats.MeanWaveHeight)
	}
	if math.Abs(stats.RMSWaveHeight-math.Sqrt(10)) > 1e-12 {
		t.Errorf("rms height: got %v want %v", stats.RMSWaveHeight, math.Sqrt(10))
	}
	if stats.MeanPeriod != 2 {
		t.Errorf("mean period: got %v want 2", stats.MeanPeriod)
	}
}

func TestCalculateWaveHeightsSkipsPairWithoutDownCrossing(t *testing.T) {
	// Between the up-crossings at 0 and 3 the record passes through an exact
	// zero instead of crossing it, so that candidate wave is skipped
	levels := []float64{-2, 2, 0, -2, 2, -2, 2, 0}

	heights, periods := zeroCrossingAnalysis(levels, 1.0)
	if len(heights) != 1 {
		t.Fatalf("expected 1 wave, got %d (%v)", len(heights), heights)
	}
	if heights[0] != 4 || periods[0] != 2 {
		t.Fatalf("unexpected wave: height %v period %v", heights[0], periods[0])
	}
}

func TestCalculateWaveHeightsOrderingInvariant(t *testing.T) {
	const dt = 0.02
	n := 1500
	levels := make([]float64, n)
	for i := range levels {
		ti := float64(i) * dt
		levels[i] = 0.3*math.Sin(2*math.Pi*0.4*ti) + 0.2*math.Sin(2*math.Pi*0.8*ti) + 0.05*math.Sin(2*math.Pi*1.7*ti+0.3)
	}

	stats, err := CalculateWaveHeights(levels, dt, MethodZeroCrossing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.NWaves < 3 {
		t.Fatalf("expected at least 3 waves, got %d", stats.NWaves)
	}
	if !(stats.MaxWaveHeight >= stats.SignificantWaveHeight && stats.SignificantWaveHeight >= stats.MeanWaveHeight) {
		t.Fatalf("ordering violated: max %.4f sig %.4f mean %.4f",
			stats.MaxWaveHeight, stats.SignificantWaveHeight, stats.MeanWaveHeight)
	}
	if stats.MeanPeriod <= 0 {
		t.Errorf("expected positive mean period, got %v", stats.MeanPeriod)
	}
}

func TestCalculateWaveHeightsNonPositiveTimestep(t *testing.T) {
	levels := sine(0.5, 0.5, 20, 0.02, 0)

	stats, err := CalculateWaveHeights(levels, 0, MethodZeroCrossing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.NWaves == 0 || stats.MeanPeriod != 0 {
		t.Errorf("zero timestep: expected waves with zero period, got %+v", stats)
	}

	stats, err = CalculateWaveHeights(levels, -0.02, MethodZeroCrossing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.MeanPeriod >= 0 {
		t.Errorf("negative timestep: expected negative period, got %v", stats.MeanPeriod)
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("zero_crossing")
	if err != nil || m != MethodZeroCrossing {
		t.Fatalf("ParseMethod(zero_crossing) = %q, %v", m, err)
	}
	if _, err := ParseMethod("peak"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod for peak, got %v", err)
	}
}
