package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/breakwave/algorithms/common"
	"github.com/RyanBlaney/breakwave/algorithms/windowing"
)

// WaveSpectrumResult holds a one-sided variance density spectrum and the
// spectral wave parameters derived from its moments
type WaveSpectrumResult struct {
	Frequencies []float64 `json:"frequencies"` // Hz
	Density     []float64 `json:"density"`     // m²/Hz

	M0            float64 `json:"m0"`             // m²
	M1            float64 `json:"m1"`             // m²/s
	Hm0           float64 `json:"hm0"`            // 4√m0 (m)
	PeakFrequency float64 `json:"peak_frequency"` // Hz
	PeakPeriod    float64 `json:"peak_period"`    // s
	MeanPeriod    float64 `json:"mean_period"`    // Tm01 = m0/m1 (s)
}

// WaveSpectrum estimates spectral wave parameters from a water level record
type WaveSpectrum struct {
	fft *FFT
}

// NewWaveSpectrum creates a new spectral estimator
func NewWaveSpectrum() *WaveSpectrum {
	return &WaveSpectrum{fft: NewFFT()}
}

// ComputeWaveSpectrum is Compute on a new estimator
func ComputeWaveSpectrum(waterLevels []float64, timestep float64) (*WaveSpectrumResult, error) {
	return NewWaveSpectrum().Compute(waterLevels, timestep)
}

// Compute removes the mean, applies a periodic Hann taper and returns the
// density S_k = 2|X_k|²/(fs·N·U) for 0 < f_k < fs/2, with U = mean(w²).
// A flat record gives all-zero parameters.
func (ws *WaveSpectrum) Compute(waterLevels []float64, timestep float64) (*WaveSpectrumResult, error) {
	n := len(waterLevels)
	if n < 4 {
		return nil, fmt.Errorf("need at least 4 samples, got %d", n)
	}
	if timestep <= 0 || math.IsNaN(timestep) || math.IsInf(timestep, 0) {
		return nil, fmt.Errorf("invalid timestep %v", timestep)
	}

	window := windowing.NewHann(n, false)
	tapered, err := window.Apply(common.RemoveMean(waterLevels))
	if err != nil {
		return nil, err
	}

	fs := 1.0 / timestep
	df := fs / float64(n)
	scale := 2.0 / (fs * float64(n) * window.MeanSquare())

	spectrum := ws.fft.Compute(tapered)

	// Bins 1 .. ceil(n/2)-1 lie strictly between 0 and Nyquist
	nBins := (n+1)/2 - 1
	result := &WaveSpectrumResult{
		Frequencies: make([]float64, nBins),
		Density:     make([]float64, nBins),
	}

	peak := -1
	for k := 1; k <= nBins; k++ {
		mag := cmplx.Abs(spectrum[k])
		f := float64(k) * df
		s := scale * mag * mag

		result.Frequencies[k-1] = f
		result.Density[k-1] = s
		result.M0 += s * df
		result.M1 += f * s * df

		if s > 0 && (peak < 0 || s > result.Density[peak]) {
			peak = k - 1
		}
	}

	if result.M0 <= 0 || peak < 0 {
		return &WaveSpectrumResult{Frequencies: result.Frequencies, Density: result.Density}, nil
	}

	result.Hm0 = 4 * math.Sqrt(result.M0)
	result.PeakFrequency = result.Frequencies[peak]
	result.PeakPeriod = 1.0 / result.PeakFrequency
	if result.M1 > 0 {
		result.MeanPeriod = result.M0 / result.M1
	}

	return result, nil
}
