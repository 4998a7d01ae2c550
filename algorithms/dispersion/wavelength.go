package dispersion

import (
	"math"
)

const (
	// Gravity is the gravitational acceleration in m/s²
	Gravity = 9.81

	// DefaultIterations is the fixed Newton-Raphson iteration count
	DefaultIterations = 50

	// initialDepthRatio is the h/L ratio assumed for the first guess
	initialDepthRatio = 0.05
)

// ComputeWavelength solves the linear dispersion relation for the wavelength
// of a wave with the given period (s) in water of the given depth (m).
//
// The implicit relation
//
//	L = g·T²/(2π) · tanh(2π·h/L)
//
// is solved with DefaultIterations Newton-Raphson steps starting from
// L₀ = h/0.05. Inputs are not validated: non-positive period or depth give
// non-physical results.
func ComputeWavelength(wavePeriod, waterDepth float64) float64 {
	return ComputeWavelengthN(wavePeriod, waterDepth, DefaultIterations)
}

// ComputeWavelengthN is ComputeWavelength with an explicit iteration count.
// There is no early exit; nIter <= 0 returns the initial guess unchanged.
func ComputeWavelengthN(wavePeriod, waterDepth float64, nIter int) float64 {
	L := waterDepth / initialDepthRatio
	for range nIter {
		L -= Residual(L, waterDepth, wavePeriod) / residualDerivative(L, waterDepth, wavePeriod)
	}
	return L
}

// Residual evaluates f(L) = L − g·T²/(2π)·tanh(2π·h/L). It is zero at the
// dispersion relation root.
func Residual(L, h, T float64) float64 {
	return L - DeepWaterWavelength(T)*math.Tanh(2*math.Pi*h/L)
}

// residualDerivative is f'(L) = g·h·T²/(cosh²(2π·h/L)·L²) + 1, always > 1
func residualDerivative(L, h, T float64) float64 {
	c := math.Cosh(2 * math.Pi * h / L)
	return Gravity*h*T*T/(c*c*L*L) + 1
}

// DeepWaterWavelength returns g·T²/(2π), the limit for h/L → ∞
func DeepWaterWavelength(wavePeriod float64) float64 {
	return Gravity * wavePeriod * wavePeriod / (2 * math.Pi)
}

// ShallowWaterWavelength returns T·√(g·h), the limit for h/L → 0
func ShallowWaterWavelength(wavePeriod, waterDepth float64) float64 {
	return wavePeriod * math.Sqrt(Gravity*waterDepth)
}

// WaveNumber returns k = 2π/L for the solved wavelength
func WaveNumber(wavePeriod, waterDepth float64) float64 {
	return 2 * math.Pi / ComputeWavelength(wavePeriod, waterDepth)
}

// Celerity returns the phase speed c = L/T
func Celerity(wavePeriod, waterDepth float64) float64 {
	if wavePeriod == 0 {
		return 0.0
	}
	return ComputeWavelength(wavePeriod, waterDepth) / wavePeriod
}
