package windowing

import (
	"fmt"
	"math"
)

// Hann is a Hann (raised cosine) taper
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHann creates a Hann window. Periodic windows (symmetric=false) are the
// usual choice for spectral estimation.
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hann) generate() {
	h.coefficients = make([]float64, max(h.size, 0))
	if h.size == 1 {
		h.coefficients[0] = 1
		return
	}

	denominator := float64(h.size)
	if h.symmetric {
		denominator = float64(h.size - 1)
	}

	for i := range h.coefficients {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
}

// Apply returns signal multiplied by the window
func (h *Hann) Apply(signal []float64) ([]float64, error) {
	if len(signal) != h.size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), h.size)
	}

	windowed := make([]float64, h.size)
	for i, c := range h.coefficients {
		windowed[i] = signal[i] * c
	}
	return windowed, nil
}

// MeanSquare returns mean(w²), the power loss the taper introduces
func (h *Hann) MeanSquare() float64 {
	if h.size == 0 {
		return 0.0
	}
	sum := 0.0
	for _, c := range h.coefficients {
		sum += c * c
	}
	return sum / float64(h.size)
}

// Size returns the window size
func (h *Hann) Size() int {
	return h.size
}
