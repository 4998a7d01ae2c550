package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across the wave algorithms, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Max returns the largest value, 0 for empty input
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// Min returns the smallest value, 0 for empty input
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Min(data)
}

// MaxAbs returns the largest absolute value
func MaxAbs(data []float64) float64 {
	maxAbs := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// RemoveMean returns a copy of data centered about zero
func RemoveMean(data []float64) []float64 {
	centered := make([]float64, len(data))
	if len(data) == 0 {
		return centered
	}
	copy(centered, data)
	floats.AddConst(-Mean(data), centered)
	return centered
}

// AllFinite reports whether every value is neither NaN nor infinite
func AllFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
