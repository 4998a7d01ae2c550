package stats

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// MomentResult holds the shape statistics of a surface elevation record
type MomentResult struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"` // sample variance
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"` // third standardized moment
	Kurtosis float64 `json:"kurtosis"` // fourth standardized moment (excess)

	// BowleySkewness is the quartile skewness (Q3+Q1-2Q2)/(Q3-Q1)
	BowleySkewness float64 `json:"bowley_skewness"`

	NumSamples  int     `json:"num_samples"`
	SampleRange float64 `json:"sample_range"`
}

// Moments characterizes the departure of a surface elevation record from a
// Gaussian sea. Positive skewness means peaked crests and flat troughs, the
// signature of shoaling waves; excess kurtosis flags intermittent extremes.
//
// References:
// - Longuet-Higgins, M.S. (1963). "The effect of non-linearities on statistical
//   distributions in the theory of sea waves"
// - Kendall, M., Stuart, A. (1977). "The Advanced Theory of Statistics, Volume 1"
type Moments struct {
	minSamples int
}

// NewMoments creates a moment analyzer requiring at least four samples
func NewMoments() *Moments {
	return &Moments{minSamples: 4}
}

// Analyze computes the moments of data
func (m *Moments) Analyze(data []float64) (*MomentResult, error) {
	n := len(data)
	if n < m.minSamples {
		return nil, fmt.Errorf("need at least %d samples, got %d", m.minSamples, n)
	}

	mean, variance := stat.MeanVariance(data, nil)
	result := &MomentResult{
		Mean:       mean,
		Variance:   variance,
		StdDev:     stat.StdDev(data, nil),
		NumSamples: n,
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)
	result.SampleRange = sorted[n-1] - sorted[0]

	// a constant record has no shape
	if variance == 0 {
		return result, nil
	}

	result.Skewness = stat.Skew(data, nil)
	result.Kurtosis = stat.ExKurtosis(data, nil)
	result.BowleySkewness = bowleySkewness(sorted)

	return result, nil
}

func bowleySkewness(sorted []float64) float64 {
	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q2 := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	if q3 == q1 {
		return 0.0
	}
	return (q3 + q1 - 2*q2) / (q3 - q1)
}
