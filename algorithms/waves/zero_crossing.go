package waves

import (
	"fmt"
	"slices"

	"github.com/RyanBlaney/breakwave/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// CalculateWaveHeights detects the individual waves in a water level record
// sampled every timestep seconds and summarizes them.
//
// Records that contain no complete wave (fewer than two samples, a flat
// record, fewer than two up-crossings) yield the zero WaveStatistics and a nil
// error. The only error is ErrUnknownMethod.
func CalculateWaveHeights(waterLevels []float64, timestep float64, method Method) (WaveStatistics, error) {
	var heights, periods []float64

	switch method {
	case MethodZeroCrossing:
		heights, periods = zeroCrossingAnalysis(waterLevels, timestep)
	default:
		return WaveStatistics{}, fmt.Errorf("%w: %q", ErrUnknownMethod, string(method))
	}

	return summarize(heights, periods), nil
}

// zeroCrossingAnalysis returns the height and period of every wave bounded by
// two consecutive up-crossings with a down-crossing between them. Up-crossing
// pairs without a down-crossing are skipped.
//
// Crossings are taken on the mean-removed record; heights are measured on the
// raw samples of [up_i, up_{i+1}).
func zeroCrossingAnalysis(waterLevels []float64, timestep float64) (heights, periods []float64) {
	if len(waterLevels) < 2 {
		return nil, nil
	}

	eta := common.RemoveMean(waterLevels)

	lastUp := -1
	sawDown := false
	for i := 0; i < len(eta)-1; i++ {
		switch {
		case eta[i] < 0 && eta[i+1] > 0:
			if lastUp >= 0 && sawDown {
				segment := waterLevels[lastUp:i]
				heights = append(heights, floats.Max(segment)-floats.Min(segment))
				periods = append(periods, float64(i-lastUp)*timestep)
			}
			lastUp = i
			sawDown = false
		case eta[i] > 0 && eta[i+1] < 0:
			if lastUp >= 0 {
				sawDown = true
			}
		}
	}

	return heights, periods
}

// summarize aggregates per-wave heights and periods into WaveStatistics
func summarize(heights, periods []float64) WaveStatistics {
	n := len(heights)
	if n == 0 {
		return WaveStatistics{}
	}

	sorted := slices.Clone(heights)
	slices.SortFunc(sorted, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	// Average of the largest third, at least one wave
	nThird := max(1, n/3)

	return WaveStatistics{
		SignificantWaveHeight: common.Mean(sorted[:nThird]),
		MeanWaveHeight:        common.Mean(heights),
		MaxWaveHeight:         sorted[0],
		RMSWaveHeight:         common.RMS(heights),
		NWaves:                n,
		MeanPeriod:            common.Mean(periods),
	}
}
