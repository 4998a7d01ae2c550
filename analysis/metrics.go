package analysis

import (
	"slices"

	"github.com/RyanBlaney/breakwave/algorithms/common"
	"github.com/RyanBlaney/breakwave/algorithms/stats"
	"github.com/RyanBlaney/breakwave/algorithms/waves"
)

// GaugeMetrics are the per-gauge summary values of a run
type GaugeMetrics struct {
	Position              float64 `json:"position"`
	SignificantWaveHeight float64 `json:"significant_wave_height"`
	MeanWaterLevel        float64 `json:"mean_water_level"`
	WaveSetup             float64 `json:"wave_setup"`
	MaxWaterLevel         float64 `json:"max_water_level"`
	MinWaterLevel         float64 `json:"min_water_level"`
	RMSWaterLevel         float64 `json:"rms_water_level"`
	MaxVelocity           float64 `json:"max_velocity"`
	WaveAmplitude         float64 `json:"wave_amplitude"`
	ElevationSkewness     float64 `json:"elevation_skewness"`
	ElevationKurtosis     float64 `json:"elevation_kurtosis"`
}

// ComputeGaugeMetrics summarizes one gauge record. Setup is measured against
// the still water level; H1/3 comes from the gauge's row in the table.
// Records too short for moments leave skewness and kurtosis at zero.
func ComputeGaugeMetrics(series *waves.GaugeSeries, waveStats waves.WaveStatistics, stillWaterLevel float64) GaugeMetrics {
	levels := series.WaterLevel
	mean := common.Mean(levels)
	maxLevel := common.Max(levels)
	minLevel := common.Min(levels)

	metrics := GaugeMetrics{
		Position:              series.Position,
		SignificantWaveHeight: waveStats.SignificantWaveHeight,
		MeanWaterLevel:        mean,
		WaveSetup:             mean - stillWaterLevel,
		MaxWaterLevel:         maxLevel,
		MinWaterLevel:         minLevel,
		RMSWaterLevel:         common.RMS(levels),
		MaxVelocity:           common.MaxAbs(series.U),
		WaveAmplitude:         (maxLevel - minLevel) / 2,
	}
	if moments, err := stats.NewMoments().Analyze(levels); err == nil {
		metrics.ElevationSkewness = moments.Skewness
		metrics.ElevationKurtosis = moments.Kurtosis
	}
	return metrics
}

// RelativeHeights returns each gauge's H1/3 divided by that of the gauge
// closest to the wave maker (smallest position). A zero reference gives 0
// for every gauge.
func RelativeHeights(metrics map[string]GaugeMetrics) map[string]float64 {
	ids := make([]string, 0, len(metrics))
	for id := range metrics {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return map[string]float64{}
	}
	slices.SortFunc(ids, func(a, b string) int {
		pa, pb := metrics[a].Position, metrics[b].Position
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})

	reference := metrics[ids[0]].SignificantWaveHeight
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		if reference == 0 {
			out[id] = 0.0
			continue
		}
		out[id] = metrics[id].SignificantWaveHeight / reference
	}
	return out
}
