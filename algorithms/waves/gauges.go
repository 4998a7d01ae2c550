package waves

import (
	"errors"
	"fmt"
	"slices"

	"github.com/RyanBlaney/breakwave/algorithms/common"
	"github.com/RyanBlaney/breakwave/logging"
)

var errNonFiniteSamples = errors.New("record contains NaN or infinite water levels")

// GaugeSample is one flat input row: a water level at a gauge position and time
type GaugeSample struct {
	Position   float64 `json:"position"`
	Timestep   float64 `json:"timestep"` // sample time (s)
	WaterLevel float64 `json:"water_level"`
}

// Aggregator applies the wave analyzer to every gauge position in a set of
// rows. A gauge whose analysis fails gets a zeroed row; its siblings are
// unaffected.
type Aggregator struct {
	method Method
	logger logging.Logger
}

// NewAggregator creates an aggregator using zero-crossing detection
func NewAggregator() *Aggregator {
	return NewAggregatorWithMethod(MethodZeroCrossing)
}

// NewAggregatorWithMethod creates an aggregator using the given method
func NewAggregatorWithMethod(method Method) *Aggregator {
	return &Aggregator{
		method: method,
		logger: logging.WithFields(logging.Fields{
			"component": "gauge_aggregator",
		}),
	}
}

// CalculateWaveStatisticsForGauges is Aggregate on a default Aggregator
func CalculateWaveStatisticsForGauges(data []GaugeSample, timestep float64) GaugeStatisticsTable {
	return NewAggregator().Aggregate(data, timestep)
}

// Aggregate returns one row per distinct position, ascending by position.
// Rows of each gauge are ordered by time before analysis, so input order does
// not matter. Empty input gives an empty table.
func (a *Aggregator) Aggregate(data []GaugeSample, timestep float64) GaugeStatisticsTable {
	byPosition := make(map[float64][]GaugeSample)
	for _, row := range data {
		byPosition[row.Position] = append(byPosition[row.Position], row)
	}

	positions := make([]float64, 0, len(byPosition))
	for position := range byPosition {
		positions = append(positions, position)
	}
	slices.Sort(positions)

	table := make(GaugeStatisticsTable, 0, len(positions))
	for _, position := range positions {
		rows := byPosition[position]
		slices.SortStableFunc(rows, func(x, y GaugeSample) int {
			switch {
			case x.Timestep < y.Timestep:
				return -1
			case x.Timestep > y.Timestep:
				return 1
			}
			return 0
		})

		levels := make([]float64, len(rows))
		for i, row := range rows {
			levels[i] = row.WaterLevel
		}

		stats, err := a.analyzeGauge(levels, timestep)
		if err != nil {
			a.logger.Warn("Gauge analysis failed, recording zero statistics", logging.Fields{
				"position": position,
				"samples":  len(levels),
				"error":    err.Error(),
			})
			stats = WaveStatistics{}
		}

		table = append(table, GaugeStatistics{Position: position, WaveStatistics: stats})
	}

	a.logger.Debug("Aggregated gauge statistics", logging.Fields{
		"gauges": len(table),
		"rows":   len(data),
	})

	return table
}

func (a *Aggregator) analyzeGauge(levels []float64, timestep float64) (WaveStatistics, error) {
	if !common.AllFinite(levels) {
		return WaveStatistics{}, errNonFiniteSamples
	}
	stats, err := CalculateWaveHeights(levels, timestep, a.method)
	if err != nil {
		return WaveStatistics{}, fmt.Errorf("failed to analyze gauge: %w", err)
	}
	return stats, nil
}
