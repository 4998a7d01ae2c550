package waves

import (
	"errors"
	"fmt"
)

// Method selects the individual-wave detection algorithm
type Method string

const (
	// MethodZeroCrossing detects waves between consecutive zero up-crossings
	MethodZeroCrossing Method = "zero_crossing"
)

var (
	// ErrUnknownMethod is returned for any unsupported Method value
	ErrUnknownMethod = errors.New("unknown method")

	// ErrInsufficientData is returned when a gauge selection has no usable gauges
	ErrInsufficientData = errors.New("insufficient data")
)

// ParseMethod converts a method name into a Method, rejecting unknown names
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case MethodZeroCrossing:
		return MethodZeroCrossing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// WaveStatistics summarizes the individual waves detected in one gauge record.
// The zero value is the result for a record with no complete wave.
type WaveStatistics struct {
	SignificantWaveHeight float64 `json:"significant_wave_height"` // H1/3 (m)
	MeanWaveHeight        float64 `json:"mean_wave_height"`        // m
	MaxWaveHeight         float64 `json:"max_wave_height"`         // m
	RMSWaveHeight         float64 `json:"rms_wave_height"`         // m
	NWaves                int     `json:"n_waves"`
	MeanPeriod            float64 `json:"mean_period"` // s
}

// GaugeStatistics is one row of a GaugeStatisticsTable
type GaugeStatistics struct {
	Position float64 `json:"position"`
	WaveStatistics
}

// GaugeStatisticsTable holds one row per gauge position, ascending by position
type GaugeStatisticsTable []GaugeStatistics

// Positions returns the gauge positions in table order
func (t GaugeStatisticsTable) Positions() []float64 {
	positions := make([]float64, len(t))
	for i, row := range t {
		positions[i] = row.Position
	}
	return positions
}

// Lookup returns the statistics recorded at position
func (t GaugeStatisticsTable) Lookup(position float64) (WaveStatistics, bool) {
	for _, row := range t {
		if row.Position == position {
			return row.WaveStatistics, true
		}
	}
	return WaveStatistics{}, false
}

// GaugeSeries is the time series recorded by one gauge. U and V are optional
// and may be empty; when present they are index-aligned with Time.
type GaugeSeries struct {
	ID         string    `json:"id"`
	Position   float64   `json:"position"`
	Time       []float64 `json:"time"`
	WaterLevel []float64 `json:"water_level"`
	U          []float64 `json:"u,omitempty"`
	V          []float64 `json:"v,omitempty"`
}

// Len returns the number of samples
func (s *GaugeSeries) Len() int {
	return len(s.WaterLevel)
}

// TransmissionResult describes wave transmission between two gauge sets
type TransmissionResult struct {
	TransmissionCoefficient  float64  `json:"transmission_coefficient"`
	IncidentWaveHeight       float64  `json:"incident_wave_height"`
	TransmittedWaveHeight    float64  `json:"transmitted_wave_height"`
	EnergyTransmission       float64  `json:"energy_transmission"`
	EnergyDissipationPercent float64  `json:"energy_dissipation_percent"`
	IncidentGauges           []string `json:"incident_gauges"`
	TransmittedGauges        []string `json:"transmitted_gauges"`
}
