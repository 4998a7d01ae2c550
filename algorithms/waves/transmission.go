package waves

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultTransmissionWindow is the steady-state tail analyzed per gauge (s)
	DefaultTransmissionWindow = 30.0

	// DefaultMinWindowSamples is the fewest samples a window may hold
	DefaultMinWindowSamples = 10

	// defaultGaugesPerSide is how many gauges each default selection takes
	defaultGaugesPerSide = 2
)

// TransmissionParams configures the representative height estimator
type TransmissionParams struct {
	DurationSeconds  float64 `json:"duration_seconds"`
	MinWindowSamples int     `json:"min_window_samples"`
}

// TransmissionCalculator derives the transmission coefficient between an
// incident and a transmitted gauge set
type TransmissionCalculator struct {
	params TransmissionParams
}

// NewTransmissionCalculator creates a calculator with default parameters
func NewTransmissionCalculator() *TransmissionCalculator {
	return &TransmissionCalculator{
		params: TransmissionParams{
			DurationSeconds:  DefaultTransmissionWindow,
			MinWindowSamples: DefaultMinWindowSamples,
		},
	}
}

// NewTransmissionCalculatorWithParams creates a calculator with custom parameters
func NewTransmissionCalculatorWithParams(params TransmissionParams) *TransmissionCalculator {
	return &TransmissionCalculator{params: params}
}

// CalculateTransmissionCoefficient is Calculate on a default calculator
func CalculateTransmissionCoefficient(gaugeSeries map[string]*GaugeSeries, incidentGauges, transmittedGauges []string) (*TransmissionResult, error) {
	return NewTransmissionCalculator().Calculate(gaugeSeries, incidentGauges, transmittedGauges)
}

// Calculate computes Kt = Ht/Hi from the representative heights of the two
// gauge sets. Nil selections default to the first and last two gauge ids in
// lexicographic order, which matches spatial order only for names such as
// wg01..wg99.
//
// Gauges whose estimate is zero (too little data in the window) do not count
// toward a side's mean. A side with none of its gauges present in
// gaugeSeries fails with ErrInsufficientData; a side whose gauges are all
// zero has height 0, and an incident height of 0 gives Kt = 0.
func (tc *TransmissionCalculator) Calculate(gaugeSeries map[string]*GaugeSeries, incidentGauges, transmittedGauges []string) (*TransmissionResult, error) {
	if incidentGauges == nil || transmittedGauges == nil {
		defIncident, defTransmitted := DefaultGaugeSelection(gaugeSeries)
		if incidentGauges == nil {
			incidentGauges = defIncident
		}
		if transmittedGauges == nil {
			transmittedGauges = defTransmitted
		}
	}

	incidentHeight, err := tc.sideHeight(gaugeSeries, incidentGauges)
	if err != nil {
		return nil, fmt.Errorf("incident gauges: %w", err)
	}
	transmittedHeight, err := tc.sideHeight(gaugeSeries, transmittedGauges)
	if err != nil {
		return nil, fmt.Errorf("transmitted gauges: %w", err)
	}

	kt := 0.0
	if incidentHeight != 0 {
		kt = transmittedHeight / incidentHeight
	}

	return &TransmissionResult{
		TransmissionCoefficient:  kt,
		IncidentWaveHeight:       incidentHeight,
		TransmittedWaveHeight:    transmittedHeight,
		EnergyTransmission:       kt * kt,
		EnergyDissipationPercent: (1 - kt*kt) * 100,
		IncidentGauges:           slices.Clone(incidentGauges),
		TransmittedGauges:        slices.Clone(transmittedGauges),
	}, nil
}

// sideHeight averages the non-zero estimates of the selected gauges
func (tc *TransmissionCalculator) sideHeight(gaugeSeries map[string]*GaugeSeries, ids []string) (float64, error) {
	found := 0
	sum := 0.0
	contributing := 0

	for _, id := range ids {
		series, ok := gaugeSeries[id]
		if !ok || series == nil {
			continue
		}
		found++

		h := tc.RepresentativeHeight(series)
		if h == 0 {
			continue
		}
		sum += h
		contributing++
	}

	if found == 0 {
		return 0, fmt.Errorf("%w: none of %v present in %d gauge series", ErrInsufficientData, ids, len(gaugeSeries))
	}
	if contributing == 0 {
		return 0.0, nil
	}
	return sum / float64(contributing), nil
}

// RepresentativeHeight estimates a gauge's wave height as 4σ of the water
// level over the last DurationSeconds of the record. Windows holding fewer
// than MinWindowSamples samples give 0.
func (tc *TransmissionCalculator) RepresentativeHeight(series *GaugeSeries) float64 {
	window := tc.steadyStateWindow(series)
	if len(window) < tc.params.MinWindowSamples || len(window) < 2 {
		return 0.0
	}
	return 4 * stat.StdDev(window, nil)
}

// steadyStateWindow returns the water levels with t >= t_end - DurationSeconds
func (tc *TransmissionCalculator) steadyStateWindow(series *GaugeSeries) []float64 {
	n := len(series.WaterLevel)
	if n == 0 || len(series.Time) != n {
		return nil
	}

	start := series.Time[n-1] - tc.params.DurationSeconds
	first := n
	for first > 0 && series.Time[first-1] >= start {
		first--
	}
	return series.WaterLevel[first:]
}

// DefaultGaugeSelection sorts the gauge ids and returns the first two as
// incident and the last two as transmitted (one each with a single gauge)
func DefaultGaugeSelection(gaugeSeries map[string]*GaugeSeries) (incident, transmitted []string) {
	ids := make([]string, 0, len(gaugeSeries))
	for id := range gaugeSeries {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	k := min(defaultGaugesPerSide, len(ids))
	incident = slices.Clone(ids[:k])
	transmitted = slices.Clone(ids[len(ids)-k:])
	return incident, transmitted
}
