// Package analysis post-processes the gauge records of a finished simulation.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/RyanBlaney/breakwave/algorithms/spectral"
	"github.com/RyanBlaney/breakwave/algorithms/waves"
	"github.com/RyanBlaney/breakwave/config"
	"github.com/RyanBlaney/breakwave/gauge"
	"github.com/RyanBlaney/breakwave/logging"
	"github.com/RyanBlaney/breakwave/report"
)

const (
	// SolverDir holds the gauge files inside a simulation directory
	SolverDir = "swash"

	// OutputDir receives the analysis outputs
	OutputDir = "analysis"

	StatisticsCSVFile     = "wave_statistics.csv"
	StatisticsParquetFile = "wave_statistics.parquet"
	ResultsFile           = "analysis_results.json"
)

// SpectralParameters is the per-gauge summary of the variance spectrum
type SpectralParameters struct {
	Hm0        float64 `json:"hm0"`
	PeakPeriod float64 `json:"peak_period"`
	MeanPeriod float64 `json:"mean_period"`
}

// Results is the document written to analysis_results.json
type Results struct {
	RunID             string                        `json:"run_id"`
	ConfigName        string                        `json:"config_name"`
	ConfigHash        string                        `json:"config_hash"`
	AnalysisTimestamp time.Time                     `json:"analysis_timestamp"`
	Wavelength        float64                       `json:"wavelength"`
	WaveStatistics    waves.GaugeStatisticsTable    `json:"wave_statistics"`
	GaugeMetrics      map[string]GaugeMetrics       `json:"gauge_metrics"`
	RelativeHeights   map[string]float64            `json:"relative_heights"`
	Spectral          map[string]SpectralParameters `json:"spectral"`
	Transmission      *waves.TransmissionResult     `json:"transmission,omitempty"`
	TransmissionError string                        `json:"transmission_error,omitempty"`
	OutputFiles       []string                      `json:"output_files"`
}

// Options tunes a run
type Options struct {
	// SkipOutputs computes results without writing files
	SkipOutputs bool

	// Now overrides the timestamp source
	Now func() time.Time
}

// Analyzer runs the post-processing pipeline for one configuration
type Analyzer struct {
	cfg    *config.SimulationConfig
	opts   Options
	logger logging.Logger
}

// NewAnalyzer creates an analyzer for cfg
func NewAnalyzer(cfg *config.SimulationConfig, opts Options) *Analyzer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Analyzer{
		cfg:  cfg,
		opts: opts,
		logger: logging.WithFields(logging.Fields{
			"component": "analysis",
			"config":    cfg.Name,
		}),
	}
}

// Run analyzes simDir with cfg
func Run(ctx context.Context, simDir string, cfg *config.SimulationConfig, opts Options) (*Results, error) {
	return NewAnalyzer(cfg, opts).Run(ctx, simDir)
}

// Run loads the gauge records under simDir/swash, computes statistics,
// metrics, spectra and the transmission coefficient, and writes the outputs
// to simDir/analysis. An insufficient transmission selection is recorded in
// the results rather than failing the run.
func (a *Analyzer) Run(ctx context.Context, simDir string) (*Results, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	method, _ := waves.ParseMethod(a.cfg.Analysis.Method)

	logger := a.logger.WithContext(ctx).WithFields(logging.Fields{"simulation": simDir})

	series, err := gauge.LoadDir(filepath.Join(simDir, SolverDir))
	if err != nil {
		return nil, err
	}
	unpositioned := gauge.AssignPositions(series, a.cfg.Numeric.WaveGaugePositions)

	logger.Info("Analyzing gauges", logging.Fields{"gauges": len(series)})

	table := waves.NewAggregatorWithMethod(method).Aggregate(gauge.Rows(series, unpositioned...), a.cfg.Numeric.OutputInterval)

	results := &Results{
		RunID:             uuid.NewString(),
		ConfigName:        a.cfg.Name,
		ConfigHash:        a.cfg.ComputeHash(),
		AnalysisTimestamp: a.opts.Now().UTC(),
		Wavelength:        a.cfg.Wavelength(),
		WaveStatistics:    table,
		GaugeMetrics:      make(map[string]GaugeMetrics, len(series)),
		Spectral:          make(map[string]SpectralParameters, len(series)),
		OutputFiles:       []string{},
	}

	estimator := spectral.NewWaveSpectrum()
	for _, id := range gauge.SortedIDs(series) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s := series[id]
		var waveStats waves.WaveStatistics
		if !slices.Contains(unpositioned, id) {
			waveStats, _ = table.Lookup(s.Position)
		}
		results.GaugeMetrics[id] = ComputeGaugeMetrics(s, waveStats, a.cfg.Water.WaterLevel)

		dt := gauge.EstimateTimestep(s.Time, gauge.DefaultTimestep)
		spec, err := estimator.Compute(s.WaterLevel, dt)
		if err != nil {
			logger.Debug("Skipping spectrum", logging.Fields{"gauge": id, "error": err.Error()})
			continue
		}
		results.Spectral[id] = SpectralParameters{
			Hm0:        spec.Hm0,
			PeakPeriod: spec.PeakPeriod,
			MeanPeriod: spec.MeanPeriod,
		}
	}
	results.RelativeHeights = RelativeHeights(results.GaugeMetrics)

	calc := waves.NewTransmissionCalculatorWithParams(waves.TransmissionParams{
		DurationSeconds:  a.cfg.Analysis.TransmissionWindowSeconds,
		MinWindowSamples: a.cfg.Analysis.MinWindowSamples,
	})
	transmission, err := calc.Calculate(series, a.cfg.Analysis.IncidentGauges, a.cfg.Analysis.TransmittedGauges)
	switch {
	case errors.Is(err, waves.ErrInsufficientData):
		logger.Warn("Transmission coefficient unavailable", logging.Fields{"error": err.Error()})
		results.TransmissionError = err.Error()
	case err != nil:
		return nil, fmt.Errorf("transmission: %w", err)
	default:
		results.Transmission = transmission
		logger.Info("Transmission coefficient", logging.Fields{
			"kt":                         transmission.TransmissionCoefficient,
			"energy_dissipation_percent": transmission.EnergyDissipationPercent,
		})
	}

	if a.opts.SkipOutputs {
		return results, nil
	}
	if err := a.writeOutputs(filepath.Join(simDir, OutputDir), results); err != nil {
		return nil, err
	}

	logger.Info("Analysis complete", logging.Fields{"outputs": len(results.OutputFiles)})
	return results, nil
}

func (a *Analyzer) writeOutputs(dir string, results *Results) error {
	csvPath := filepath.Join(dir, StatisticsCSVFile)
	parquetPath := filepath.Join(dir, StatisticsParquetFile)
	resultsPath := filepath.Join(dir, ResultsFile)

	// JSON goes first so the directory exists for the table files
	results.OutputFiles = []string{resultsPath, csvPath, parquetPath}
	if err := report.WriteJSONFile(resultsPath, results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := report.WriteTableFile(csvPath, results.WaveStatistics, report.WriteTableCSV); err != nil {
		return fmt.Errorf("failed to write %s: %w", StatisticsCSVFile, err)
	}
	if err := report.WriteTableFile(parquetPath, results.WaveStatistics, report.WriteTableParquet); err != nil {
		return fmt.Errorf("failed to write %s: %w", StatisticsParquetFile, err)
	}
	return nil
}
