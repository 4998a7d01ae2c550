package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/breakwave/algorithms/dispersion"
	"github.com/RyanBlaney/breakwave/algorithms/waves"
)

// SimulationConfig describes one breakwater experiment
type SimulationConfig struct {
	Name string `json:"-"`
	Hash string `json:"hash"` // derived, see Hash

	Grid       GridConfig       `json:"grid"`
	Breakwater BreakwaterConfig `json:"breakwater"`
	Water      WaterConfig      `json:"water"`
	Vegetation VegetationConfig `json:"vegetation"`
	Numeric    NumericConfig    `json:"numeric"`
	Analysis   AnalysisConfig   `json:"analysis"`
}

// GridConfig is the computational grid
type GridConfig struct {
	Length  float64 `json:"length"`   // domain length (m)
	NXCells int     `json:"nx_cells"` // cells along x
	NLayers int     `json:"n_layers"` // vertical layers
}

type BreakwaterConfig struct {
	StartPosition float64 `json:"start_position"` // m
	EndPosition   float64 `json:"end_position"`   // m
	CrestHeight   float64 `json:"crest_height"`   // above the floor (m)
	CrestWidth    float64 `json:"crest_width"`    // m
	Porosity      float64 `json:"porosity"`       // -
	StoneDensity  float64 `json:"stone_density"`  // kg/m³
	ArmourDn50    float64 `json:"armour_dn50"`    // m
	FilterDn50    float64 `json:"filter_dn50"`    // m
	CoreDn50      float64 `json:"core_dn50"`      // m
}

type WaterConfig struct {
	WaterLevel   float64 `json:"water_level"`   // still water depth (m)
	WaterDensity float64 `json:"water_density"` // kg/m³
	WaveHeight   float64 `json:"wave_height"`   // regular wave height (m)
	WavePeriod   float64 `json:"wave_period"`   // s
}

type VegetationConfig struct {
	Enable          bool    `json:"enable"`
	PlantHeight     float64 `json:"plant_height"`     // m
	PlantDiameter   float64 `json:"plant_diameter"`   // m
	PlantDensity    float64 `json:"plant_density"`    // stems per m²
	DragCoefficient float64 `json:"drag_coefficient"` // Cd
}

type NumericConfig struct {
	NWaves             int       `json:"n_waves"`
	TimeStep           float64   `json:"time_step"`            // s
	WaveGaugePositions []float64 `json:"wave_gauge_positions"` // x (m)
	OutputInterval     float64   `json:"output_interval"`      // s
}

// AnalysisConfig controls post-processing of the gauge records
type AnalysisConfig struct {
	Method                    string   `json:"method"`
	TransmissionWindowSeconds float64  `json:"transmission_window_seconds"`
	MinWindowSamples          int      `json:"min_window_samples"`
	IncidentGauges            []string `json:"incident_gauges,omitempty"`
	TransmittedGauges         []string `json:"transmitted_gauges,omitempty"`
}

// DefaultSimulationConfig returns the default experiment
func DefaultSimulationConfig(name string) *SimulationConfig {
	cfg := &SimulationConfig{
		Name: name,
		Grid: GridConfig{
			Length:  112.0,
			NXCells: 500,
			NLayers: 2,
		},
		Breakwater: BreakwaterConfig{
			StartPosition: 100.0,
			EndPosition:   200.0,
			CrestHeight:   2.0,
			CrestWidth:    2.0,
			Porosity:      0.4,
			StoneDensity:  2600,
			ArmourDn50:    1.150,
			FilterDn50:    0.5,
			CoreDn50:      0.2,
		},
		Water: WaterConfig{
			WaterLevel:   1.0,
			WaterDensity: 1000,
			WaveHeight:   0.5,
			WavePeriod:   6,
		},
		Vegetation: VegetationConfig{
			Enable:          false,
			PlantHeight:     0.5,
			PlantDiameter:   0.01,
			PlantDensity:    100,
			DragCoefficient: 1.0,
		},
		Numeric: NumericConfig{
			NWaves:             50,
			TimeStep:           0.05,
			WaveGaugePositions: []float64{20.0, 60.0, 65.0, 80.0, 100.0},
			OutputInterval:     0.1,
		},
		Analysis: DefaultAnalysisConfig(),
	}
	cfg.Hash = cfg.ComputeHash()
	return cfg
}

// DefaultAnalysisConfig returns the default post-processing settings
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Method:                    string(waves.MethodZeroCrossing),
		TransmissionWindowSeconds: waves.DefaultTransmissionWindow,
		MinWindowSamples:          waves.DefaultMinWindowSamples,
	}
}

// Wavelength solves the dispersion relation at the configured period and depth
func (c *SimulationConfig) Wavelength() float64 {
	return dispersion.ComputeWavelength(c.Water.WavePeriod, c.Water.WaterLevel)
}

// ComputeHash returns the first 8 hex digits of the SHA-256 of the
// configuration with the hash field blanked
func (c *SimulationConfig) ComputeHash() string {
	clone := *c
	clone.Hash = ""
	data, err := json.Marshal(&clone)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:8]
}

// SimulationDirName is "<name>_<hash>"
func (c *SimulationConfig) SimulationDirName() string {
	return fmt.Sprintf("%s_%s", c.Name, c.ComputeHash())
}

// Validate rejects configurations the analysis cannot run with
func (c *SimulationConfig) Validate() error {
	if _, err := waves.ParseMethod(c.Analysis.Method); err != nil {
		return fmt.Errorf("analysis.method: %w", err)
	}
	if c.Numeric.OutputInterval <= 0 {
		return fmt.Errorf("numeric.output_interval must be positive, got %v", c.Numeric.OutputInterval)
	}
	if c.Analysis.TransmissionWindowSeconds <= 0 {
		return fmt.Errorf("analysis.transmission_window_seconds must be positive, got %v", c.Analysis.TransmissionWindowSeconds)
	}
	return nil
}

// Load reads a JSON configuration. Missing fields keep their defaults and
// the name is taken from the file stem.
func Load(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultSimulationConfig(nameFromPath(path))
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Hash = cfg.ComputeHash()

	return cfg, nil
}

// Save writes cfg as indented JSON with a refreshed hash
func Save(cfg *SimulationConfig, path string) error {
	cfg.Hash = cfg.ComputeHash()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
