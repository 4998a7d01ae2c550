// Package gauge reads wave gauge time series written by the numerical solver.
//
// Each gauge file (wg01.txt, wg02.txt, ...) is a whitespace separated table
// with one sample per line: time, water level and, optionally, the u and v
// velocity components.
package gauge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/RyanBlaney/breakwave/algorithms/waves"
	"github.com/RyanBlaney/breakwave/logging"
)

// ErrNoGaugeData is returned when a directory holds no readable gauge file
var ErrNoGaugeData = errors.New("no wave gauge data found")

// FilePattern matches gauge output files inside the solver directory
const FilePattern = "wg*.txt"

// DefaultTimestep is used when a record's time column gives no usable step
const DefaultTimestep = 0.1

// Read parses one gauge table from r
func Read(r io.Reader, id string) (*waves.GaugeSeries, error) {
	series := &waves.GaugeSeries{ID: id}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	columns := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}

		values, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", id, lineNo, err)
		}
		if len(values) < 2 {
			return nil, fmt.Errorf("%s line %d: expected at least 2 columns, got %d", id, lineNo, len(values))
		}
		if columns == 0 {
			columns = len(values)
		} else if len(values) != columns {
			return nil, fmt.Errorf("%s line %d: expected %d columns, got %d", id, lineNo, columns, len(values))
		}

		series.Time = append(series.Time, values[0])
		series.WaterLevel = append(series.WaterLevel, values[1])
		if columns > 2 {
			series.U = append(series.U, values[2])
		}
		if columns > 3 {
			series.V = append(series.V, values[3])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}

	return series, nil
}

func parseLine(line string) ([]float64, error) {
	fields := strings.Fields(line)
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// ReadFile reads a gauge file; the id is the upper-cased file stem (WG01)
func ReadFile(path string) (*waves.GaugeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, IDFromPath(path))
}

// IDFromPath derives the gauge id from a file name
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// LoadDir reads every gauge file in dir. Files that cannot be parsed, or that
// hold no samples, are logged and skipped.
func LoadDir(dir string) (map[string]*waves.GaugeSeries, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "gauge_reader",
		"dir":       dir,
	})

	paths, err := filepath.Glob(filepath.Join(dir, FilePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list gauge files: %w", err)
	}
	slices.Sort(paths)

	series := make(map[string]*waves.GaugeSeries, len(paths))
	for _, path := range paths {
		s, err := ReadFile(path)
		if err != nil {
			logger.Warn("Could not load gauge file", logging.Fields{
				"file":  filepath.Base(path),
				"error": err.Error(),
			})
			continue
		}
		if s.Len() == 0 {
			logger.Warn("Gauge file has no samples", logging.Fields{"file": filepath.Base(path)})
			continue
		}
		series[s.ID] = s
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoGaugeData, dir)
	}

	logger.Debug("Loaded gauge files", logging.Fields{"gauges": len(series)})
	return series, nil
}

// SortedIDs returns the gauge ids in lexicographic order
func SortedIDs(series map[string]*waves.GaugeSeries) []string {
	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AssignPositions sets each gauge's position from the configured list,
// index-aligned with the sorted gauge ids. Gauges beyond the list get 0 and
// are returned so callers can keep them out of the positional table.
func AssignPositions(series map[string]*waves.GaugeSeries, positions []float64) []string {
	var unpositioned []string
	for i, id := range SortedIDs(series) {
		if i < len(positions) {
			series[id].Position = positions[i]
			continue
		}
		series[id].Position = 0.0
		unpositioned = append(unpositioned, id)
		logging.Warn("No configured position for gauge, excluding it from the statistics table", logging.Fields{
			"gauge":     id,
			"positions": len(positions),
		})
	}
	return unpositioned
}

// Rows flattens the series into aggregator input rows, leaving out the
// gauges named in exclude
func Rows(series map[string]*waves.GaugeSeries, exclude ...string) []waves.GaugeSample {
	var ids []string
	total := 0
	for _, id := range SortedIDs(series) {
		if slices.Contains(exclude, id) {
			continue
		}
		ids = append(ids, id)
		total += series[id].Len()
	}

	rows := make([]waves.GaugeSample, 0, total)
	for _, id := range ids {
		s := series[id]
		for i, level := range s.WaterLevel {
			t := float64(i)
			if i < len(s.Time) {
				t = s.Time[i]
			}
			rows = append(rows, waves.GaugeSample{Position: s.Position, Timestep: t, WaterLevel: level})
		}
	}
	return rows
}

// EstimateTimestep returns t[1]-t[0], or fallback when that is not a
// positive finite number
func EstimateTimestep(times []float64, fallback float64) float64 {
	if len(times) < 2 {
		return fallback
	}
	dt := times[1] - times[0]
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fallback
	}
	return dt
}
