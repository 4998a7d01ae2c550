// Package report writes analysis outputs as flat files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/RyanBlaney/breakwave/algorithms/waves"
	parquet "github.com/parquet-go/parquet-go"
)

// TableRow is the flat representation of one GaugeStatisticsTable row
type TableRow struct {
	Position              float64 `parquet:"position"`
	SignificantWaveHeight float64 `parquet:"significant_wave_height"`
	MeanWaveHeight        float64 `parquet:"mean_wave_height"`
	MaxWaveHeight         float64 `parquet:"max_wave_height"`
	RMSWaveHeight         float64 `parquet:"rms_wave_height"`
	NWaves                int64   `parquet:"n_waves"`
	MeanPeriod            float64 `parquet:"mean_period"`
}

// Columns is the header written by WriteTableCSV
var Columns = []string{
	"position",
	"significant_wave_height",
	"mean_wave_height",
	"max_wave_height",
	"rms_wave_height",
	"n_waves",
	"mean_period",
}

// FlattenTable converts the table into rows, keeping its order
func FlattenTable(table waves.GaugeStatisticsTable) []TableRow {
	rows := make([]TableRow, len(table))
	for i, g := range table {
		rows[i] = TableRow{
			Position:              g.Position,
			SignificantWaveHeight: g.SignificantWaveHeight,
			MeanWaveHeight:        g.MeanWaveHeight,
			MaxWaveHeight:         g.MaxWaveHeight,
			RMSWaveHeight:         g.RMSWaveHeight,
			NWaves:                int64(g.NWaves),
			MeanPeriod:            g.MeanPeriod,
		}
	}
	return rows
}

// UnflattenRows is the inverse of FlattenTable
func UnflattenRows(rows []TableRow) waves.GaugeStatisticsTable {
	table := make(waves.GaugeStatisticsTable, len(rows))
	for i, r := range rows {
		table[i] = waves.GaugeStatistics{
			Position: r.Position,
			WaveStatistics: waves.WaveStatistics{
				SignificantWaveHeight: r.SignificantWaveHeight,
				MeanWaveHeight:        r.MeanWaveHeight,
				MaxWaveHeight:         r.MaxWaveHeight,
				RMSWaveHeight:         r.RMSWaveHeight,
				NWaves:                int(r.NWaves),
				MeanPeriod:            r.MeanPeriod,
			},
		}
	}
	return table
}

// WriteTableCSV writes a header and one comma separated row per gauge.
// Floats use the shortest representation that round-trips.
func WriteTableCSV(w io.Writer, table waves.GaugeStatisticsTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	for _, r := range FlattenTable(table) {
		record := []string{
			formatFloat(r.Position),
			formatFloat(r.SignificantWaveHeight),
			formatFloat(r.MeanWaveHeight),
			formatFloat(r.MaxWaveHeight),
			formatFloat(r.RMSWaveHeight),
			strconv.FormatInt(r.NWaves, 10),
			formatFloat(r.MeanPeriod),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTableCSV parses the output of WriteTableCSV
func ReadTableCSV(r io.Reader) (waves.GaugeStatisticsTable, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	rows := make([]TableRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(Columns) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, len(Columns), len(rec))
		}
		var row TableRow
		floatsOut := []*float64{&row.Position, &row.SignificantWaveHeight, &row.MeanWaveHeight, &row.MaxWaveHeight, &row.RMSWaveHeight}
		for j, dst := range floatsOut {
			if *dst, err = strconv.ParseFloat(rec[j], 64); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, Columns[j], err)
			}
		}
		if row.NWaves, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d column n_waves: %w", i+1, err)
		}
		if row.MeanPeriod, err = strconv.ParseFloat(rec[6], 64); err != nil {
			return nil, fmt.Errorf("row %d column mean_period: %w", i+1, err)
		}
		rows = append(rows, row)
	}

	return UnflattenRows(rows), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteTableParquet writes the table as a Snappy-compressed Parquet file
func WriteTableParquet(w io.Writer, table waves.GaugeStatisticsTable) error {
	pw := parquet.NewGenericWriter[TableRow](w, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(FlattenTable(table)); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	return pw.Close()
}

// ReadTableParquet reads a file written by WriteTableParquet
func ReadTableParquet(path string) (waves.GaugeStatisticsTable, error) {
	rows, err := parquet.ReadFile[TableRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet %s: %w", path, err)
	}
	return UnflattenRows(rows), nil
}

// WriteTableFile writes the table to path using writeFn
func WriteTableFile(path string, table waves.GaugeStatisticsTable, writeFn func(io.Writer, waves.GaugeStatisticsTable) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeFn(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
