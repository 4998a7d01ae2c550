package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/breakwave/algorithms/waves"
)

func sampleTable() waves.GaugeStatisticsTable {
	return waves.GaugeStatisticsTable{
		{Position: 20, WaveStatistics: waves.WaveStatistics{SignificantWaveHeight: 0.52, MeanWaveHeight: 0.48, MaxWaveHeight: 0.55, RMSWaveHeight: 0.49, NWaves: 42, MeanPeriod: 6.01}},
		{Position: 65.5, WaveStatistics: waves.WaveStatistics{}},
		{Position: 100, WaveStatistics: waves.WaveStatistics{SignificantWaveHeight: 0.21, MeanWaveHeight: 0.19, MaxWaveHeight: 0.23, RMSWaveHeight: 0.195, NWaves: 40, MeanPeriod: 5.98}},
	}
}

func TestTableCSVRoundTrip(t *testing.T) {
	table := sampleTable()

	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, table); err != nil {
		t.Fatalf("WriteTableCSV error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(Columns, ",") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "20,0.52,0.48,0.55,0.49,42,6.01" {
		t.Fatalf("unexpected first row %q", lines[1])
	}

	got, err := ReadTableCSV(&buf)
	if err != nil {
		t.Fatalf("ReadTableCSV error: %v", err)
	}
	for i := range table {
		if got[i] != table[i] {
			t.Fatalf("row %d: got %+v want %+v", i, got[i], table[i])
		}
	}
}

func TestReadTableCSVErrors(t *testing.T) {
	if _, err := ReadTableCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	bad := strings.Join(Columns, ",") + "\n1,2,3\n"
	if _, err := ReadTableCSV(strings.NewReader(bad)); err == nil {
		t.Error("expected error for short row")
	}
}

func TestTableParquetRoundTrip(t *testing.T) {
	table := sampleTable()
	path := filepath.Join(t.TempDir(), "wave_statistics.parquet")

	if err := WriteTableFile(path, table, WriteTableParquet); err != nil {
		t.Fatalf("WriteTableParquet error: %v", err)
	}

	got, err := ReadTableParquet(path)
	if err != nil {
		t.Fatalf("ReadTableParquet error: %v", err)
	}
	if len(got) != len(table) {
		t.Fatalf("expected %d rows, got %d", len(table), len(got))
	}
	for i := range table {
		if got[i] != table[i] {
			t.Fatalf("row %d: got %+v want %+v", i, got[i], table[i])
		}
	}
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis", "results.json")
	if err := WriteJSONFile(path, map[string]float64{"kt": 0.5}); err != nil {
		t.Fatalf("WriteJSONFile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(data, &decoded); err != nil || decoded["kt"] != 0.5 {
		t.Fatalf("unexpected content %q: %v", data, err)
	}
}
