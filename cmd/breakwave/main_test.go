package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/breakwave/algorithms/dispersion"
	"github.com/RyanBlaney/breakwave/config"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestWavelengthCommand(t *testing.T) {
	code, out, errOut := runCLI(t, "wavelength", "-period", "6", "-depth", "10")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, errOut)
	}
	want := fmt.Sprintf("%.4f\n", dispersion.ComputeWavelength(6, 10))
	if out != want {
		t.Errorf("output: got %q want %q", out, want)
	}
}

func TestWavelengthCommandRequiresInputs(t *testing.T) {
	if code, _, _ := runCLI(t, "wavelength", "-period", "6"); code != 2 {
		t.Fatalf("expected usage exit code, got %d", code)
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments", "baseline.json")
	code, out, errOut := runCLI(t, "init", path)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, errOut)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "baseline" {
		t.Errorf("name: got %q", cfg.Name)
	}
	if strings.TrimSpace(out) != cfg.SimulationDirName() {
		t.Errorf("output: got %q want %q", out, cfg.SimulationDirName())
	}
}

func TestAnalyzeCommandWithoutGauges(t *testing.T) {
	code, _, errOut := runCLI(t, "analyze", t.TempDir())
	if code != 1 {
		t.Fatalf("expected failure exit code, got %d", code)
	}
	if !strings.Contains(errOut, "no wave gauge data") {
		t.Errorf("stderr does not report missing gauges: %s", errOut)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	simDir := t.TempDir()
	swash := filepath.Join(simDir, "swash")
	if err := os.MkdirAll(swash, 0o755); err != nil {
		t.Fatal(err)
	}
	for i, a := range []float64{0.2, 0.2, 0.1, 0.1} {
		var b strings.Builder
		for j := 0; j <= 400; j++ {
			ti := float64(j) * 0.1
			fmt.Fprintf(&b, "%.3f %.6f\n", ti, 1+a*math.Sin(math.Pi*ti-0.3))
		}
		if err := os.WriteFile(filepath.Join(swash, fmt.Sprintf("wg%02d.txt", i+1)), []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	code, out, errOut := runCLI(t, "-log-format", "json", "analyze", simDir)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Kt=0.5000") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(errOut, `"msg":"Analysis complete"`) {
		t.Errorf("expected JSON log lines, got:\n%s", errOut)
	}
}

func TestGlobalFlags(t *testing.T) {
	if code, _, _ := runCLI(t, "-log-format", "xml", "wavelength", "-period", "6", "-depth", "10"); code != 2 {
		t.Errorf("unknown log format: got exit code %d", code)
	}
	if code, _, _ := runCLI(t); code != 2 {
		t.Errorf("missing command: got exit code %d", code)
	}
	if code, _, errOut := runCLI(t, "launch"); code != 2 || !strings.Contains(errOut, "unknown command") {
		t.Errorf("unknown command: got exit code %d, stderr %q", code, errOut)
	}
}
