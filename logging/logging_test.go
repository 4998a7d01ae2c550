package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDefaultLoggerLevelsAndFields(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&out, &errOut)

	logger.Debug("hidden")
	logger.WithFields(Fields{"gauge": "WG01", "position": 20.0}).Info("analyzed")
	logger.Warn("careful", Fields{"samples": 3})
	logger.Error(errors.New("boom"), "failed")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug message should be filtered at info level: %q", out.String())
	}
	if !strings.Contains(out.String(), "[INFO] analyzed gauge=WG01 position=20") {
		t.Errorf("unexpected info line: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[WARN] careful samples=3") {
		t.Errorf("unexpected warn line: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "[ERROR] failed: boom") {
		t.Errorf("unexpected error line: %q", errOut.String())
	}

	logger.SetLevel(DebugLevel)
	logger.Debug("visible")
	if !strings.Contains(out.String(), "[DEBUG] visible") {
		t.Errorf("debug message missing after SetLevel: %q", out.String())
	}
}

func TestDefaultLoggerWithContext(t *testing.T) {
	var out bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&out, &out)

	ctx := ContextWithFields(context.Background(), Fields{"run": "abc"})
	logger.WithContext(ctx).Info("started")

	if !strings.Contains(out.String(), "run=abc") {
		t.Fatalf("context fields missing: %q", out.String())
	}
}

func TestZapLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZapLogger(&buf, true)

	logger.WithFields(Fields{"component": "aggregator"}).Warn("zeroed gauge", Fields{"position": 65.0})
	logger.Debug("filtered")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry["msg"] != "zeroed gauge" || entry["component"] != "aggregator" || entry["position"] != 65.0 {
		t.Fatalf("unexpected entry: %v", entry)
	}

	logger.SetLevel(DebugLevel)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatal("debug entry missing after SetLevel")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": DebugLevel, "INFO": InfoLevel, "warning": WarnLevel, "error": ErrorLevel}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
