package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracksplit/internal/config"
	"tracksplit/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerFormatsComponentAndAttrs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "export")
	component.Info("segment written", logging.Args(logging.Int(logging.FieldTrackIndex, 3), logging.String("file", "03 intro.mp3"))...)
	component.Debug("hidden at info level")

	content := readLog(t, logPath)
	for _, fragment := range []string{"INFO export: segment written", "track_index=3", `file="03 intro.mp3"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no source location at info level, got %q", content)
	}
}

func TestJSONLoggerCarriesRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.json")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WithRunID(logger, "run-123").With(logging.String(logging.FieldComponent, "splitter")).Info("run started")

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldRunID] != "run-123" {
		t.Fatalf("expected run_id, got %v", record)
	}
	if record["level"] != "info" || record["msg"] != "run started" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownOptions(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := logging.New(logging.Options{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "tracksplit.log")
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Warn("disk nearly full")
	if content := readLog(t, cfg.Logging.File); !strings.Contains(content, "WARN") {
		t.Fatalf("expected warning in log file, got %q", content)
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatal(err)
	}
	logging.WarnWithContext(logger, "segment overlaps", "segment_anomaly", logging.String(logging.FieldImpact, "audio repeats"))
	content := readLog(t, logPath)
	for _, fragment := range []string{"event_type=segment_anomaly", "error_hint=", `impact="audio repeats"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("ignored")
	logging.WarnWithContext(nil, "ignored", "noop")
}
