package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"silhouette/internal/config"
	"silhouette/internal/logging"
	"silhouette/internal/services"
)

func TestConsoleLoggerFormatsSubject(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithJobID(context.Background(), "0123456789abcdef")
	ctx = services.WithStage(ctx, "vectorize")
	logging.WithContext(ctx, logger).Info("regions extracted", logging.Int("regions", 12))

	line := buf.String()
	for _, fragment := range []string{"INFO", "job 01234567 · vectorize", "regions extracted", "regions=12"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no source location at info level, got %q", line)
	}
}

func TestConsoleLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info line should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestFanoutWritesJSONFile(t *testing.T) {
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "silhouette.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &console, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("batch finished", logging.String(logging.FieldEventType, "batch_complete"))

	if !strings.Contains(console.String(), "batch finished") {
		t.Fatalf("console missing record: %q", console.String())
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, content)
	}
	if record["msg"] != "batch finished" {
		t.Fatalf("unexpected msg %v", record["msg"])
	}
	if record["event_type"] != "batch_complete" {
		t.Fatalf("unexpected event_type %v", record["event_type"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level %v", record["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigUsesLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")
	if _, err := os.Stat(cfg.LogPath()); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestFormatSubject(t *testing.T) {
	cases := []struct {
		component, job, stage string
		want                  string
	}{
		{"", "", "", ""},
		{"pipeline", "", "", "pipeline"},
		{"", "abc", "load", "job abc · load"},
		{"api", "0123456789", "", "api · job 01234567"},
	}
	for _, tc := range cases {
		if got := logging.FormatSubject(tc.component, tc.job, tc.stage); got != tc.want {
			t.Fatalf("FormatSubject(%q,%q,%q) = %q, want %q", tc.component, tc.job, tc.stage, got, tc.want)
		}
	}
}
