package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"silhouette/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SILHOUETTE_MODEL_ENDPOINT", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "silhouette")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.DatabasePath() != filepath.Join(wantState, "jobs.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Background.Primary != config.ModelChroma {
		t.Fatalf("expected chroma primary by default, got %q", cfg.Background.Primary)
	}
	if cfg.Background.Secondary != config.ModelNone {
		t.Fatalf("expected no secondary by default, got %q", cfg.Background.Secondary)
	}
	if cfg.Background.MaxDimension != 1024 {
		t.Fatalf("unexpected max dimension: %d", cfg.Background.MaxDimension)
	}
	v := cfg.Vectorize
	if v.AlphaThreshold != 128 || v.SeedStride != 4 || v.MaxRegionSize != 100 || v.MinRegionSize != 10 {
		t.Fatalf("unexpected vectorize defaults: %+v", v)
	}
	if v.Fill != "black" {
		t.Fatalf("unexpected fill: %q", v.Fill)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "custom.toml")
	custom := config.Default()
	custom.Paths.StateDir = "~/state"
	custom.Background.Primary = config.ModelHTTP
	custom.Background.Secondary = config.ModelChroma
	custom.Background.Endpoint = "http://127.0.0.1:9000/segment/"
	custom.Vectorize.MinRegionSize = 4
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Background.Endpoint != "http://127.0.0.1:9000/segment" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Background.Endpoint)
	}
	if cfg.Vectorize.MinRegionSize != 4 {
		t.Fatalf("unexpected min region size: %d", cfg.Vectorize.MinRegionSize)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected log format to be normalized, got %q", cfg.Logging.Format)
	}
}

func TestEndpointFallsBackToEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SILHOUETTE_MODEL_ENDPOINT", "https://models.example/segment")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[background]\nprimary = \"http\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Background.Endpoint != "https://models.example/segment" {
		t.Fatalf("expected endpoint from env, got %q", cfg.Background.Endpoint)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "unknown primary",
			mutate:  func(c *config.Config) { c.Background.Primary = "magic" },
			wantErr: "background.primary",
		},
		{
			name:    "primary none",
			mutate:  func(c *config.Config) { c.Background.Primary = config.ModelNone },
			wantErr: "background.primary",
		},
		{
			name:    "http without endpoint",
			mutate:  func(c *config.Config) { c.Background.Secondary = config.ModelHTTP },
			wantErr: "background.endpoint",
		},
		{
			name: "endpoint not url",
			mutate: func(c *config.Config) {
				c.Background.Primary = config.ModelHTTP
				c.Background.Endpoint = "localhost:9000"
			},
			wantErr: "http(s) URL",
		},
		{
			name:    "min above max",
			mutate:  func(c *config.Config) { c.Vectorize.MinRegionSize = 200 },
			wantErr: "min_region_size",
		},
		{
			name:    "alpha threshold out of range",
			mutate:  func(c *config.Config) { c.Vectorize.AlphaThreshold = 255 },
			wantErr: "alpha_threshold",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Vectorize.SeedStride != 4 {
		t.Fatalf("unexpected seed stride from sample: %d", cfg.Vectorize.SeedStride)
	}
}
