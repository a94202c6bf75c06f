package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Background selects and tunes the background-removal models.
//
// Primary and Secondary take one of "http", "chroma", or "none". The secondary
// model is attempted exactly once when the primary fails.
type Background struct {
	Primary         string  `toml:"primary"`
	Secondary       string  `toml:"secondary"`
	Endpoint        string  `toml:"endpoint"`
	PrimaryModel    string  `toml:"primary_model"`
	SecondaryModel  string  `toml:"secondary_model"`
	RequestTimeout  int     `toml:"request_timeout"`
	MaxDimension    int     `toml:"max_dimension"`
	ChromaTolerance float64 `toml:"chroma_tolerance"`
	ChromaSoftness  float64 `toml:"chroma_softness"`
	ChromaBlurSigma float64 `toml:"chroma_blur_sigma"`
}

// Vectorize contains the region extraction tunables.
type Vectorize struct {
	AlphaThreshold int    `toml:"alpha_threshold"`
	SeedStride     int    `toml:"seed_stride"`
	MaxRegionSize  int    `toml:"max_region_size"`
	MinRegionSize  int    `toml:"min_region_size"`
	Fill           string `toml:"fill"`
}

// Progress configures optional snapshot publishing.
type Progress struct {
	RedisURL     string `toml:"redis_url"`
	RedisChannel string `toml:"redis_channel"`
}

// API configures the read-only HTTP server.
type API struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for silhouette.
//
// Configuration sections by subsystem:
//   - Paths: job database, lock file, and log locations
//   - Background: model selection, endpoint, and local chroma-key tuning
//   - Vectorize: flood-fill thresholds and output fill colour
//   - Progress: optional Redis snapshot publishing
//   - API: bind address for `silhouette serve`
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Background Background `toml:"background"`
	Vectorize  Vectorize  `toml:"vectorize"`
	Progress   Progress   `toml:"progress"`
	API        API        `toml:"api"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/silhouette/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("silhouette.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the job store location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StateDir, "jobs.db")
}

// LockPath returns the file used to serialize batch runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "silhouette.lock")
}

// LogPath returns the persistent log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "silhouette.log")
}

// ModelTimeout returns the per-request timeout for the HTTP segmentation model.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Background.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
