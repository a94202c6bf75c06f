package testsupport

import (
	"path/filepath"
	"testing"

	"silhouette/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHTTPModel selects the HTTP segmentation model as primary.
func WithHTTPModel(endpoint string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Background.Primary = config.ModelHTTP
		b.cfg.Background.Endpoint = endpoint
		b.cfg.Background.RequestTimeout = 5
	}
}

// WithSecondary sets the fallback model kind.
func WithSecondary(kind string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Background.Secondary = kind
	}
}

// WithMinRegionSize overrides the smallest region kept by the vectorizer.
func WithMinRegionSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vectorize.MinRegionSize = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
