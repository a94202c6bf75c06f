package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackground(); err != nil {
		return err
	}
	if err := c.validateVectorize(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBackground() error {
	bg := c.Background
	switch bg.Primary {
	case ModelHTTP, ModelChroma:
	default:
		return fmt.Errorf("background.primary must be %q or %q, got %q", ModelHTTP, ModelChroma, bg.Primary)
	}
	switch bg.Secondary {
	case ModelHTTP, ModelChroma, ModelNone:
	default:
		return fmt.Errorf("background.secondary must be %q, %q, or %q, got %q", ModelHTTP, ModelChroma, ModelNone, bg.Secondary)
	}
	if (bg.Primary == ModelHTTP || bg.Secondary == ModelHTTP) && bg.Endpoint == "" {
		return errors.New("background.endpoint must be set when the http model is selected (or set SILHOUETTE_MODEL_ENDPOINT)")
	}
	if bg.Endpoint != "" && !strings.HasPrefix(bg.Endpoint, "http://") && !strings.HasPrefix(bg.Endpoint, "https://") {
		return fmt.Errorf("background.endpoint must be an http(s) URL, got %q", bg.Endpoint)
	}
	if bg.ChromaTolerance < 0 || bg.ChromaTolerance > 100 {
		return errors.New("background.chroma_tolerance must be between 0 and 100")
	}
	if bg.ChromaSoftness < 0 {
		return errors.New("background.chroma_softness must be >= 0")
	}
	if bg.ChromaBlurSigma < 0 {
		return errors.New("background.chroma_blur_sigma must be >= 0")
	}
	return nil
}

func (c *Config) validateVectorize() error {
	v := c.Vectorize
	if v.AlphaThreshold < 0 || v.AlphaThreshold > 254 {
		return errors.New("vectorize.alpha_threshold must be between 0 and 254")
	}
	if v.MaxRegionSize < 1 {
		return errors.New("vectorize.max_region_size must be positive")
	}
	if v.MinRegionSize < 1 {
		return errors.New("vectorize.min_region_size must be positive")
	}
	if v.MinRegionSize > v.MaxRegionSize {
		return fmt.Errorf("vectorize.min_region_size (%d) cannot exceed max_region_size (%d)", v.MinRegionSize, v.MaxRegionSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
