package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackground()
	c.normalizeVectorize()
	c.normalizeProgress()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeBackground() {
	bg := &c.Background
	bg.Primary = strings.ToLower(strings.TrimSpace(bg.Primary))
	if bg.Primary == "" {
		bg.Primary = ModelChroma
	}
	bg.Secondary = strings.ToLower(strings.TrimSpace(bg.Secondary))
	if bg.Secondary == "" {
		bg.Secondary = ModelNone
	}
	if strings.TrimSpace(bg.Endpoint) == "" {
		if value, ok := os.LookupEnv("SILHOUETTE_MODEL_ENDPOINT"); ok {
			bg.Endpoint = value
		}
	}
	bg.Endpoint = strings.TrimRight(strings.TrimSpace(bg.Endpoint), "/")
	bg.PrimaryModel = strings.TrimSpace(bg.PrimaryModel)
	if bg.PrimaryModel == "" {
		bg.PrimaryModel = defaultPrimaryModel
	}
	bg.SecondaryModel = strings.TrimSpace(bg.SecondaryModel)
	if bg.SecondaryModel == "" {
		bg.SecondaryModel = defaultSecondaryModel
	}
	if bg.RequestTimeout <= 0 {
		bg.RequestTimeout = defaultRequestTimeout
	}
	if bg.MaxDimension <= 0 {
		bg.MaxDimension = defaultMaxDimension
	}
}

func (c *Config) normalizeVectorize() {
	v := &c.Vectorize
	if v.SeedStride <= 0 {
		v.SeedStride = defaultSeedStride
	}
	v.Fill = strings.TrimSpace(v.Fill)
	if v.Fill == "" {
		v.Fill = defaultFill
	}
}

func (c *Config) normalizeProgress() {
	c.Progress.RedisURL = strings.TrimSpace(c.Progress.RedisURL)
	c.Progress.RedisChannel = strings.TrimSpace(c.Progress.RedisChannel)
	if c.Progress.RedisChannel == "" {
		c.Progress.RedisChannel = defaultRedisChannel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
