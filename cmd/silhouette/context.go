package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"silhouette/internal/background"
	"silhouette/internal/config"
	"silhouette/internal/jobs"
	"silhouette/internal/logging"
	"silhouette/internal/pipeline"
	"silhouette/internal/progress"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withStore opens the job database for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *jobs.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := jobs.Open(cfg)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

func (c *commandContext) orchestrator(cfg *config.Config, store *jobs.Store) (*pipeline.Orchestrator, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	remover, err := background.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.New(store, remover, pipeline.OptionsFromConfig(cfg), logger), nil
}

// progressSink combines terminal rendering with optional Redis publishing.
// The returned cleanup closes any Redis connection.
func (c *commandContext) progressSink(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (progress.Sink, *progressRenderer, func(), error) {
	renderer := newProgressRenderer(cmd.OutOrStdout())
	url := strings.TrimSpace(cfg.Progress.RedisURL)
	if url == "" {
		return renderer, renderer, func() {}, nil
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := progress.NewRedisClient(ctx, url)
	if err != nil {
		return nil, nil, nil, err
	}
	sink := progress.Multi(renderer, progress.NewRedisSink(client, cfg.Progress.RedisChannel, logger))
	return sink, renderer, func() { _ = client.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
