package preflight

import (
	"context"

	"silhouette/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if usesHTTPModel(cfg) {
		results = append(results, CheckEndpoint(ctx, "Model endpoint", cfg.Background.Endpoint))
	}

	if cfg.Progress.RedisURL != "" {
		results = append(results, CheckRedis(ctx, cfg.Progress.RedisURL))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

func usesHTTPModel(cfg *config.Config) bool {
	return cfg.Background.Primary == config.ModelHTTP || cfg.Background.Secondary == config.ModelHTTP
}
