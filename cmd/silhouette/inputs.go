package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"silhouette/internal/config"
	"silhouette/internal/pipeline"
	"silhouette/internal/raster"
)

// collectAssets reads every argument into an asset. Directories expand to
// their supported image files in lexical order; explicit files are taken as
// given and left to the decode stage to accept or reject.
func collectAssets(args []string) ([]pipeline.Asset, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one image file or directory is required")
	}
	var assets []pipeline.Asset
	for _, arg := range args {
		path, err := config.ExpandPath(strings.TrimSpace(arg))
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("inspect path %q: %w", path, err)
		}
		if !info.IsDir() {
			asset, err := readAsset(path)
			if err != nil {
				return nil, err
			}
			assets = append(assets, asset)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !raster.Supported(entry.Name()) {
				continue
			}
			asset, err := readAsset(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			assets = append(assets, asset)
		}
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no supported images found (extensions: %s)", strings.Join(raster.Extensions(), " "))
	}
	return assets, nil
}

func readAsset(path string) (pipeline.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Asset{}, fmt.Errorf("read %q: %w", path, err)
	}
	return pipeline.Asset{Name: filepath.Base(path), Data: data}, nil
}
