// Package config loads, normalizes, and validates silhouette configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SILHOUETTE_MODEL_ENDPOINT. The Config type centralizes every knob the CLI,
// the pipeline, and the API server need so state directories, model selection,
// and vectorization tunables are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
