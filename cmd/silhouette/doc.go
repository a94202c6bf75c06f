// Package main hosts the silhouette CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into batch runs against
// the pipeline orchestrator, job store maintenance, archive export, and the
// read-only HTTP API. It centralizes configuration resolution, logger setup,
// and store lifetime so subcommands only describe their own behaviour.
//
// Batch commands (process, resume) hold the run lock for their duration so
// two invocations never drive the same job database at once.
package main
