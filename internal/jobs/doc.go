// Package jobs persists pipeline jobs in SQLite and exposes the helpers that
// drive their lifecycle.
//
// A Job tracks one submitted raster through pending, processing, and a
// terminal completed or failed state. The Store upserts whole records keyed by
// job ID, so every intermediate stage the pipeline persists survives a process
// restart; ResetInterrupted returns jobs that were mid-flight at shutdown to
// pending so they can be resumed.
//
// The database is local state for one machine rather than a long-term archive.
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema. Records carry no per-row version.
package jobs
