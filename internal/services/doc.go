// Package services defines shared utilities consumed by the pipeline stages
// and the external collaborators they call.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - The error taxonomy (storage, decode, model, inference, export) plus the
//     Wrap helper that tags failures with a marker, stage, and operation so the
//     pipeline can record a readable failure reason and log structured details.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services
