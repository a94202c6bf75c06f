// Package api exposes the job store over a small read-only HTTP interface.
//
// # Routes
//
//	GET /api/jobs              job summaries in submission order
//	GET /api/stats             per-status counts
//	GET /api/jobs/{id}         one summary
//	GET /api/jobs/{id}/svg     the vector document of a completed job
//	GET /api/jobs/{id}/cleaned the background-removed PNG
//	GET /api/export            zip of every completed SVG
//
// Payload bytes never appear in JSON responses; summaries carry has_cleaned
// and has_vector flags instead. Errors are returned as {"error": "..."}.
//
// The router is built on chi. Server wraps it with the same http.Server
// timeouts the daemon uses and shuts down when its context ends.
package api
