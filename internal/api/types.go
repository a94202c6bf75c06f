package api

import "silhouette/internal/jobs"

// JobListResponse wraps a collection of job summaries.
type JobListResponse struct {
	Items []jobs.Summary `json:"items"`
}

// JobResponse wraps a single job summary.
type JobResponse struct {
	Item jobs.Summary `json:"item"`
}

// StatsResponse provides per-status counts.
type StatsResponse struct {
	Counts jobs.Stats `json:"counts"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
