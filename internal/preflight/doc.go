// Package preflight provides readiness checks for the filesystem paths and
// external services silhouette depends on.
//
// The CLI "silhouette check" command runs RunAll and renders the results as a
// table. Service checks are gated by configuration: the model endpoint is
// probed only when an HTTP model is selected, and Redis only when a URL is set.
package preflight
