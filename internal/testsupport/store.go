package testsupport

import (
	"context"
	"testing"

	"silhouette/internal/config"
	"silhouette/internal/jobs"
)

// MustOpenStore opens a jobs.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *jobs.Store {
	t.Helper()

	store, err := jobs.Open(cfg)
	if err != nil {
		t.Fatalf("jobs.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutJob creates and persists a pending job for the named payload.
func PutJob(t testing.TB, store *jobs.Store, name string, data []byte) *jobs.Job {
	t.Helper()

	job := jobs.New(jobs.NewSourceAsset(name, data))
	if err := store.Put(context.Background(), job); err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return job
}
