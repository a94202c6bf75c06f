// Package export packages completed vector documents into a zip archive.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"time"

	"silhouette/internal/jobs"
	"silhouette/internal/services"
)

const stage = "export"

// EntryName is "<stem>_<first 8 of id>.svg" where stem is the source name up
// to its first dot.
func EntryName(job jobs.Job) string {
	return fmt.Sprintf("%s_%s.svg", job.Stem(), job.ShortID())
}

// ArchiveName returns the dated download name for an archive built at now.
func ArchiveName(now time.Time) string {
	return "processed_images_" + now.UTC().Format("2006-01-02") + ".zip"
}

// Exportable keeps completed jobs that carry a vector document, in input order.
func Exportable(list []jobs.Job) []jobs.Job {
	out := make([]jobs.Job, 0, len(list))
	for _, job := range list {
		if job.Status == jobs.StatusCompleted && job.Vector != nil {
			out = append(out, job)
		}
	}
	return out
}

// WriteArchive writes a zip of every exportable job to w and returns the
// number of entries. Colliding entry names get "-2", "-3", ... suffixes.
func WriteArchive(w io.Writer, list []jobs.Job) (int, error) {
	selected := Exportable(list)
	if len(selected) == 0 {
		return 0, services.Wrap(services.ErrNothingToExport, stage, "select", "no completed SVGs to export", nil)
	}

	zw := zip.NewWriter(w)
	used := make(map[string]bool, len(selected))
	for _, job := range selected {
		name := uniqueName(EntryName(job), used)
		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: job.UpdatedAt,
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return 0, services.Wrap(services.ErrStorageUnavailable, stage, "create entry", name, err)
		}
		if _, err := entry.Write(job.Vector); err != nil {
			return 0, services.Wrap(services.ErrStorageUnavailable, stage, "write entry", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, services.Wrap(services.ErrStorageUnavailable, stage, "finalize archive", "", err)
	}
	return len(selected), nil
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	base := strings.TrimSuffix(name, ".svg")
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d.svg", base, n)
	}
	used[candidate] = true
	return candidate
}
