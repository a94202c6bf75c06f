package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"silhouette/internal/jobs"
)

// progressRenderer prints a one-line batch summary per snapshot. On a
// terminal the line is redrawn in place; otherwise each snapshot is its own line.
type progressRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	redraw   bool
	lastLine string
	drawn    bool
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out, redraw: isTerminal(out)}
}

func (r *progressRenderer) Publish(_ context.Context, snapshot []jobs.Job) {
	line := summarizeSnapshot(snapshot)
	r.mu.Lock()
	defer r.mu.Unlock()
	if line == r.lastLine {
		return
	}
	r.lastLine = line
	if r.redraw {
		fmt.Fprintf(r.out, "\r\x1b[K%s", line)
		r.drawn = true
		return
	}
	fmt.Fprintln(r.out, line)
}

// finish terminates an in-place line so later output starts cleanly.
func (r *progressRenderer) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.redraw && r.drawn {
		fmt.Fprintln(r.out)
		r.drawn = false
	}
}

func summarizeSnapshot(snapshot []jobs.Job) string {
	stats := jobs.Summarize(snapshot)
	var current string
	for _, job := range snapshot {
		if job.Status == jobs.StatusProcessing {
			current = fmt.Sprintf(" · %s %d%%", job.Source.Name, job.Progress)
			break
		}
	}
	done := stats.Completed + stats.Failed
	parts := []string{
		fmt.Sprintf("[%d/%d]", done, stats.Total),
		fmt.Sprintf("%s %d", statusLabel(jobs.StatusCompleted), stats.Completed),
		fmt.Sprintf("%s %d", statusLabel(jobs.StatusFailed), stats.Failed),
		fmt.Sprintf("%s %d", statusLabel(jobs.StatusPending), stats.Pending),
	}
	return strings.Join(parts, "  ") + current
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
