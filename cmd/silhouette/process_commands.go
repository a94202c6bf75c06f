package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"silhouette/internal/config"
	"silhouette/internal/jobs"
	"silhouette/internal/pipeline"
	"silhouette/internal/progress"
	"silhouette/internal/runlock"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process <file|dir>...",
		Short: "Process images into SVG silhouettes",
		Long: "Submit each image as a job and process the batch one image at a time.\n" +
			"Directories expand to their image files in name order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := collectAssets(args)
			if err != nil {
				return err
			}
			return ctx.runBatch(cmd, func(runCtx context.Context, orch *pipeline.Orchestrator, sink progress.Sink) ([]jobs.Job, error) {
				return orch.ProcessBatch(runCtx, assets, sink)
			})
		},
	}
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume pending and interrupted jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runBatch(cmd, func(runCtx context.Context, orch *pipeline.Orchestrator, sink progress.Sink) ([]jobs.Job, error) {
				return orch.Resume(runCtx, sink)
			})
		},
	}
}

type batchFunc func(context.Context, *pipeline.Orchestrator, progress.Sink) ([]jobs.Job, error)

// runBatch holds the run lock, wires progress output, and prints the final table.
func (c *commandContext) runBatch(cmd *cobra.Command, run batchFunc) error {
	return c.withStore(func(cfg *config.Config, store *jobs.Store) error {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer lock.Release()

		orch, err := c.orchestrator(cfg, store)
		if err != nil {
			return err
		}
		runCtx := cmd.Context()
		sink, renderer, cleanup, err := c.progressSink(runCtx, cmd, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		final, runErr := run(runCtx, orch, sink)
		renderer.finish()

		out := cmd.OutOrStdout()
		printBatchResult(out, final)
		if runErr != nil {
			if errors.Is(runErr, context.Canceled) {
				fmt.Fprintln(out, "Interrupted; run `silhouette resume` to continue.")
			}
			return runErr
		}
		return nil
	})
}

func printBatchResult(out io.Writer, final []jobs.Job) {
	if len(final) == 0 {
		fmt.Fprintln(out, "No jobs to process")
		return
	}
	fmt.Fprintln(out, renderJobTable(final))
	stats := jobs.Summarize(final)
	fmt.Fprintf(out, "%d completed, %d failed, %d remaining\n", stats.Completed, stats.Failed, stats.Pending+stats.Processing)
}
