package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"silhouette/internal/config"
	"silhouette/internal/jobs"
	"silhouette/internal/runlock"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage stored jobs",
	}
	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsStatsCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))
	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored jobs in submission order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter jobs.Status
			if raw := strings.TrimSpace(statusFlag); raw != "" {
				status, ok := jobs.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				filter = status
			}
			return ctx.withStore(func(_ *config.Config, store *jobs.Store) error {
				var (
					list []jobs.Job
					err  error
				)
				if filter != "" {
					list, err = store.ListByStatus(cmd.Context(), filter)
				} else {
					list, err = store.GetAll(cmd.Context())
				}
				if err != nil {
					return err
				}
				jobs.SortBySeq(list)

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, jobs.Summaries(list))
				}
				if len(list) == 0 {
					fmt.Fprintln(out, "No jobs stored")
					return nil
				}
				fmt.Fprintln(out, renderJobTable(list))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "", "Only list jobs in this status (pending, processing, completed, failed)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *jobs.Store) error {
				job, err := resolveJob(cmd, store, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, job.Summary())
				}
				rows := [][]string{
					{"ID", job.ID},
					{"Name", job.Source.Name},
					{"Size", fmt.Sprintf("%d bytes", job.Source.Size)},
					{"Status", statusLabel(job.Status)},
					{"Progress", fmt.Sprintf("%d%%", job.Progress)},
					{"Cleaned image", yesNo(job.Cleaned != nil)},
					{"SVG", yesNo(job.Vector != nil)},
					{"Created", job.CreatedAt.Local().Format("2006-01-02 15:04:05")},
					{"Updated", job.UpdatedAt.Local().Format("2006-01-02 15:04:05")},
				}
				if job.FailureReason != "" {
					rows = append(rows, []string{"Failure", job.FailureReason})
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newJobsStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show job counts per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *jobs.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, stats)
				}
				fmt.Fprintln(out, renderStatsTable(stats))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to delete all jobs without --yes")
			}
			return ctx.withStore(func(cfg *config.Config, store *jobs.Store) error {
				lock, err := runlock.Acquire(cfg.LockPath())
				if err != nil {
					return err
				}
				defer lock.Release()

				orch, err := ctx.orchestrator(cfg, store)
				if err != nil {
					return err
				}
				if err := orch.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all jobs")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "yes", "y", false, "Confirm deletion")
	return cmd
}

// resolveJob accepts a full id or a unique prefix of at least 4 characters.
func resolveJob(cmd *cobra.Command, store *jobs.Store, ref string) (*jobs.Job, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("job id is required")
	}
	job, err := store.Get(cmd.Context(), ref)
	if err != nil {
		return nil, err
	}
	if job != nil {
		return job, nil
	}
	if len(ref) < 4 {
		return nil, fmt.Errorf("job %s not found", ref)
	}
	all, err := store.GetAll(cmd.Context())
	if err != nil {
		return nil, err
	}
	var match *jobs.Job
	for i := range all {
		if strings.HasPrefix(all[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("job id prefix %s is ambiguous", ref)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("job %s not found", ref)
	}
	return match, nil
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
