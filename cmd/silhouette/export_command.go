package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"silhouette/internal/config"
	"silhouette/internal/export"
	"silhouette/internal/fileutil"
	"silhouette/internal/jobs"
	"silhouette/internal/services"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write completed SVGs to a zip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *jobs.Store) error {
				list, err := store.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				jobs.SortBySeq(list)
				if len(export.Exportable(list)) == 0 {
					return services.Wrap(services.ErrNothingToExport, "export", "select", "no completed SVGs to export", nil)
				}

				target, err := exportTarget(outPath, time.Now())
				if err != nil {
					return err
				}
				count, err := writeArchiveFile(target, list)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d SVG(s) to %s\n", count, target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Archive path or directory (default: ./processed_images_<date>.zip)")
	return cmd
}

func exportTarget(outPath string, now time.Time) (string, error) {
	outPath = strings.TrimSpace(outPath)
	if outPath == "" {
		return export.ArchiveName(now), nil
	}
	expanded, err := config.ExpandPath(outPath)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(expanded); err == nil && info.IsDir() {
		return filepath.Join(expanded, export.ArchiveName(now)), nil
	}
	return expanded, nil
}

// writeArchiveFile never leaves a truncated archive at target.
func writeArchiveFile(target string, list []jobs.Job) (int, error) {
	var count int
	err := fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
		var err error
		count, err = export.WriteArchive(w, list)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
