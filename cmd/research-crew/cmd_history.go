package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"research-crew/internal/bootstrap"
	"research-crew/internal/models"
)

func newHistoryCmd(load configLoader) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <target>",
		Short: "List archived reports for a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Archive.Enabled {
				return fmt.Errorf("report archive is disabled (archive.enabled)")
			}
			log, sync, err := bootstrap.Logger(cfg)
			if err != nil {
				return err
			}
			defer sync()

			archive, closeArchive, err := bootstrap.OpenArchive(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeArchive()

			reports, err := archive.ListByTarget(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			printSummaries(cmd, reports)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum reports to list")
	return cmd
}

func newSearchCmd(load configLoader) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Full-text search over indexed reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Index.Enabled {
				return fmt.Errorf("report index is disabled (index.enabled)")
			}
			log, sync, err := bootstrap.Logger(cfg)
			if err != nil {
				return err
			}
			defer sync()

			index, err := bootstrap.OpenIndex(cfg, log)
			if err != nil {
				return err
			}
			reports, err := index.Search(cmd.Context(), args[0], size)
			if err != nil {
				return err
			}
			printSummaries(cmd, reports)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 10, "Maximum hits to return")
	return cmd
}

func printSummaries(cmd *cobra.Command, reports []models.ReportSummary) {
	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintln(out, "No reports found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GENERATED\tTARGET\tINDUSTRY\tFILE")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.GeneratedAt.UTC().Format(time.RFC3339), r.Target, r.Industry, r.FilePath)
	}
	_ = w.Flush()
}
