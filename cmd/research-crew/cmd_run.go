package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"research-crew/internal/bootstrap"
	"research-crew/internal/common/observability"
	"research-crew/internal/crew"
	"research-crew/internal/models"
	"research-crew/internal/report"
)

type runFlags struct {
	target        string
	industry      string
	decisionMaker string
	position      string
	milestone     string
	email         string
}

func newRunCmd(load configLoader) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Research a target organization and write the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalysis(cmd, load, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.target, "target", "", "Target organization name (required)")
	f.StringVar(&flags.industry, "industry", "", "Target industry (required)")
	f.StringVar(&flags.decisionMaker, "decision-maker", "", "Key decision-maker")
	f.StringVar(&flags.position, "position", "", "Decision-maker's position")
	f.StringVar(&flags.milestone, "milestone", "", "Recent milestone or event")
	f.StringVar(&flags.email, "email", "", "Mail the report to this address")

	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("industry")
	return cmd
}

func runAnalysis(cmd *cobra.Command, load configLoader, flags runFlags) error {
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, sync, err := bootstrap.Logger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer sync()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("run metrics unavailable", map[string]interface{}{"error": err.Error()})
	}
	defer obs.Shutdown()

	searcher, closeSearch := bootstrap.Searcher(ctx, cfg, log)
	defer closeSearch()

	set, err := bootstrap.ToolSet(searcher, log)
	if err != nil {
		return err
	}
	exec, err := bootstrap.Executor(cfg, set, log, crew.WithRecorder(obs))
	if err != nil {
		return err
	}

	req := models.AnalysisRequest{
		TargetName:       flags.target,
		Industry:         flags.industry,
		KeyDecisionMaker: flags.decisionMaker,
		Position:         flags.position,
		Milestone:        flags.milestone,
	}
	fmt.Fprintf(out, "Starting analysis for %s (%s)...\n", req.TargetName, req.Industry)

	run, err := exec.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	r := report.FromRun(run, exec.Pipeline(), time.Now())
	path, err := report.Write(cfg.Pipeline.ReportsDir, r.Target, r.Timestamp, r.Content)
	if err != nil {
		return err
	}
	r.FilePath = path
	obs.RecordReport(ctx, len(r.Content))
	fmt.Fprintf(out, "Report saved to %s\n", path)

	sinks, closeSinks := bootstrap.Sinks(ctx, cfg, log)
	defer closeSinks()
	sinks.Deliver(ctx, r, log)

	if flags.email == "" {
		return nil
	}
	if !strings.Contains(flags.email, "@") {
		log.Warn("skipping report email, invalid address", map[string]interface{}{"recipient": flags.email})
		fmt.Fprintf(out, "Skipping email: %q is not a valid address\n", flags.email)
		return nil
	}

	mailer := bootstrap.Mailer(ctx, cfg, log)
	if mailer.SendReport(ctx, flags.email, r.Target, r.Timestamp, path) {
		fmt.Fprintf(out, "Report emailed to %s\n", flags.email)
	} else {
		fmt.Fprintf(out, "Failed to email report to %s\n", flags.email)
	}
	return nil
}
