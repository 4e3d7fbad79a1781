package report

import (
	"time"

	"research-crew/internal/crew"
	"research-crew/internal/models"
)

// Build renders results into a Report stamped with generatedAt.
func Build(runID string, req models.AnalysisRequest, stages []crew.Stage, results []models.StageResult, roles []string, generatedAt time.Time) *models.Report {
	ts := generatedAt.Format(models.TimestampLayout)
	return &models.Report{
		RunID:       runID,
		Target:      req.TargetName,
		Industry:    req.Industry,
		GeneratedAt: generatedAt,
		Timestamp:   ts,
		Stages:      results,
		Roles:       roles,
		Content:     Render(ts, req, stages, results, roles),
	}
}

// FromRun builds the report of a finished run.
func FromRun(run *crew.Run, p *crew.Pipeline, generatedAt time.Time) *models.Report {
	return Build(run.ID, run.Request, p.Stages(), run.Results, p.Roster(), generatedAt)
}

// Summarize is the archive/index view of r.
func Summarize(r *models.Report) models.ReportSummary {
	return models.ReportSummary{
		RunID:       r.RunID,
		Target:      r.Target,
		Industry:    r.Industry,
		GeneratedAt: r.GeneratedAt,
		FilePath:    r.FilePath,
	}
}
