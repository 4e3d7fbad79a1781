package report

import (
	"context"
	"time"

	"research-crew/internal/common/logger"
	"research-crew/internal/models"
)

type Archiver interface {
	Save(ctx context.Context, r *models.Report) error
}

type Indexer interface {
	Index(ctx context.Context, r *models.Report) error
}

// Notifier announces a written report and returns the message id.
type Notifier interface {
	Notify(ctx context.Context, event models.ReportReadyEvent) (string, error)
}

// Sinks are the optional destinations of a written report. Nil sinks are skipped.
type Sinks struct {
	Archive  Archiver
	Index    Indexer
	Notifier Notifier
}

// Delivery records which sinks accepted a report.
type Delivery struct {
	Archived  bool
	Indexed   bool
	Notified  bool
	MessageID string
}

// ReadyEvent is the notification payload for r.
func ReadyEvent(r *models.Report) models.ReportReadyEvent {
	return models.ReportReadyEvent{
		RunID:       r.RunID,
		Target:      r.Target,
		Industry:    r.Industry,
		FilePath:    r.FilePath,
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// Deliver hands r to every configured sink. A failing sink is logged and the
// remaining sinks still run.
func (s Sinks) Deliver(ctx context.Context, r *models.Report, log logger.Logger) Delivery {
	var d Delivery
	log = log.With(map[string]interface{}{"runId": r.RunID})

	if s.Archive != nil {
		if err := s.Archive.Save(ctx, r); err != nil {
			log.Warn("report archive failed", map[string]interface{}{"error": err.Error()})
		} else {
			d.Archived = true
		}
	}
	if s.Index != nil {
		if err := s.Index.Index(ctx, r); err != nil {
			log.Warn("report indexing failed", map[string]interface{}{"error": err.Error()})
		} else {
			d.Indexed = true
		}
	}
	if s.Notifier != nil {
		id, err := s.Notifier.Notify(ctx, ReadyEvent(r))
		if err != nil {
			log.Warn("report notification failed", map[string]interface{}{"error": err.Error()})
		} else {
			d.Notified = true
			d.MessageID = id
		}
	}
	return d
}
