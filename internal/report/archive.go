package report

import (
	"context"
	"database/sql"

	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/models"
)

const excerptLength = 280

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS research_reports (
		run_id       TEXT PRIMARY KEY,
		target       TEXT NOT NULL,
		industry     TEXT NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL,
		file_path    TEXT NOT NULL,
		content      TEXT NOT NULL
	)`

// Archive keeps written reports in Postgres.
type Archive struct {
	db     *sql.DB
	logger logger.Logger
}

func NewArchive(db *sql.DB, log logger.Logger) *Archive {
	return &Archive{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "report-archive"}),
	}
}

// EnsureSchema creates the reports table when missing.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schemaSQL); err != nil {
		return errors.NewArchiveFailedError(err)
	}
	return nil
}

func (a *Archive) Save(ctx context.Context, r *models.Report) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO research_reports (run_id, target, industry, generated_at, file_path, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING`,
		r.RunID, r.Target, r.Industry, r.GeneratedAt, r.FilePath, r.Content)
	if err != nil {
		return errors.NewArchiveFailedError(err)
	}

	a.logger.Info("report archived", map[string]interface{}{
		"runId":  r.RunID,
		"target": r.Target,
	})
	return nil
}

// ListByTarget returns archived reports for target, newest first.
func (a *Archive) ListByTarget(ctx context.Context, target string, limit int) ([]models.ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT run_id, target, industry, generated_at, file_path, LEFT(content, $3)
		FROM research_reports
		WHERE target = $1
		ORDER BY generated_at DESC
		LIMIT $2`, target, limit, excerptLength)
	if err != nil {
		return nil, errors.NewArchiveFailedError(err)
	}
	defer rows.Close()

	var out []models.ReportSummary
	for rows.Next() {
		var s models.ReportSummary
		if err := rows.Scan(&s.RunID, &s.Target, &s.Industry, &s.GeneratedAt, &s.FilePath, &s.Excerpt); err != nil {
			return nil, errors.NewArchiveFailedError(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewArchiveFailedError(err)
	}
	return out, nil
}
