package report

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*Archive, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewArchive(db, logger.NewTestLogger(t)), mock
}

func sampleReport() *models.Report {
	return &models.Report{
		RunID:       "run-1",
		Target:      "Acme Co",
		Industry:    "retail",
		GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		FilePath:    "reports/Acme_Co_2026-03-01_09-30-00.txt",
		Content:     "# Strategic Analysis Report: Acme Co",
	}
}

func TestArchive_Save(t *testing.T) {
	archive, mock := setupMockDB(t)
	r := sampleReport()

	mock.ExpectExec(`INSERT INTO research_reports`).
		WithArgs(r.RunID, r.Target, r.Industry, r.GeneratedAt, r.FilePath, r.Content).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, archive.Save(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchive_Save_Error(t *testing.T) {
	archive, mock := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO research_reports`).WillReturnError(errors.New("connection reset"))

	err := archive.Save(context.Background(), sampleReport())
	require.Error(t, err)

	se, ok := commonerrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeArchiveFailed, se.Code)
	assert.True(t, se.Retryable)
}

func TestArchive_ListByTarget(t *testing.T) {
	archive, mock := setupMockDB(t)
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT run_id, target, industry, generated_at, file_path, LEFT\(content, \$3\) FROM research_reports`).
		WithArgs("Acme Co", 20, excerptLength).
		WillReturnRows(sqlmock.NewRows([]string{"run_id", "target", "industry", "generated_at", "file_path", "left"}).
			AddRow("run-2", "Acme Co", "retail", newer, "reports/b.txt", "# B").
			AddRow("run-1", "Acme Co", "retail", older, "reports/a.txt", "# A"))

	got, err := archive.ListByTarget(context.Background(), "Acme Co", 0)
	require.NoError(t, err)

	assert.Equal(t, []models.ReportSummary{
		{RunID: "run-2", Target: "Acme Co", Industry: "retail", GeneratedAt: newer, FilePath: "reports/b.txt", Excerpt: "# B"},
		{RunID: "run-1", Target: "Acme Co", Industry: "retail", GeneratedAt: older, FilePath: "reports/a.txt", Excerpt: "# A"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchive_EnsureSchema(t *testing.T) {
	archive, mock := setupMockDB(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS research_reports`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, archive.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
