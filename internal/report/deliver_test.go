package report

import (
	"context"
	"errors"
	"testing"

	"research-crew/internal/common/logger"
	"research-crew/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockArchiver struct{ mock.Mock }

func (m *MockArchiver) Save(ctx context.Context, r *models.Report) error {
	return m.Called(ctx, r).Error(0)
}

type MockIndexer struct{ mock.Mock }

func (m *MockIndexer) Index(ctx context.Context, r *models.Report) error {
	return m.Called(ctx, r).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, event models.ReportReadyEvent) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

func TestSinks_Deliver(t *testing.T) {
	r := sampleReport()

	archive := new(MockArchiver)
	archive.On("Save", mock.Anything, r).Return(errors.New("db down")).Once()
	index := new(MockIndexer)
	index.On("Index", mock.Anything, r).Return(nil).Once()
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, models.ReportReadyEvent{
		RunID:       "run-1",
		Target:      "Acme Co",
		Industry:    "retail",
		FilePath:    "reports/Acme_Co_2026-03-01_09-30-00.txt",
		GeneratedAt: "2026-03-01T09:30:00Z",
	}).Return("msg-1", nil).Once()

	d := Sinks{Archive: archive, Index: index, Notifier: notifier}.
		Deliver(context.Background(), r, logger.NewTestLogger(t))

	assert.Equal(t, Delivery{Archived: false, Indexed: true, Notified: true, MessageID: "msg-1"}, d)
	archive.AssertExpectations(t)
	index.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSinks_DeliverNone(t *testing.T) {
	d := Sinks{}.Deliver(context.Background(), sampleReport(), logger.NewNoOpLogger())
	assert.Equal(t, Delivery{}, d)
}
